package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/gaurav-prasanna/lessonpipe/core"
	"github.com/gaurav-prasanna/lessonpipe/core/generate"
	"github.com/gaurav-prasanna/lessonpipe/core/normalize"
	"github.com/gaurav-prasanna/lessonpipe/core/state"
	"github.com/gaurav-prasanna/lessonpipe/core/view"
)

// lessonFile is the on-disk form of one generation cycle.
type lessonFile struct {
	Topic      string          `json:"topic"`
	Difficulty core.Difficulty `json:"difficulty"`
	Content    core.Payload    `json:"content"`
}

func readLesson(path string) (*lessonFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lesson %s: %w", path, err)
	}
	var lesson lessonFile
	if err := json.Unmarshal(data, &lesson); err != nil {
		return nil, fmt.Errorf("parsing lesson %s: %w", path, err)
	}
	if lesson.Difficulty, err = core.ParseDifficulty(string(lesson.Difficulty)); err != nil {
		return nil, fmt.Errorf("lesson %s: %w", path, err)
	}
	return &lesson, nil
}

// parseKeys converts key flags; an empty list yields nil.
func parseKeys(raw []string) ([]core.ContentKey, error) {
	var keys []core.ContentKey
	for _, s := range raw {
		key, err := core.ParseContentKey(s)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// newSession loads lesson into a fresh session with the raw keys toggled.
func newSession(lesson *lessonFile, raw []core.ContentKey) *state.Session {
	session := state.NewSession(normalize.New(appLog), view.New(appLog))
	session.Load(lesson.Topic, lesson.Difficulty, lesson.Content, raw...)
	return session
}

// newGenerator picks the remote service when one is configured and the
// Gemini-backed generator otherwise.
func newGenerator(ctx context.Context) (core.Generator, error) {
	if appConfig.UsesRemote() {
		appLog.Debug("using remote generator", "url", appConfig.APIURL)
		return generate.NewClient(appConfig.APIURL), nil
	}
	if err := appConfig.RequireGenerator(); err != nil {
		return nil, err
	}
	model, err := generate.NewGeminiModel(ctx, generate.GeminiConfig{
		APIKey:          appConfig.Gemini.APIKey,
		Model:           appConfig.Gemini.Model,
		Temperature:     appConfig.Gemini.Temperature,
		MaxOutputTokens: appConfig.Gemini.MaxOutputTokens,
	})
	if err != nil {
		return nil, err
	}
	return generate.NewLessonGenerator(model, appLog), nil
}
