package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/lessonpipe/core"
	"github.com/gaurav-prasanna/lessonpipe/logger"
	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"
)

// Model answers a single text prompt.
type Model interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// LessonGenerator builds the payload by prompting a Model: the in-class
// plan first, then the pre-class and post-class material derived from it.
type LessonGenerator struct {
	model Model
	log   *logger.Logger
}

// NewLessonGenerator creates a LessonGenerator. A nil logger discards output.
func NewLessonGenerator(model Model, log *logger.Logger) *LessonGenerator {
	if log == nil {
		log = logger.Nop()
	}
	return &LessonGenerator{model: model, log: log.With("component", "generate")}
}

// Generate returns the three raw section texts for topic.
func (g *LessonGenerator) Generate(ctx context.Context, topic string, difficulty core.Difficulty) (core.Payload, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	if difficulty == "" {
		difficulty = core.DefaultDifficulty
	}

	g.log.Info("generating in-class content", "topic", topic, "difficulty", difficulty)
	inClass, err := g.model.GenerateText(ctx, inClassRequest(topic, difficulty))
	if err != nil {
		return nil, fmt.Errorf("in-class content: %w", err)
	}
	inClass = strings.TrimSpace(inClass)

	var pre, post string
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		text, err := g.model.GenerateText(ctx, preClassRequest(inClass, difficulty))
		if err != nil {
			return fmt.Errorf("pre-class content: %w", err)
		}
		pre = strings.TrimSpace(text)
		return nil
	})
	eg.Go(func() error {
		text, err := g.model.GenerateText(ctx, postClassRequest(inClass, difficulty))
		if err != nil {
			return fmt.Errorf("post-class content: %w", err)
		}
		post = strings.TrimSpace(text)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	g.log.Debug("generation complete", "topic", topic, "in_class_bytes", len(inClass), "pre_class_bytes", len(pre), "post_class_bytes", len(post))
	return core.Payload{
		core.InClass:   inClass,
		core.PreClass:  pre,
		core.PostClass: post,
	}, nil
}

// GeminiConfig configures the Gemini-backed Model.
type GeminiConfig struct {
	APIKey          string
	Model           string
	Temperature     float32
	MaxOutputTokens int32
}

var errEmptyResponse = errors.New("model returned no text")

// GeminiModel is a Model backed by the Gemini API.
type GeminiModel struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// NewGeminiModel creates a GeminiModel.
func NewGeminiModel(ctx context.Context, cfg GeminiConfig) (*GeminiModel, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiModel{
		client: client,
		model:  cfg.Model,
		config: &genai.GenerateContentConfig{
			Temperature:     genai.Ptr(cfg.Temperature),
			MaxOutputTokens: cfg.MaxOutputTokens,
		},
	}, nil
}

// GenerateText sends prompt and returns the response text.
func (m *GeminiModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt), m.config)
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", m.model, err)
	}
	text := resp.Text()
	if text == "" {
		return "", errEmptyResponse
	}
	return text, nil
}
