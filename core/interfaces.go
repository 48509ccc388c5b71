// Package core defines the shared types and pipeline interfaces for LessonPipe.
// Each stage of the pipeline is a clean, testable interface.
package core

import (
	"context"

	"golang.org/x/net/html"
)

// ContentKey identifies one of the three generated content sections.
type ContentKey string

const (
	PreClass  ContentKey = "pre_class_content"
	InClass   ContentKey = "in_class_content"
	PostClass ContentKey = "post_class_content"
)

// ContentKeys lists the recognized keys in display order.
var ContentKeys = []ContentKey{PreClass, InClass, PostClass}

var keyLabels = map[ContentKey]string{
	PreClass:  "Pre-Class Content",
	InClass:   "In-Class Content",
	PostClass: "Post-Class Content",
}

// Label returns the human-readable section title for the key.
func (k ContentKey) Label() string {
	if l, ok := keyLabels[k]; ok {
		return l
	}
	return string(k)
}

// Valid reports whether k is one of the recognized content keys.
func (k ContentKey) Valid() bool {
	_, ok := keyLabels[k]
	return ok
}

// ParseContentKey converts s into a ContentKey, failing for unknown keys.
func ParseContentKey(s string) (ContentKey, error) {
	k := ContentKey(s)
	if !k.Valid() {
		return "", &UnknownKeyError{Key: s}
	}
	return k, nil
}

// UnknownKeyError reports a content key outside the recognized set.
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return "unknown content key: " + e.Key
}

// Canonical is the normalized form of a payload fragment: either a
// structured JSON tree (Object, []any, or a scalar) or opaque text.
type Canonical struct {
	Value  any
	Text   string
	Opaque bool
}

// Structured wraps an already-parsed JSON tree.
func Structured(v any) Canonical {
	return Canonical{Value: v}
}

// OpaqueText wraps text that could not be parsed as structured data.
func OpaqueText(s string) Canonical {
	return Canonical{Text: s, Opaque: true}
}

// Empty reports whether the canonical value carries nothing to display.
func (c Canonical) Empty() bool {
	if c.Opaque {
		return c.Text == ""
	}
	switch v := c.Value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	}
	return false
}

// SectionMeta describes a captured section for document renderers.
type SectionMeta struct {
	Key        ContentKey `json:"key"`
	Label      string     `json:"label"`
	Topic      string     `json:"topic"`
	Difficulty string     `json:"difficulty,omitempty"`
	Raw        bool       `json:"raw"`
	CapturedAt string     `json:"captured_at"` // ISO8601
}

// Snapshot is a detached, style-translated copy of a section's visual subtree.
type Snapshot struct {
	Meta SectionMeta
	Root *html.Node
}

// Heading represents a single heading found in exported content.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Section represents a heading-delimited block of exported content.
type Section struct {
	Heading string `json:"heading"`
	Level   int    `json:"level"`
	Text    string `json:"text"`
}

// SectionJSON is the complete JSON export for a single section.
type SectionJSON struct {
	Metadata SectionMeta `json:"metadata"`
	Markdown string      `json:"markdown"`
	Text     string      `json:"text"`
	Headings []Heading   `json:"headings"`
	Sections []Section   `json:"sections"`
}

// Normalizer converts a raw payload fragment into its canonical form.
type Normalizer interface {
	Normalize(fragment any) Canonical
}

// Renderer converts a captured section into a final document format.
type Renderer interface {
	Render(ctx context.Context, snap *Snapshot) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}

// Generator produces the raw three-section payload for a topic.
type Generator interface {
	Generate(ctx context.Context, topic string, difficulty Difficulty) (Payload, error)
}

// Embedder generates a vector embedding for a text input.
type Embedder interface {
	Embed(ctx context.Context, text string, model string) ([]float64, error)
}

// Difficulty is the requested lesson level.
type Difficulty string

const (
	Beginner Difficulty = "beginner"
	Medium   Difficulty = "medium"
	Advanced Difficulty = "advanced"
)

// DefaultDifficulty is used when no level is given.
const DefaultDifficulty = Medium

// ParseDifficulty validates s; an empty string selects DefaultDifficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(s); d {
	case "":
		return DefaultDifficulty, nil
	case Beginner, Medium, Advanced:
		return d, nil
	}
	return "", &UnknownDifficultyError{Value: s}
}

// UnknownDifficultyError reports a level outside beginner/medium/advanced.
type UnknownDifficultyError struct {
	Value string
}

func (e *UnknownDifficultyError) Error() string {
	return "unknown difficulty: " + e.Value + " (want beginner, medium, or advanced)"
}
