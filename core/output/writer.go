// Package output handles file naming and writing for exported sections.
// Filenames follow {topic}_{key}{ext}; an empty topic becomes "content"
// (e.g., content_pre_class_content.pdf).
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gaurav-prasanna/lessonpipe/core"
)

// DefaultTopic stands in for an empty topic in filenames.
const DefaultTopic = "content"

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	// Ensure the output directory exists.
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// Filename derives the base name for an exported section.
// Example: ("Binary Search", pre_class_content) → Binary Search_pre_class_content
func Filename(topic string, key core.ContentKey) string {
	topic = sanitize(strings.TrimSpace(topic))
	if topic == "" {
		topic = DefaultTopic
	}
	return topic + "_" + string(key)
}

// Write stores data under name+ext in the output directory.
func (w *Writer) Write(name string, data []byte, ext string) (string, error) {
	path := filepath.Join(w.OutputDir, name+ext)

	// The final path only ever holds a complete document.
	tmp, err := os.CreateTemp(w.OutputDir, ".export-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// sanitize replaces path separators so a topic cannot escape the output
// directory.
func sanitize(s string) string {
	return strings.NewReplacer("/", "_", `\`, "_").Replace(s)
}
