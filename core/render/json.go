// Package render — JSON renderer.
// Builds the structured JSON export for a section from its Markdown form:
// metadata, the Markdown itself, plain text, headings, and heading-delimited
// sections.
package render

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/lessonpipe/core"
)

// JSONRenderer produces structured JSON output for a section.
type JSONRenderer struct {
	md *MarkdownRenderer
}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{md: NewMarkdownRenderer()}
}

// Render converts the snapshot into the SectionJSON structure.
func (r *JSONRenderer) Render(_ context.Context, snap *core.Snapshot) ([]byte, error) {
	markdown, err := r.md.markdown(snap)
	if err != nil {
		return nil, err
	}

	headings := extractHeadings(markdown)
	out := core.SectionJSON{
		Metadata: snap.Meta,
		Markdown: markdown,
		Text:     stripMarkdown(markdown),
		Headings: headings,
		Sections: buildSections(markdown, headings),
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

// --- Markdown parsing helpers ---

var headingRegex = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)

func extractHeadings(md string) []core.Heading {
	matches := headingRegex.FindAllStringSubmatch(md, -1)
	headings := make([]core.Heading, 0, len(matches))
	for _, m := range matches {
		headings = append(headings, core.Heading{
			Level: len(m[1]),
			Text:  strings.TrimSpace(m[2]),
		})
	}
	return headings
}

func buildSections(md string, headings []core.Heading) []core.Section {
	if len(headings) == 0 {
		return nil
	}

	lines := strings.Split(md, "\n")
	sections := make([]core.Section, 0, len(headings))
	headingIdx := 0

	var currentSection *core.Section
	var sectionLines []string

	for _, line := range lines {
		if headingRegex.MatchString(line) && headingIdx < len(headings) {
			// Flush previous section.
			if currentSection != nil {
				currentSection.Text = strings.TrimSpace(strings.Join(sectionLines, "\n"))
				sections = append(sections, *currentSection)
			}
			currentSection = &core.Section{
				Heading: headings[headingIdx].Text,
				Level:   headings[headingIdx].Level,
			}
			sectionLines = nil
			headingIdx++
		} else if currentSection != nil {
			sectionLines = append(sectionLines, line)
		}
	}
	// Flush last section.
	if currentSection != nil {
		currentSection.Text = strings.TrimSpace(strings.Join(sectionLines, "\n"))
		sections = append(sections, *currentSection)
	}

	return sections
}

var (
	linkRegex       = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
	listMarkerRegex = regexp.MustCompile(`(?m)^[ \t]*(?:[-*]|\d+\.)[ \t]+`)
)

// stripMarkdown removes common Markdown formatting to produce plain text.
func stripMarkdown(md string) string {
	text := md
	// Remove headings markers.
	text = headingRegex.ReplaceAllString(text, "$2")
	// Remove bold/italic.
	text = regexp.MustCompile(`\*{1,3}([^*]+)\*{1,3}`).ReplaceAllString(text, "$1")
	// Remove links, keep text.
	text = linkRegex.ReplaceAllString(text, "$1")
	// Remove list markers.
	text = listMarkerRegex.ReplaceAllString(text, "")
	// Remove code block fences.
	text = strings.ReplaceAll(text, "```", "")
	// Remove inline code.
	text = regexp.MustCompile("`([^`]+)`").ReplaceAllString(text, "$1")
	// Collapse whitespace.
	text = regexp.MustCompile(`\n{3,}`).ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
