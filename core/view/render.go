// Package view implements the VariantRenderer: it turns a canonical value
// into the visual layout for one of the three content variants, and builds
// the raw Markdown block shown when a section is toggled to raw view.
package view

import (
	"github.com/gaurav-prasanna/lessonpipe/core"
	"github.com/gaurav-prasanna/lessonpipe/core/format"
	"github.com/gaurav-prasanna/lessonpipe/core/variant"
	"github.com/gaurav-prasanna/lessonpipe/logger"
	"golang.org/x/net/html"
)

// VariantRenderer builds visual trees for content sections.
type VariantRenderer struct {
	log *logger.Logger
}

// New creates a VariantRenderer. A nil logger discards diagnostics.
func New(log *logger.Logger) *VariantRenderer {
	if log == nil {
		log = logger.Nop()
	}
	return &VariantRenderer{log: log.With("component", "view")}
}

// Render returns the layout for c under the variant chosen by key, or nil
// when c is empty or does not match that variant.
func (r *VariantRenderer) Render(c core.Canonical, key core.ContentKey) *html.Node {
	if c.Empty() {
		return nil
	}

	v, err := variant.Coerce(c, key)
	if err != nil {
		r.log.Warn("content does not match variant, skipping section", "key", key, "error", err)
		return nil
	}

	switch key {
	case core.PreClass:
		return preClassLayout(v.(variant.PreClass))
	case core.InClass:
		return inClassLayout(v.(variant.InClass))
	case core.PostClass:
		return postClassLayout(v.(variant.PostClass))
	}
	return nil
}

// Raw returns the preformatted Markdown block for the raw view.
func (r *VariantRenderer) Raw(c core.Canonical) *html.Node {
	if c.Empty() {
		return nil
	}
	return el("pre", "bg-gray-800 text-green-400 p-4 rounded-lg overflow-x-auto text-sm font-mono whitespace-pre-wrap border",
		text(format.Format(c)),
	)
}

func texts(in []variant.Text) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		out = append(out, string(t))
	}
	return out
}
