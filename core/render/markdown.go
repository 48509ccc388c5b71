// Package render provides document renderers for exported sections.
// This file implements the Markdown renderer. Rendered views are converted
// from the captured HTML; raw views already hold Markdown and are written
// as-is.
package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/lessonpipe/core"
	"golang.org/x/net/html"
)

// MarkdownRenderer converts a captured section into Markdown.
type MarkdownRenderer struct {
	conv *converter.Converter
}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
	// Correct quiz options are bold with a check mark.
	conv.Register.RendererFor("div", converter.TagTypeBlock,
		func(_ converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
			if dom.GetAttributeOr(n, "data-correct", "") != "true" {
				return converter.RenderTryNext
			}
			label := strings.TrimSpace(goquery.NewDocumentFromNode(n).Text())
			w.WriteString("\n\n**" + label + "** ✓\n\n")
			return converter.RenderSuccess
		},
		converter.PriorityEarly,
	)
	return &MarkdownRenderer{conv: conv}
}

// Render returns the section as Markdown bytes.
func (r *MarkdownRenderer) Render(_ context.Context, snap *core.Snapshot) ([]byte, error) {
	md, err := r.markdown(snap)
	if err != nil {
		return nil, err
	}
	return []byte(md), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

func (r *MarkdownRenderer) markdown(snap *core.Snapshot) (string, error) {
	if snap == nil || snap.Root == nil {
		return "", errNoContent
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", snap.Meta.Label)

	if snap.Meta.Raw {
		b.WriteString(strings.TrimSpace(goquery.NewDocumentFromNode(snap.Root).Text()))
		b.WriteString("\n")
		return b.String(), nil
	}

	var src strings.Builder
	if err := html.Render(&src, snap.Root); err != nil {
		return "", fmt.Errorf("serializing section: %w", err)
	}
	md, err := r.conv.ConvertString(src.String())
	if err != nil {
		return "", fmt.Errorf("markdown conversion: %w", err)
	}
	b.WriteString(strings.TrimSpace(md))
	b.WriteString("\n")
	return b.String(), nil
}
