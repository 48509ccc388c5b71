package render

import (
	"fmt"

	"github.com/gaurav-prasanna/lessonpipe/core"
)

// Output formats.
const (
	FormatPDF        = "pdf"
	FormatMarkdown   = "markdown"
	FormatJSON       = "json"
	FormatEmbeddings = "embeddings"
)

// Options carries the settings only some renderers need.
type Options struct {
	Model     string
	ChunkSize int
	Embedder  core.Embedder
}

// Select returns the renderer for format.
func Select(format string, opts Options) (core.Renderer, error) {
	switch format {
	case FormatPDF, "":
		return NewPDFRenderer(), nil
	case FormatMarkdown, "md":
		return NewMarkdownRenderer(), nil
	case FormatJSON:
		return NewJSONRenderer(), nil
	case FormatEmbeddings:
		if opts.Model == "" {
			return nil, fmt.Errorf("a model is required for embeddings output")
		}
		return NewEmbeddingsRenderer(opts.Model, opts.ChunkSize, opts.Embedder), nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}
