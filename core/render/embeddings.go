// Package render — Embeddings renderer.
// Converts the section to Markdown, chunks it, and embeds each chunk via
// an Embedder (Ollama by default). Output is a human-readable
// .embeddings.txt file.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gaurav-prasanna/lessonpipe/core"
	"github.com/gaurav-prasanna/lessonpipe/core/chunk"
)

const (
	// DefaultOllamaURL is the local Ollama embeddings endpoint.
	DefaultOllamaURL = "http://localhost:11434/api/embeddings"
	embeddingTimeout = 60 * time.Second
)

// EmbeddingsRenderer generates embeddings from Markdown chunks.
type EmbeddingsRenderer struct {
	Model     string
	ChunkSize int
	embedder  core.Embedder
	md        *MarkdownRenderer
}

// NewEmbeddingsRenderer creates an EmbeddingsRenderer. A nil embedder uses
// Ollama at DefaultOllamaURL.
func NewEmbeddingsRenderer(model string, chunkSize int, embedder core.Embedder) *EmbeddingsRenderer {
	if embedder == nil {
		embedder = NewOllamaEmbedder("")
	}
	if chunkSize <= 0 {
		chunkSize = chunk.DefaultSize
	}
	return &EmbeddingsRenderer{
		Model:     model,
		ChunkSize: chunkSize,
		embedder:  embedder,
		md:        NewMarkdownRenderer(),
	}
}

// Render chunks the section's Markdown, embeds each chunk, and produces
// the human-readable .embeddings.txt output.
func (r *EmbeddingsRenderer) Render(ctx context.Context, snap *core.Snapshot) ([]byte, error) {
	markdown, err := r.md.markdown(snap)
	if err != nil {
		return nil, err
	}

	chunks := chunk.New(r.ChunkSize).Chunk(markdown)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no content to embed")
	}

	var buf strings.Builder
	fmt.Fprintf(&buf, "# section: %s\n", snap.Meta.Key)
	fmt.Fprintf(&buf, "# topic: %s\n", snap.Meta.Topic)
	fmt.Fprintf(&buf, "# model: %s\n", r.Model)
	fmt.Fprintf(&buf, "# chunk_size: %d\n\n", r.ChunkSize)

	for i, chunkText := range chunks {
		embedding, err := r.embedder.Embed(ctx, chunkText, r.Model)
		if err != nil {
			return nil, fmt.Errorf("embedding chunk %d: %w", i+1, err)
		}

		fmt.Fprintf(&buf, "--- chunk %d ---\n", i+1)
		fmt.Fprintf(&buf, "TEXT:\n%s\n\n", chunkText)

		vecStrs := make([]string, len(embedding))
		for j, v := range embedding {
			vecStrs[j] = fmt.Sprintf("%.4f", v)
		}
		fmt.Fprintf(&buf, "VECTOR:\n[%s]\n\n", strings.Join(vecStrs, ", "))
	}

	return []byte(buf.String()), nil
}

// Extension returns the file extension for embeddings output.
func (r *EmbeddingsRenderer) Extension() string {
	return ".embeddings.txt"
}

// OllamaEmbedder calls an Ollama-compatible embeddings API.
type OllamaEmbedder struct {
	URL    string
	client *http.Client
}

// NewOllamaEmbedder creates an OllamaEmbedder. An empty url selects
// DefaultOllamaURL.
func NewOllamaEmbedder(url string) *OllamaEmbedder {
	if url == "" {
		url = DefaultOllamaURL
	}
	return &OllamaEmbedder{
		URL:    url,
		client: &http.Client{Timeout: embeddingTimeout},
	}
}

// ollamaRequest is the request body for the Ollama embeddings API.
type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// ollamaResponse is the response body from the Ollama embeddings API.
type ollamaResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Embed returns the embedding vector for text.
func (e *OllamaEmbedder) Embed(ctx context.Context, text, model string) ([]float64, error) {
	bodyBytes, err := json.Marshal(ollamaRequest{Model: model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.URL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling Ollama API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Ollama API returned %d: %s", resp.StatusCode, string(body))
	}

	var ollamaResp ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return nil, fmt.Errorf("decoding Ollama response: %w", err)
	}
	if len(ollamaResp.Embedding) == 0 {
		return nil, fmt.Errorf("Ollama API returned an empty embedding")
	}
	return ollamaResp.Embedding, nil
}
