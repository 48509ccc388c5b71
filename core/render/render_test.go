package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gaurav-prasanna/lessonpipe/core"
	"github.com/gaurav-prasanna/lessonpipe/core/normalize"
	"github.com/gaurav-prasanna/lessonpipe/core/view"
	"golang.org/x/net/html"
)

const postClass = `{"quiz":[{"question":"Q","options":["A","B"],"answer":"B"}],"summary":"Wrap up"}`

func snapshot(t *testing.T, raw bool) *core.Snapshot {
	t.Helper()
	c := normalize.New(nil).Normalize(postClass)
	r := view.New(nil)

	root := r.Render(c, core.PostClass)
	if raw {
		root = r.Raw(c)
	}
	if root == nil {
		t.Fatal("expected a visual tree")
	}
	return &core.Snapshot{
		Meta: core.SectionMeta{Key: core.PostClass, Label: core.PostClass.Label(), Topic: "Sorting", Raw: raw},
		Root: root,
	}
}

func TestMarkdownRenderer_Rendered(t *testing.T) {
	out, err := NewMarkdownRenderer().Render(context.Background(), snapshot(t, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	md := string(out)

	for _, want := range []string{"# Post-Class Content", "Quiz", "**B** ✓", "Wrap up"} {
		if !strings.Contains(md, want) {
			t.Errorf("expected markdown to contain %q, got:\n%s", want, md)
		}
	}
	if strings.Contains(md, "**A**") {
		t.Error("incorrect option must not be marked")
	}
}

func TestMarkdownRenderer_RawIsVerbatim(t *testing.T) {
	out, err := NewMarkdownRenderer().Render(context.Background(), snapshot(t, true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "# Post-Class Content\n\n## Quiz\n\n## Question\n\nQ\n\n## Options\n\n- A\n- B\n"
	if !strings.HasPrefix(string(out), want) {
		t.Errorf("expected prefix %q, got:\n%s", want, out)
	}
}

func TestMarkdownRenderer_NoContent(t *testing.T) {
	if _, err := NewMarkdownRenderer().Render(context.Background(), &core.Snapshot{}); !errors.Is(err, errNoContent) {
		t.Errorf("expected errNoContent, got %v", err)
	}
}

func TestJSONRenderer(t *testing.T) {
	out, err := NewJSONRenderer().Render(context.Background(), snapshot(t, true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc core.SectionJSON
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.Metadata.Key != core.PostClass || doc.Metadata.Topic != "Sorting" {
		t.Errorf("unexpected metadata %+v", doc.Metadata)
	}
	if len(doc.Headings) == 0 || doc.Headings[0] != (core.Heading{Level: 1, Text: "Post-Class Content"}) {
		t.Errorf("unexpected headings %+v", doc.Headings)
	}
	if len(doc.Sections) != len(doc.Headings) {
		t.Errorf("expected one section per heading, got %d and %d", len(doc.Sections), len(doc.Headings))
	}
	if strings.Contains(doc.Text, "#") {
		t.Errorf("expected heading markers stripped from text, got %q", doc.Text)
	}
}

type fakeEmbedder struct {
	calls int
	err   error
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string, _ string) ([]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []float64{0.5, 1}, nil
}

func TestEmbeddingsRenderer(t *testing.T) {
	emb := &fakeEmbedder{}
	out, err := NewEmbeddingsRenderer("nomic-embed-text", 5, emb).Render(context.Background(), snapshot(t, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := string(out)
	for _, want := range []string{"# section: post_class_content", "# model: nomic-embed-text", "--- chunk 1 ---", "VECTOR:\n[0.5000, 1.0000]"} {
		if !strings.Contains(s, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
	if emb.calls < 2 {
		t.Errorf("expected several chunks, got %d", emb.calls)
	}

	_, err = NewEmbeddingsRenderer("m", 5, &fakeEmbedder{err: errors.New("down")}).Render(context.Background(), snapshot(t, false))
	if err == nil || !strings.Contains(err.Error(), "embedding chunk 1") {
		t.Errorf("expected chunk error, got %v", err)
	}
}

func TestOllamaEmbedder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Model != "m" || req.Prompt != "hello" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"embedding":[0.1,0.2,0.3]}`))
	}))
	defer srv.Close()

	vec, err := NewOllamaEmbedder(srv.URL).Embed(context.Background(), "hello", "m")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 3 {
		t.Errorf("expected 3 dimensions, got %d", len(vec))
	}

	if _, err := NewOllamaEmbedder(srv.URL).Embed(context.Background(), "other", "m"); err == nil {
		t.Error("expected error for non-200 response")
	}
}

func tallTree(blocks int) *html.Node {
	root := &html.Node{Type: html.ElementNode, Data: "div"}
	for i := 0; i < blocks; i++ {
		root.AppendChild(&html.Node{
			Type: html.ElementNode,
			Data: "div",
			Attr: []html.Attribute{{Key: "class", Val: "h-64 bg-[#EFF6FF]"}},
		})
	}
	return root
}

func pageCount(pdf []byte) int {
	return bytes.Count(pdf, []byte("/Type /Page")) - bytes.Count(pdf, []byte("/Type /Pages"))
}

func TestPDFRenderer_Paginates(t *testing.T) {
	r := NewPDFRenderer()
	if r.Extension() != ".pdf" {
		t.Errorf("unexpected extension %q", r.Extension())
	}

	// 10 blocks of 256 CSS px span three 960px pages.
	out, err := r.Render(context.Background(), &core.Snapshot{
		Meta: core.SectionMeta{Key: core.InClass, Label: core.InClass.Label()},
		Root: tallTree(10),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("expected PDF header")
	}
	if got := pageCount(out); got != 3 {
		t.Errorf("expected 3 pages, got %d", got)
	}
}

func TestPDFRenderer_SectionLayout(t *testing.T) {
	out, err := NewPDFRenderer().Render(context.Background(), snapshot(t, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := pageCount(out); got != 1 {
		t.Errorf("expected 1 page, got %d", got)
	}
}

func TestPDFRenderer_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewPDFRenderer().Render(ctx, &core.Snapshot{Root: tallTree(1)}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
