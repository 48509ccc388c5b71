package generate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gaurav-prasanna/lessonpipe/core"
)

func TestClient_Generate(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"pre_class_content":"{\"overview\":\"hi\"}","in_class_content":{"summary":"s","b":1,"a":2}}`))
	}))
	defer srv.Close()

	p, err := NewClient(srv.URL).Generate(context.Background(), "  Graphs ", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Topic != "Graphs" || got.Difficulty != core.Medium {
		t.Errorf("unexpected request %+v", got)
	}
	if !p.Present(core.PreClass) || !p.Present(core.InClass) || p.Present(core.PostClass) {
		t.Errorf("unexpected payload keys %v", p)
	}
	obj, ok := p[core.InClass].(core.Object)
	if !ok {
		t.Fatalf("expected ordered object, got %T", p[core.InClass])
	}
	if keys := strings.Join(obj.Keys(), ","); keys != "summary,b,a" {
		t.Errorf("expected key order preserved, got %q", keys)
	}
}

func TestClient_EmptyTopic(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	for _, topic := range []string{"", "   \t"} {
		if _, err := NewClient(srv.URL).Generate(context.Background(), topic, core.Medium); !errors.Is(err, ErrEmptyTopic) {
			t.Errorf("input %q: expected ErrEmptyTopic, got %v", topic, err)
		}
	}
	if called {
		t.Error("no request should be sent for a blank topic")
	}
}

func TestClient_ErrorMessage(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"detail first", 500, `{"detail":"Error generating content: quota","message":"m"}`, "Error generating content: quota"},
		{"message second", 400, `{"message":"bad topic"}`, "bad topic"},
		{"structured detail", 422, `{"detail":[{"msg":"field required"}]}`, `[{"msg":"field required"}]`},
		{"transport text", 502, `<html>bad gateway</html>`, "request failed with status code 502"},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(tt.body))
		}))

		_, err := NewClient(srv.URL).Generate(context.Background(), "topic", core.Beginner)
		srv.Close()

		var reqErr *RequestError
		if !errors.As(err, &reqErr) {
			t.Fatalf("%s: expected *RequestError, got %v", tt.name, err)
		}
		if reqErr.Status != tt.status {
			t.Errorf("%s: expected status %d, got %d", tt.name, tt.status, reqErr.Status)
		}
		if err.Error() != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, err.Error())
		}
	}
}

func TestRequestError_Fallback(t *testing.T) {
	if got := (&RequestError{}).Error(); got != "Error fetching content from server" {
		t.Errorf("unexpected fallback %q", got)
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).Generate(context.Background(), "topic", core.Medium)
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.Err == nil {
		t.Fatalf("expected transport error, got %v", err)
	}
	if err.Error() == "Error fetching content from server" {
		t.Error("expected the transport error text, got the fallback")
	}
}

type fakeModel struct {
	mu      sync.Mutex
	prompts []string
	fail    string
}

func (m *fakeModel) GenerateText(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.fail != "" && strings.Contains(prompt, m.fail) {
		return "", errors.New("quota exceeded")
	}
	switch {
	case strings.Contains(prompt, "pre-class content"):
		return "  ```json\n{\"overview\":\"o\"}\n```  ", nil
	case strings.Contains(prompt, "post-class content"):
		return `{"summary":"p"}`, nil
	}
	return "\n{\"summary\":\"in\"}\n", nil
}

func TestLessonGenerator(t *testing.T) {
	m := &fakeModel{}
	p, err := NewLessonGenerator(m, nil).Generate(context.Background(), "Heaps", core.Advanced)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p[core.InClass] != `{"summary":"in"}` {
		t.Errorf("unexpected in-class text %q", p[core.InClass])
	}
	if p[core.PreClass] != "```json\n{\"overview\":\"o\"}\n```" {
		t.Errorf("unexpected pre-class text %q", p[core.PreClass])
	}
	if p[core.PostClass] != `{"summary":"p"}` {
		t.Errorf("unexpected post-class text %q", p[core.PostClass])
	}

	if len(m.prompts) != 3 {
		t.Fatalf("expected 3 prompts, got %d", len(m.prompts))
	}
	if !strings.HasSuffix(m.prompts[0], "\n\nHeaps\n\nadvanced") {
		t.Errorf("in-class prompt must end with topic and difficulty, got %q", m.prompts[0])
	}
	for _, prompt := range m.prompts[1:] {
		if !strings.Contains(prompt, "The difficulty level of the topic is advanced.") {
			t.Error("derived prompts must name the difficulty")
		}
		if !strings.HasSuffix(prompt, `{"summary":"in"}`) {
			t.Error("derived prompts must carry the in-class content")
		}
	}
}

func TestLessonGenerator_Failure(t *testing.T) {
	_, err := NewLessonGenerator(&fakeModel{fail: "post-class"}, nil).Generate(context.Background(), "Heaps", core.Medium)
	if err == nil || !strings.Contains(err.Error(), "post-class content: quota exceeded") {
		t.Errorf("expected post-class failure, got %v", err)
	}

	if _, err := NewLessonGenerator(&fakeModel{}, nil).Generate(context.Background(), " ", core.Medium); !errors.Is(err, ErrEmptyTopic) {
		t.Errorf("expected ErrEmptyTopic, got %v", err)
	}
}
