package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gaurav-prasanna/lessonpipe/core"
	"github.com/gaurav-prasanna/lessonpipe/core/export"
	"github.com/gaurav-prasanna/lessonpipe/core/generate"
	"github.com/gaurav-prasanna/lessonpipe/core/normalize"
	"github.com/gaurav-prasanna/lessonpipe/core/output"
	"github.com/gaurav-prasanna/lessonpipe/core/render"
	"github.com/gaurav-prasanna/lessonpipe/core/state"
	"github.com/gaurav-prasanna/lessonpipe/core/surface"
	"github.com/gaurav-prasanna/lessonpipe/core/view"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 4 << 20

var contentTypes = map[string]string{
	".pdf":            "application/pdf",
	".md":             "text/markdown; charset=utf-8",
	".json":           "application/json",
	".embeddings.txt": "text/plain; charset=utf-8",
}

type generateRequest struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
}

// sectionRequest carries a payload plus the display state to apply to it.
type sectionRequest struct {
	Topic      string       `json:"topic"`
	Difficulty string       `json:"difficulty"`
	Raw        []string     `json:"raw"`
	Content    core.Payload `json:"content"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if s.generator == nil {
		writeDetail(w, http.StatusServiceUnavailable, "content generation is not configured")
		return
	}

	var req generateRequest
	if !decode(w, r, &req) {
		return
	}
	difficulty, err := core.ParseDifficulty(req.Difficulty)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	payload, err := s.generator.Generate(r.Context(), req.Topic, difficulty)
	if errors.Is(err, generate.ErrEmptyTopic) {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		s.log.Error("generation failed", "topic", req.Topic, "error", err)
		writeDetail(w, http.StatusInternalServerError, fmt.Sprintf("Error generating content: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// session builds a fresh state container for one request.
func (s *Server) session(req sectionRequest) (*state.Session, error) {
	difficulty, err := core.ParseDifficulty(req.Difficulty)
	if err != nil {
		return nil, err
	}
	raw := make([]core.ContentKey, 0, len(req.Raw))
	for _, k := range req.Raw {
		key, err := core.ParseContentKey(k)
		if err != nil {
			return nil, err
		}
		raw = append(raw, key)
	}

	session := state.NewSession(normalize.New(s.log), view.New(s.log))
	session.Load(req.Topic, difficulty, req.Content, raw...)
	return session, nil
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req sectionRequest
	if !decode(w, r, &req) {
		return
	}
	session, err := s.session(req)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := session.Snapshot().Render(w); err != nil {
		s.log.Error("rendering page failed", "error", err)
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	key, err := core.ParseContentKey(chi.URLParam(r, "key"))
	if err != nil {
		writeDetail(w, http.StatusNotFound, err.Error())
		return
	}

	q := r.URL.Query()
	chunkSize, _ := strconv.Atoi(q.Get("chunk_size"))
	renderer, err := render.Select(q.Get("format"), render.Options{
		Model:     q.Get("model"),
		ChunkSize: chunkSize,
		Embedder:  s.embedder,
	})
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	var req sectionRequest
	if !decode(w, r, &req) {
		return
	}
	session, err := s.session(req)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	dir, err := os.MkdirTemp("", "lessonpipe-export-*")
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, export.FailureMessage(renderer.Extension()))
		return
	}
	defer os.RemoveAll(dir)

	writer, err := output.New(dir)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, export.FailureMessage(renderer.Extension()))
		return
	}

	// Nothing toggles during a request, so capture needs no delay.
	exporter := export.New(session, renderer, writer, 0, s.log)
	res := <-exporter.ExportSection(r.Context(), key)
	if res.Err != nil {
		status := http.StatusInternalServerError
		if errors.Is(res.Err, surface.ErrSectionNotFound) {
			status = http.StatusNotFound
		}
		writeDetail(w, status, session.Err())
		return
	}

	data, err := os.ReadFile(res.Path)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, export.FailureMessage(renderer.Extension()))
		return
	}

	w.Header().Set("Content-Type", contentTypes[renderer.Extension()])
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(res.Path)))
	w.Header().Set("X-Export-Job", res.JobID)
	w.Write(data)
}
