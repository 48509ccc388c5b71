// Package state holds the explicit application state: the per-section
// raw/rendered toggle and the session container that owns the current
// topic, difficulty, last payload, and last user-facing error.
package state

import (
	"sync"

	"github.com/gaurav-prasanna/lessonpipe/core"
	"github.com/gaurav-prasanna/lessonpipe/core/surface"
	"github.com/gaurav-prasanna/lessonpipe/core/view"
)

// ViewState maps each content key to its display mode. Unseen keys are
// in rendered view (false).
type ViewState struct {
	mu  sync.RWMutex
	raw map[core.ContentKey]bool
}

// NewViewState creates an empty ViewState.
func NewViewState() *ViewState {
	return &ViewState{raw: make(map[core.ContentKey]bool)}
}

// Toggle flips the mode for key and returns the new value.
func (v *ViewState) Toggle(key core.ContentKey) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.raw[key] = !v.raw[key]
	return v.raw[key]
}

// Set puts key in the given mode.
func (v *ViewState) Set(key core.ContentKey, raw bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.raw[key] = raw
}

// IsRaw reports whether key is shown in raw view.
func (v *ViewState) IsRaw(key core.ContentKey) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.raw[key]
}

// Session is the state container for one display surface.
type Session struct {
	mu         sync.RWMutex
	topic      string
	difficulty core.Difficulty
	payload    core.Payload
	lastErr    string

	view       *ViewState
	normalizer core.Normalizer
	renderer   *view.VariantRenderer
}

// NewSession creates a Session that renders with the given components.
func NewSession(normalizer core.Normalizer, renderer *view.VariantRenderer) *Session {
	return &Session{
		difficulty: core.DefaultDifficulty,
		view:       NewViewState(),
		normalizer: normalizer,
		renderer:   renderer,
	}
}

// Begin starts a generation cycle: it records the request and clears the
// previous payload and error.
func (s *Session) Begin(topic string, difficulty core.Difficulty) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topic = topic
	s.difficulty = difficulty
	s.payload = nil
	s.lastErr = ""
}

// Receive stores the payload of the current generation cycle.
func (s *Session) Receive(p core.Payload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = p
}

// Load begins a cycle, receives p, and shows the listed keys in raw view.
func (s *Session) Load(topic string, difficulty core.Difficulty, p core.Payload, raw ...core.ContentKey) {
	s.Begin(topic, difficulty)
	s.Receive(p)
	for _, key := range raw {
		s.view.Set(key, true)
	}
}

// ReportError records a single user-facing error message.
func (s *Session) ReportError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = msg
}

// Err returns the last user-facing error message, if any.
func (s *Session) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Topic returns the current topic.
func (s *Session) Topic() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.topic
}

// Difficulty returns the current difficulty.
func (s *Session) Difficulty() core.Difficulty {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.difficulty
}

// Payload returns the payload of the current cycle.
func (s *Session) Payload() core.Payload {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.payload
}

// View exposes the per-section view state.
func (s *Session) View() *ViewState {
	return s.view
}

// Toggle flips the view mode of one section.
func (s *Session) Toggle(key core.ContentKey) bool {
	return s.view.Toggle(key)
}

// Canonical normalizes the fragment for key. The payload is never
// mutated; the result is recomputed on each call.
func (s *Session) Canonical(key core.ContentKey) (core.Canonical, bool) {
	p := s.Payload()
	if !p.Present(key) {
		return core.Canonical{}, false
	}
	return s.normalizer.Normalize(p[key]), true
}

// Snapshot builds the display surface from the state as it is now.
func (s *Session) Snapshot() *surface.Surface {
	s.mu.RLock()
	page := surface.Page{
		Topic:      s.topic,
		Difficulty: s.difficulty,
		Error:      s.lastErr,
	}
	payload := s.payload
	s.mu.RUnlock()

	for _, key := range core.ContentKeys {
		if !payload.Present(key) {
			continue
		}
		c := s.normalizer.Normalize(payload[key])
		raw := s.view.IsRaw(key)

		section := surface.SectionView{Key: key, Raw: raw}
		if raw {
			section.Body = s.renderer.Raw(c)
		} else {
			section.Body = s.renderer.Render(c, key)
		}
		page.Sections = append(page.Sections, section)
	}
	return surface.Build(page)
}
