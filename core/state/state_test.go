package state

import (
	"sync"
	"testing"

	"github.com/gaurav-prasanna/lessonpipe/core"
	"github.com/gaurav-prasanna/lessonpipe/core/normalize"
	"github.com/gaurav-prasanna/lessonpipe/core/view"
)

func newSession() *Session {
	return NewSession(normalize.New(nil), view.New(nil))
}

func TestViewState_DefaultsAndToggle(t *testing.T) {
	v := NewViewState()

	if v.IsRaw(core.PreClass) {
		t.Error("unseen key should default to rendered view")
	}
	if !v.Toggle(core.PreClass) || !v.IsRaw(core.PreClass) {
		t.Error("first toggle should switch to raw")
	}
	if v.IsRaw(core.InClass) {
		t.Error("toggling one key must not affect another")
	}
	if v.Toggle(core.PreClass) || v.IsRaw(core.PreClass) {
		t.Error("second toggle should switch back to rendered")
	}
}

func TestViewState_ConcurrentToggles(t *testing.T) {
	v := NewViewState()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v.Toggle(core.PostClass)
		}()
	}
	wg.Wait()

	if v.IsRaw(core.PostClass) {
		t.Error("an even number of toggles should leave the section rendered")
	}
}

func TestSession_SnapshotFollowsViewState(t *testing.T) {
	s := newSession()
	s.Begin("Graphs", core.Advanced)
	s.Receive(core.Payload{
		core.PreClass:  `{"overview":"hi"}`,
		core.PostClass: `{"summary":"done"}`,
	})

	surf := s.Snapshot()
	keys := surf.Keys()
	if len(keys) != 2 || keys[0] != core.PreClass || keys[1] != core.PostClass {
		t.Fatalf("expected pre and post sections in order, got %v", keys)
	}
	if surf.IsRaw(core.PreClass) {
		t.Error("expected rendered view before toggle")
	}

	s.Toggle(core.PreClass)
	surf = s.Snapshot()
	if !surf.IsRaw(core.PreClass) {
		t.Error("expected raw view after toggle")
	}
	if surf.IsRaw(core.PostClass) {
		t.Error("post section must stay rendered")
	}
	if surf.Topic != "Graphs" || surf.Difficulty != core.Advanced {
		t.Errorf("unexpected surface metadata %q/%q", surf.Topic, surf.Difficulty)
	}
}

func TestSession_BeginClearsPayloadAndError(t *testing.T) {
	s := newSession()
	s.Begin("A", core.Medium)
	s.Receive(core.Payload{core.InClass: `{"summary":"s"}`})
	s.ReportError("Failed to generate PDF. Please try again.")
	s.Toggle(core.InClass)

	s.Begin("B", core.Beginner)
	if s.Payload() != nil || s.Err() != "" {
		t.Error("expected payload and error cleared")
	}
	if !s.View().IsRaw(core.InClass) {
		t.Error("view state is only changed by explicit toggles")
	}
}

func TestSession_CanonicalDoesNotMutatePayload(t *testing.T) {
	s := newSession()
	raw := "```json\n{\"summary\":\"s\"}\n```"
	s.Receive(core.Payload{core.PostClass: raw})

	if _, ok := s.Canonical(core.PreClass); ok {
		t.Error("absent key should report not present")
	}
	c, ok := s.Canonical(core.PostClass)
	if !ok || c.Opaque {
		t.Fatalf("expected structured canonical value, got %#v", c)
	}
	if s.Payload()[core.PostClass] != raw {
		t.Error("payload fragment must not be modified")
	}
}

func TestSession_Load(t *testing.T) {
	s := newSession()
	s.Load("Tries", core.Beginner, core.Payload{core.InClass: `{"summary":"s"}`}, core.InClass)

	if s.Topic() != "Tries" || s.Difficulty() != core.Beginner {
		t.Errorf("unexpected request %q/%q", s.Topic(), s.Difficulty())
	}
	if !s.View().IsRaw(core.InClass) || s.View().IsRaw(core.PreClass) {
		t.Error("expected only the listed keys in raw view")
	}
	if !s.Snapshot().IsRaw(core.InClass) {
		t.Error("expected raw section on the surface")
	}
}
