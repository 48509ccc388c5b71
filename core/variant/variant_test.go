package variant

import (
	"errors"
	"testing"

	"github.com/gaurav-prasanna/lessonpipe/core"
	"github.com/gaurav-prasanna/lessonpipe/core/normalize"
)

func canonical(t *testing.T, text string) core.Canonical {
	t.Helper()
	return normalize.New(nil).Normalize(text)
}

func TestCoerce_PreClassAliases(t *testing.T) {
	c := canonical(t, `{
		"overview": "Intro",
		"pre_class_reading_materials": ["https://go.dev - Go site"],
		"pre_class_activities": [{"activity_title": "Read", "description": "d", "instructions": "i"}]
	}`)

	v, err := Coerce(c, core.PreClass)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pre, ok := v.(PreClass)
	if !ok {
		t.Fatalf("expected PreClass, got %T", v)
	}
	if pre.Overview != "Intro" {
		t.Errorf("expected overview Intro, got %q", pre.Overview)
	}
	if len(pre.Materials()) != 1 {
		t.Errorf("expected 1 reading material, got %d", len(pre.Materials()))
	}
	acts := pre.AllActivities()
	if len(acts) != 1 || acts[0].Heading() != "Read" {
		t.Errorf("expected activity titled Read, got %#v", acts)
	}
}

func TestCoerce_SpecFieldNames(t *testing.T) {
	c := canonical(t, `{"reading_materials":["a"],"activities":[{"title":"T"}]}`)

	v, err := Coerce(c, core.PreClass)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pre := v.(PreClass)
	if len(pre.Materials()) != 1 || pre.AllActivities()[0].Heading() != "T" {
		t.Errorf("unexpected coercion result %#v", pre)
	}
}

func TestCoerce_TolerantText(t *testing.T) {
	c := canonical(t, `{"class_activities":[{"activity_title":"Drill","duration":15}],"summary":null}`)

	v, err := Coerce(c, core.InClass)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in := v.(InClass)
	if in.ClassActivities[0].Duration != "15" {
		t.Errorf("expected numeric duration coerced to \"15\", got %q", in.ClassActivities[0].Duration)
	}
	if in.Summary != "" {
		t.Errorf("expected empty summary for null, got %q", in.Summary)
	}
}

func TestCoerce_FailsClosed(t *testing.T) {
	testCases := []struct {
		name  string
		value core.Canonical
		key   core.ContentKey
	}{
		{"opaque text", core.OpaqueText("just words"), core.PreClass},
		{"array", core.Structured([]any{"a"}), core.InClass},
		{"wrong field shape", canonical(t, `{"quiz":"not a list"}`), core.PostClass},
		{"unknown key", canonical(t, `{"summary":"s"}`), core.ContentKey("bonus_content")},
	}

	for _, tc := range testCases {
		if v, err := Coerce(tc.value, tc.key); err == nil {
			t.Errorf("%s: expected error, got %#v", tc.name, v)
		}
	}
}

func TestCoerce_ErrorKinds(t *testing.T) {
	_, err := Coerce(core.Structured([]any{}), core.PreClass)
	if !errors.Is(err, ErrNotObject) {
		t.Errorf("expected ErrNotObject, got %v", err)
	}
	_, err = Coerce(core.Structured(core.Object{}), core.ContentKey("x"))
	if !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("expected ErrUnknownVariant, got %v", err)
	}
}

func TestCoerce_OpaqueFencedTextIsRetried(t *testing.T) {
	c := core.OpaqueText("```json\n{\"summary\":\"s\"}\n```")

	v, err := Coerce(c, core.PostClass)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(PostClass).Summary != "s" {
		t.Errorf("expected summary s, got %#v", v)
	}
}

func TestQuestion_IsCorrect(t *testing.T) {
	q := Question{Question: "Q", Options: []Choice{Quoted("A"), Quoted("B")}, Answer: Quoted("B")}
	if q.IsCorrect(Quoted("A")) {
		t.Error("A should not be correct")
	}
	if !q.IsCorrect(Quoted("B")) {
		t.Error("B should be correct")
	}
	if q.IsCorrect(Quoted("b")) {
		t.Error("match must be exact")
	}
}

func TestQuestion_AnswerKindMustMatch(t *testing.T) {
	tests := []struct {
		input   string
		correct []bool
	}{
		{`{"quiz":[{"question":"Q","options":["2","3"],"answer":2}]}`, []bool{false, false}},
		{`{"quiz":[{"question":"Q","options":[2,"3"],"answer":2}]}`, []bool{true, false}},
		{`{"quiz":[{"question":"Q","options":["2","3"],"answer":"3"}]}`, []bool{false, true}},
		{`{"quiz":[{"question":"Q","options":[true,"true"],"answer":"true"}]}`, []bool{false, true}},
		{`{"quiz":[{"question":"Q","options":[null,""]}]}`, []bool{false, false}},
	}

	for _, tt := range tests {
		v, err := Coerce(canonical(t, tt.input), core.PostClass)
		if err != nil {
			t.Fatalf("input %q: unexpected error: %v", tt.input, err)
		}
		q := v.(PostClass).Quiz[0]
		for i, opt := range q.Options {
			if got := q.IsCorrect(opt); got != tt.correct[i] {
				t.Errorf("input %q: option %q expected correct=%v, got %v", tt.input, opt, tt.correct[i], got)
			}
		}
	}
}
