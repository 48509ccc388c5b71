package normalize

import (
	"encoding/json"
	"testing"

	"github.com/gaurav-prasanna/lessonpipe/core"
)

func TestNormalize_FencedJSON(t *testing.T) {
	n := New(nil)

	c := n.Normalize("```json\n{\"a\":1}\n```")
	if c.Opaque {
		t.Fatalf("expected structured value, got opaque text %q", c.Text)
	}
	obj, ok := c.Value.(core.Object)
	if !ok {
		t.Fatalf("expected core.Object, got %T", c.Value)
	}
	v, ok := obj.Get("a")
	if !ok || v != json.Number("1") {
		t.Errorf("expected a=1, got %v (present=%v)", v, ok)
	}
}

func TestNormalize_NotJSON(t *testing.T) {
	n := New(nil)

	testCases := []string{
		"not json",
		"  padded prose  ",
		"```json\n{broken\n```",
		"{\"a\":1} trailing",
	}

	for _, input := range testCases {
		c := n.Normalize(input)
		if !c.Opaque {
			t.Errorf("input %q: expected opaque text, got %T", input, c.Value)
			continue
		}
		if c.Text != input {
			t.Errorf("input %q: expected original text, got %q", input, c.Text)
		}
	}
}

func TestNormalize_PlainJSONAndWhitespace(t *testing.T) {
	n := New(nil)

	c := n.Normalize("\n  [1, \"two\", {\"x\": true}]  \n")
	arr, ok := c.Value.([]any)
	if !ok {
		t.Fatalf("expected []any, got %T (opaque=%v)", c.Value, c.Opaque)
	}
	if len(arr) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(arr))
	}
	if _, ok := arr[2].(core.Object); !ok {
		t.Errorf("expected nested object, got %T", arr[2])
	}
}

func TestNormalize_FenceNeedsBothMarkers(t *testing.T) {
	input := "```json\n{\"a\":1}"
	if got := StripFence(input); got != input {
		t.Errorf("expected unmatched fence to be kept, got %q", got)
	}
	if got := StripFence("```json\r\n{\"a\":1}\r\n```\n"); got != "{\"a\":1}" {
		t.Errorf("expected CRLF fence to be stripped, got %q", got)
	}
}

func TestNormalize_StructuredUnchanged(t *testing.T) {
	n := New(nil)
	obj := core.Object{{Key: "b", Value: "x"}, {Key: "a", Value: []any{"y"}}}

	c := n.Normalize(obj)
	got, ok := c.Value.(core.Object)
	if !ok || len(got) != 2 || got[0].Key != "b" || got[1].Key != "a" {
		t.Errorf("expected object returned unchanged, got %#v", c.Value)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := New(nil)

	inputs := []any{
		"```json\n{\"overview\":\"hi\",\"key_concepts\":[\"a\",\"b\"]}\n```",
		"not json at all",
		core.Object{{Key: "summary", Value: "done"}},
		[]any{"a", json.Number("2")},
	}

	for _, in := range inputs {
		once := n.Normalize(in)
		twice := n.Normalize(once)

		a, _ := json.Marshal(once.Value)
		b, _ := json.Marshal(twice.Value)
		if once.Opaque != twice.Opaque || once.Text != twice.Text || string(a) != string(b) {
			t.Errorf("input %#v: normalize not idempotent: %#v vs %#v", in, once, twice)
		}
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	n := New(nil)
	input := "{\"z\":1,\"a\":{\"m\":[1,2],\"b\":null}}"

	first, _ := json.Marshal(n.Normalize(input).Value)
	for i := 0; i < 10; i++ {
		again, _ := json.Marshal(n.Normalize(input).Value)
		if string(again) != string(first) {
			t.Fatalf("run %d: expected %s, got %s", i, first, again)
		}
	}
	if string(first) != "{\"z\":1,\"a\":{\"m\":[1,2],\"b\":null}}" {
		t.Errorf("expected key order preserved, got %s", first)
	}
}

func TestNormalize_OtherTypesBecomeText(t *testing.T) {
	n := New(nil)

	c := n.Normalize(42)
	if !c.Opaque || c.Text != "42" {
		t.Errorf("expected opaque \"42\", got %#v", c)
	}

	c = n.Normalize(map[string]any{"b": 1, "a": map[string]any{"c": "x"}})
	obj, ok := c.Value.(core.Object)
	if !ok || obj.Keys()[0] != "a" {
		t.Errorf("expected sorted object from Go map, got %#v", c.Value)
	}
}
