// Package normalize implements the Normalizer interface.
// It converts a raw payload fragment (plain text, fenced JSON text, or an
// already-structured value) into the canonical form consumed by the
// formatter and the variant renderer.
package normalize

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/gaurav-prasanna/lessonpipe/core"
	"github.com/gaurav-prasanna/lessonpipe/logger"
)

// fenceRegex matches a whole fragment wrapped in a ```json code block.
// The opening and closing markers must each sit on their own line.
var fenceRegex = regexp.MustCompile("(?s)\\A```json[ \\t]*\\r?\\n(.*?)\\r?\\n[ \\t]*```\\z")

// ContentNormalizer parses fragments into canonical values.
type ContentNormalizer struct {
	log *logger.Logger
}

// New creates a ContentNormalizer. A nil logger discards diagnostics.
func New(log *logger.Logger) *ContentNormalizer {
	if log == nil {
		log = logger.Nop()
	}
	return &ContentNormalizer{log: log.With("component", "normalize")}
}

// Normalize converts fragment into a canonical value. It never fails:
// text that does not parse is returned unchanged as opaque text.
func (n *ContentNormalizer) Normalize(fragment any) core.Canonical {
	switch v := fragment.(type) {
	case core.Canonical:
		return v
	case *core.Canonical:
		if v == nil {
			return core.Structured(nil)
		}
		return *v
	case string:
		parsed, err := ParseText(v)
		if err != nil {
			n.log.Warn("fragment is not JSON, keeping text", "error", err, "length", len(v))
			return core.OpaqueText(v)
		}
		return core.Structured(parsed)
	case core.Object, []any:
		return core.Structured(v)
	case map[string]any:
		return core.Structured(fromMap(v))
	case nil:
		return core.Structured(nil)
	}
	return core.OpaqueText(fmt.Sprint(fragment))
}

// StripFence removes a surrounding ```json fence and surrounding whitespace.
// Text without both fence markers is only trimmed.
func StripFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if m := fenceRegex.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	return trimmed
}

// ParseText strips a JSON fence from s and parses the remainder.
func ParseText(s string) (any, error) {
	clean := StripFence(s)
	v, err := core.DecodeJSON([]byte(clean))
	if err != nil {
		return nil, fmt.Errorf("parsing fragment: %w", err)
	}
	return v, nil
}

// fromMap converts a plain Go map into an Object. Go maps carry no key
// order, so keys are sorted to keep the result deterministic.
func fromMap(m map[string]any) core.Object {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	obj := make(core.Object, 0, len(m))
	for _, k := range keys {
		v := m[k]
		switch t := v.(type) {
		case map[string]any:
			v = fromMap(t)
		case []any:
			v = fromSlice(t)
		}
		obj = append(obj, core.Field{Key: k, Value: v})
	}
	return obj
}

func fromSlice(s []any) []any {
	out := make([]any, len(s))
	for i, v := range s {
		switch t := v.(type) {
		case map[string]any:
			out[i] = fromMap(t)
		case []any:
			out[i] = fromSlice(t)
		default:
			out[i] = v
		}
	}
	return out
}
