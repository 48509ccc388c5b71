// Package format renders arbitrary canonical values as heading-structured
// Markdown text. It backs the raw section view and any fallback text form.
package format

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gaurav-prasanna/lessonpipe/core"
)

// maxDepth bounds recursion. Generated payloads are a few levels deep;
// anything below the bound is written as compact JSON.
const maxDepth = 64

// Format converts value into Markdown. It never fails.
func Format(value any) string {
	var b strings.Builder
	switch v := value.(type) {
	case core.Canonical:
		if v.Opaque {
			return v.Text
		}
		return Format(v.Value)
	case core.Object, []any:
		writeValue(&b, v, 0)
		return b.String()
	}
	return core.Stringify(value)
}

// KeyTitle turns a snake_case key into a display title:
// "key_concepts" becomes "Key Concepts".
func KeyTitle(key string) string {
	parts := strings.Split(key, "_")
	for i, p := range parts {
		r, size := utf8.DecodeRuneInString(p)
		if size == 0 {
			continue
		}
		parts[i] = string(unicode.ToUpper(r)) + p[size:]
	}
	return strings.Join(parts, " ")
}

func writeValue(b *strings.Builder, value any, depth int) {
	if depth > maxDepth {
		b.WriteString(core.Stringify(value))
		b.WriteString("\n\n")
		return
	}

	switch v := value.(type) {
	case []any:
		writeSequence(b, v, depth)
	case core.Object:
		writeObject(b, v, depth)
	default:
		b.WriteString(core.Stringify(v))
	}
}

// writeSequence emits "### Item N" blocks for nested values and bullets
// for scalars.
func writeSequence(b *strings.Builder, items []any, depth int) {
	for i, item := range items {
		if core.IsContainer(item) {
			b.WriteString("### Item ")
			b.WriteString(strconv.Itoa(i + 1))
			b.WriteString("\n\n")
			writeValue(b, item, depth+1)
			continue
		}
		writeBullet(b, item)
	}
}

func writeObject(b *strings.Builder, obj core.Object, depth int) {
	for _, f := range obj {
		b.WriteString("## ")
		b.WriteString(KeyTitle(f.Key))
		b.WriteString("\n\n")

		switch v := f.Value.(type) {
		case []any:
			// Nested values inside a keyed list are concatenated without
			// per-item headings.
			for _, item := range v {
				if core.IsContainer(item) {
					writeValue(b, item, depth+1)
				} else {
					writeBullet(b, item)
				}
			}
		case core.Object:
			writeValue(b, v, depth+1)
		default:
			b.WriteString(core.Stringify(v))
			b.WriteString("\n\n")
		}
	}
}

func writeBullet(b *strings.Builder, item any) {
	b.WriteString("- ")
	b.WriteString(core.Stringify(item))
	b.WriteByte('\n')
}
