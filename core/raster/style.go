// Package raster — utility-class styles.
// Only literal values are resolved: arbitrary-value colors such as
// "bg-[#EFF6FF]", plain white/black, spacing and type scale tokens.
// Theme color names ("bg-blue-50") are not known here and paint nothing;
// callers translate them to literal tokens before capture.
package raster

import (
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// spacingUnit is the CSS pixel size of one spacing step ("p-1").
const spacingUnit = 4

type edges struct {
	top, right, bottom, left float64
}

func (e edges) horizontal() float64 { return e.left + e.right }
func (e edges) vertical() float64   { return e.top + e.bottom }

// textSize is a font size with its line height, in CSS pixels.
type textSize struct {
	size, line float64
}

var textSizes = map[string]textSize{
	"text-xs":   {12, 16},
	"text-sm":   {14, 20},
	"text-base": {16, 24},
	"text-lg":   {18, 28},
	"text-xl":   {20, 28},
	"text-2xl":  {24, 32},
	"text-3xl":  {30, 36},
}

var defaultBorderColor = color.NRGBA{0xE5, 0xE7, 0xEB, 0xFF}

// style holds resolved values in CSS pixels. Inherited fields are copied
// from the parent before the element's own tokens apply.
type style struct {
	// inherited
	fg      color.Color
	size    textSize
	bold    bool
	italic  bool
	mono    bool
	pre     bool
	centerX bool

	// own
	pad         edges
	border      edges
	borderColor color.Color
	bg          color.Color
	radius      float64
	marginTop   float64
	marginBot   float64
	gap         float64
	spaceY      float64
	width       float64
	height      float64
	flex        bool
	wrap        bool
	itemsCenter bool
	justifyEnd  bool
}

func rootStyle() style {
	return style{
		fg:   color.Black,
		size: textSizes["text-base"],
	}
}

// inherit returns a child style carrying only the inherited fields.
func (s style) inherit() style {
	return style{
		fg:      s.fg,
		size:    s.size,
		bold:    s.bold,
		italic:  s.italic,
		mono:    s.mono,
		pre:     s.pre,
		centerX: s.centerX,
	}
}

// resolve applies the element's tag defaults and class tokens.
func resolve(parent style, n *html.Node) style {
	s := parent.inherit()

	switch n.Data {
	case "pre", "code":
		s.mono = true
		s.pre = true
	case "strong", "b":
		s.bold = true
	case "em", "i":
		s.italic = true
	}

	for _, tok := range strings.Fields(classOf(n)) {
		applyToken(&s, tok)
	}
	return s
}

func classOf(n *html.Node) string {
	for _, a := range n.Attr {
		if a.Key == "class" {
			return a.Val
		}
	}
	return ""
}

func applyToken(s *style, tok string) {
	// Variant-prefixed tokens (hover:, md:, last:) only apply in
	// interactive or responsive contexts.
	if strings.Contains(tok, ":") && !strings.Contains(tok, "[") {
		return
	}

	if ts, ok := textSizes[tok]; ok {
		s.size = ts
		return
	}

	switch tok {
	case "font-bold", "font-semibold", "font-medium":
		s.bold = true
		return
	case "font-normal":
		s.bold = false
		return
	case "italic":
		s.italic = true
		return
	case "font-mono":
		s.mono = true
		return
	case "whitespace-pre-line", "whitespace-pre-wrap", "whitespace-pre":
		s.pre = true
		return
	case "text-center":
		s.centerX = true
		return
	case "flex":
		s.flex = true
		return
	case "flex-wrap":
		s.wrap = true
		return
	case "items-center":
		s.itemsCenter = true
		return
	case "justify-center":
		s.centerX = true
		return
	case "justify-between":
		s.justifyEnd = true
		return
	case "rounded":
		s.radius = 4
		return
	case "rounded-md":
		s.radius = 6
		return
	case "rounded-lg":
		s.radius = 8
		return
	case "rounded-full":
		s.radius = 9999
		return
	case "border":
		s.border = edges{1, 1, 1, 1}
		return
	case "border-0":
		s.border = edges{}
		return
	case "bg-white":
		s.bg = color.White
		return
	case "bg-black":
		s.bg = color.Black
		return
	case "text-white":
		s.fg = color.White
		return
	case "text-black":
		s.fg = color.Black
		return
	}

	if c, ok := literalColor(tok, "bg-"); ok {
		s.bg = c
		return
	}
	if c, ok := literalColor(tok, "text-"); ok {
		s.fg = c
		return
	}
	if c, ok := literalColor(tok, "border-"); ok {
		s.borderColor = c
		return
	}

	if applyBorderSide(s, tok) {
		return
	}
	applySpacing(s, tok)
}

// literalColor parses "{prefix}[#RRGGBB]".
func literalColor(tok, prefix string) (color.Color, bool) {
	if !strings.HasPrefix(tok, prefix+"[#") || !strings.HasSuffix(tok, "]") {
		return nil, false
	}
	return parseHex(tok[len(prefix)+1 : len(tok)-1])
}

func parseHex(s string) (color.Color, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return nil, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return nil, false
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, true
}

func applyBorderSide(s *style, tok string) bool {
	if !strings.HasPrefix(tok, "border-") {
		return false
	}
	rest := strings.TrimPrefix(tok, "border-")
	side, width, hasWidth := strings.Cut(rest, "-")
	w := 1.0
	if hasWidth {
		n, err := strconv.ParseFloat(width, 64)
		if err != nil {
			return false
		}
		w = n
	}
	switch side {
	case "t":
		s.border.top = w
	case "r":
		s.border.right = w
	case "b":
		s.border.bottom = w
	case "l":
		s.border.left = w
	case "x":
		s.border.left, s.border.right = w, w
	case "y":
		s.border.top, s.border.bottom = w, w
	default:
		if n, err := strconv.ParseFloat(rest, 64); err == nil {
			s.border = edges{n, n, n, n}
			return true
		}
		return false
	}
	return true
}

func applySpacing(s *style, tok string) {
	name, value, ok := cutLast(tok, "-")
	if !ok {
		return
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return
	}
	px := n * spacingUnit

	switch name {
	case "p":
		s.pad = edges{px, px, px, px}
	case "px":
		s.pad.left, s.pad.right = px, px
	case "py":
		s.pad.top, s.pad.bottom = px, px
	case "pt":
		s.pad.top = px
	case "pr":
		s.pad.right = px
	case "pb":
		s.pad.bottom = px
	case "pl":
		s.pad.left = px
	case "mt":
		s.marginTop = px
	case "mb":
		s.marginBot = px
	case "my":
		s.marginTop, s.marginBot = px, px
	case "gap":
		s.gap = px
	case "space-y":
		s.spaceY = px
	case "w":
		s.width = px
	case "h":
		s.height = px
	}
}

func cutLast(s, sep string) (before, after string, found bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}
