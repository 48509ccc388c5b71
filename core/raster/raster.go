// Package raster captures a visual tree as a bitmap, the way a browser
// screenshot library would. Elements are laid out as boxes at CSS pixel
// sizes multiplied by the capture scale, then painted with gg one page
// band at a time so a long section never needs a single huge canvas.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/net/html"
)

// ErrEmptyTree is returned when there is nothing to capture.
var ErrEmptyTree = errors.New("nothing to capture")

// Options controls capture geometry.
type Options struct {
	Width float64 // content width in CSS pixels
	Scale float64 // device pixels per CSS pixel
}

// DefaultOptions captures a 7.5in wide column (96 CSS px per inch) at 2x.
var DefaultOptions = Options{Width: 720, Scale: 2}

var skippedTags = map[string]bool{
	"script": true, "style": true, "head": true, "template": true,
}

type box struct {
	tag      string
	st       style
	children []*box
	text     string // raw text for leaf boxes

	lines []string
	face  font.Face
	lineH float64

	// border box in device pixels
	x, y, w, h float64
}

// Capture is a laid-out tree ready to be painted.
type Capture struct {
	root    *box
	scale   float64
	width   int
	height  int
	faces   *faceCache
	measure *gg.Context
}

// Layout builds and measures the box tree for root.
func Layout(root *html.Node, opts Options) (*Capture, error) {
	if root == nil {
		return nil, ErrEmptyTree
	}
	if opts.Width <= 0 || opts.Scale <= 0 {
		return nil, fmt.Errorf("invalid capture options: width=%v scale=%v", opts.Width, opts.Scale)
	}

	faces, err := newFaceCache()
	if err != nil {
		return nil, fmt.Errorf("loading fonts: %w", err)
	}

	c := &Capture{
		scale:   opts.Scale,
		faces:   faces,
		measure: gg.NewContext(1, 1),
	}

	b := c.build(root, rootStyle())
	if b == nil {
		b = &box{tag: "div", st: rootStyle()}
	}
	width := opts.Width * opts.Scale
	c.layout(b, 0, 0, width)

	c.root = b
	c.width = int(math.Ceil(width))
	c.height = int(math.Ceil(b.h + c.px(b.st.marginBot)))
	return c, nil
}

// Size returns the capture size in device pixels.
func (c *Capture) Size() (width, height int) {
	return c.width, c.height
}

// Scale returns the device pixels per CSS pixel.
func (c *Capture) Scale() float64 {
	return c.scale
}

// Band paints the rows [top, top+height) of the capture on white.
func (c *Capture) Band(top, height int) image.Image {
	dc := gg.NewContext(c.width, height)
	dc.SetColor(color.White)
	dc.Clear()
	dc.Translate(0, -float64(top))
	c.paint(dc, c.root, float64(top), float64(top+height))
	return dc.Image()
}

func (c *Capture) px(v float64) float64 {
	return v * c.scale
}

func (c *Capture) edges(e edges) edges {
	return edges{c.px(e.top), c.px(e.right), c.px(e.bottom), c.px(e.left)}
}

// --- tree building ---

func (c *Capture) build(n *html.Node, parent style) *box {
	switch n.Type {
	case html.TextNode:
		if !parent.pre && strings.TrimSpace(n.Data) == "" {
			return nil
		}
		return &box{st: parent.inherit(), text: n.Data}
	case html.DocumentNode:
		b := &box{tag: "document", st: parent}
		b.children = c.buildChildren(n, parent)
		return b
	case html.ElementNode:
		if skippedTags[n.Data] {
			return nil
		}
	default:
		return nil
	}

	st := resolve(parent, n)
	b := &box{tag: n.Data, st: st}
	children := c.buildChildren(n, st)

	// Elements holding only text become a single leaf.
	allText := len(children) > 0
	for _, ch := range children {
		if ch.tag != "" {
			allText = false
			break
		}
	}
	if allText {
		var sb strings.Builder
		for _, ch := range children {
			sb.WriteString(ch.text)
		}
		b.text = sb.String()
		return b
	}
	b.children = children
	return b
}

func (c *Capture) buildChildren(n *html.Node, st style) []*box {
	var out []*box
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if b := c.build(ch, st); b != nil {
			out = append(out, b)
		}
	}
	return out
}

// --- layout ---

func (c *Capture) layout(b *box, x, y, avail float64) {
	w := avail
	if b.st.width > 0 {
		w = c.px(b.st.width)
	}
	b.x, b.y, b.w = x, y, w

	pad, bd := c.edges(b.st.pad), c.edges(b.st.border)
	cx := x + bd.left + pad.left
	cy := y + bd.top + pad.top
	cw := math.Max(0, w-pad.horizontal()-bd.horizontal())

	var ch float64
	switch {
	case b.text != "":
		ch = c.layoutText(b, cw)
	case b.st.flex && b.st.wrap:
		ch = c.layoutWrap(b, cx, cy, cw)
	case b.st.flex:
		ch = c.layoutRow(b, cx, cy, cw)
	default:
		ch = c.layoutColumn(b, cx, cy, cw)
	}

	b.h = ch + pad.vertical() + bd.vertical()
	if b.st.height > 0 {
		b.h = c.px(b.st.height)
	}
}

func (c *Capture) displayText(b *box) string {
	if b.st.pre {
		return strings.TrimRight(b.text, "\n")
	}
	return strings.Join(strings.Fields(b.text), " ")
}

func (c *Capture) faceFor(st style) font.Face {
	return c.faces.face(st, c.px(st.size.size))
}

func (c *Capture) layoutText(b *box, width float64) float64 {
	b.face = c.faceFor(b.st)
	b.lineH = c.px(b.st.size.line)
	b.lines = c.wrap(b.face, c.displayText(b), width)
	return float64(len(b.lines)) * b.lineH
}

// wrap breaks text at spaces to fit width, keeping explicit line breaks
// and blank lines.
func (c *Capture) wrap(face font.Face, s string, width float64) []string {
	c.measure.SetFontFace(face)
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			out = append(out, "")
			continue
		}
		if width <= 0 {
			out = append(out, line)
			continue
		}
		for _, l := range c.measure.WordWrap(line, width) {
			out = append(out, strings.TrimRight(l, " "))
		}
	}
	return out
}

func (c *Capture) layoutColumn(b *box, cx, cy, cw float64) float64 {
	gap := c.px(b.st.spaceY + b.st.gap)
	cur := cy
	for i, child := range b.children {
		if i > 0 {
			cur += gap
		}
		cur += c.px(child.st.marginTop)
		c.layout(child, cx, cur, cw)
		cur += child.h + c.px(child.st.marginBot)
	}
	return cur - cy
}

func shrinks(b *box) bool {
	return b.tag == "span" || b.tag == "button"
}

func (c *Capture) layoutRow(b *box, cx, cy, cw float64) float64 {
	n := len(b.children)
	if n == 0 {
		return 0
	}
	gap := c.px(b.st.gap)

	widths := make([]float64, n)
	flexible := 0
	used := gap * float64(n-1)
	for i, child := range b.children {
		switch {
		case child.st.width > 0:
			widths[i] = c.px(child.st.width)
		case shrinks(child):
			widths[i] = math.Min(c.intrinsic(child), cw)
		default:
			widths[i] = -1
			flexible++
			continue
		}
		used += widths[i]
	}

	remaining := math.Max(0, cw-used)
	var extra float64
	if flexible > 0 {
		share := remaining / float64(flexible)
		for i := range widths {
			if widths[i] < 0 {
				widths[i] = share
			}
		}
	} else if b.st.justifyEnd && n > 1 {
		extra = remaining / float64(n-1)
	}

	cur := cx
	var rowH float64
	for i, child := range b.children {
		mt := c.px(child.st.marginTop)
		c.layout(child, cur, cy+mt, widths[i])
		rowH = math.Max(rowH, mt+child.h+c.px(child.st.marginBot))
		cur += widths[i] + gap + extra
	}

	if b.st.itemsCenter {
		for _, child := range b.children {
			outer := child.h + c.px(child.st.marginTop) + c.px(child.st.marginBot)
			shift(child, (rowH-outer)/2)
		}
	}
	return rowH
}

func (c *Capture) layoutWrap(b *box, cx, cy, cw float64) float64 {
	gap := c.px(b.st.gap)
	curX, curY := cx, cy
	var rowH float64
	for _, child := range b.children {
		w := math.Min(c.intrinsic(child), cw)
		if curX > cx && curX+w > cx+cw {
			curY += rowH + gap
			curX = cx
			rowH = 0
		}
		c.layout(child, curX, curY, w)
		rowH = math.Max(rowH, child.h)
		curX += w + gap
	}
	return curY + rowH - cy
}

// intrinsic is the width a box needs without wrapping.
func (c *Capture) intrinsic(b *box) float64 {
	if b.st.width > 0 {
		return c.px(b.st.width)
	}
	frame := c.edges(b.st.pad).horizontal() + c.edges(b.st.border).horizontal()

	if b.text != "" {
		c.measure.SetFontFace(c.faceFor(b.st))
		var widest float64
		for _, line := range strings.Split(c.displayText(b), "\n") {
			w, _ := c.measure.MeasureString(line)
			widest = math.Max(widest, w)
		}
		return math.Ceil(widest) + frame + 1
	}

	var sum float64
	for i, child := range b.children {
		if i > 0 {
			sum += c.px(b.st.gap)
		}
		sum += c.intrinsic(child)
	}
	return sum + frame
}

func shift(b *box, dy float64) {
	b.y += dy
	for _, ch := range b.children {
		shift(ch, dy)
	}
}

// --- painting ---

func (c *Capture) paint(dc *gg.Context, b *box, top, bottom float64) {
	if b.y > bottom || b.y+b.h < top {
		return
	}

	radius := math.Min(c.px(b.st.radius), math.Min(b.w, b.h)/2)
	if b.st.bg != nil {
		dc.SetColor(b.st.bg)
		if radius > 0 {
			dc.DrawRoundedRectangle(b.x, b.y, b.w, b.h, radius)
		} else {
			dc.DrawRectangle(b.x, b.y, b.w, b.h)
		}
		dc.Fill()
	}
	c.paintBorder(dc, b, radius)

	if len(b.lines) > 0 {
		c.paintText(dc, b)
	}
	for _, ch := range b.children {
		c.paint(dc, ch, top, bottom)
	}
}

func (c *Capture) paintBorder(dc *gg.Context, b *box, radius float64) {
	bd := c.edges(b.st.border)
	if bd.top == 0 && bd.right == 0 && bd.bottom == 0 && bd.left == 0 {
		return
	}
	bc := b.st.borderColor
	if bc == nil {
		bc = defaultBorderColor
	}
	dc.SetColor(bc)

	if bd.top == bd.right && bd.top == bd.bottom && bd.top == bd.left {
		lw := bd.top
		dc.SetLineWidth(lw)
		if radius > 0 {
			dc.DrawRoundedRectangle(b.x+lw/2, b.y+lw/2, b.w-lw, b.h-lw, radius)
		} else {
			dc.DrawRectangle(b.x+lw/2, b.y+lw/2, b.w-lw, b.h-lw)
		}
		dc.Stroke()
		return
	}

	if bd.top > 0 {
		dc.DrawRectangle(b.x, b.y, b.w, bd.top)
	}
	if bd.bottom > 0 {
		dc.DrawRectangle(b.x, b.y+b.h-bd.bottom, b.w, bd.bottom)
	}
	if bd.left > 0 {
		dc.DrawRectangle(b.x, b.y, bd.left, b.h)
	}
	if bd.right > 0 {
		dc.DrawRectangle(b.x+b.w-bd.right, b.y, bd.right, b.h)
	}
	dc.Fill()
}

func (c *Capture) paintText(dc *gg.Context, b *box) {
	pad, bd := c.edges(b.st.pad), c.edges(b.st.border)
	cx := b.x + bd.left + pad.left
	cw := b.w - pad.horizontal() - bd.horizontal()
	lineTop := b.y + bd.top + pad.top

	// Fixed-height boxes (badges, numbered circles) center their text.
	if b.st.height > 0 {
		inner := b.h - pad.vertical() - bd.vertical()
		lineTop += (inner - float64(len(b.lines))*b.lineH) / 2
	}

	m := b.face.Metrics()
	ascent := float64(m.Ascent) / 64
	descent := float64(m.Descent) / 64

	dc.SetFontFace(b.face)
	fg := b.st.fg
	if fg == nil {
		fg = color.Black
	}
	dc.SetColor(fg)

	for _, line := range b.lines {
		if line != "" {
			tx := cx
			if b.st.centerX {
				w, _ := dc.MeasureString(line)
				tx = cx + (cw-w)/2
			}
			baseline := lineTop + (b.lineH-(ascent+descent))/2 + ascent
			dc.DrawString(line, tx, baseline)
		}
		lineTop += b.lineH
	}
}
