// Package surface builds the display page that holds every rendered
// section. Each section's content subtree carries a stable id derived from
// its content key, so the exporter can:
//  1. Locate the subtree by id (`markdown-{key}`)
//  2. Read the view mode it was captured in (rendered or raw)
package surface

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/lessonpipe/core"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrSectionNotFound is returned when no subtree carries the section id.
var ErrSectionNotFound = errors.New("section not found on display surface")

const tailwindCDN = "https://cdn.tailwindcss.com"

// SectionView is one section as it should appear on the page.
type SectionView struct {
	Key  core.ContentKey
	Raw  bool
	Body *html.Node // detached tree; nil renders an empty content area
}

// Page is everything the surface shows.
type Page struct {
	Topic      string
	Difficulty core.Difficulty
	Error      string
	Sections   []SectionView
}

// Surface is a built display page.
type Surface struct {
	Topic      string
	Difficulty core.Difficulty

	doc *goquery.Document
}

// SectionID returns the element id of the content subtree for key.
func SectionID(key core.ContentKey) string {
	return "markdown-" + string(key)
}

// Build assembles the page document.
func Build(p Page) *Surface {
	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	title := "AI Teaching Content"
	if p.Topic != "" {
		title = p.Topic + " · " + title
	}

	head := el("head", "",
		attrs(el("meta", ""), "charset", "utf-8"),
		el("title", "", text(title)),
		attrs(el("script", ""), "src", tailwindCDN),
	)

	container := el("div", "max-w-6xl mx-auto",
		el("h1", "text-3xl font-bold text-center mb-8 text-gray-800", text("AI Teaching Content")),
	)
	if p.Topic != "" {
		container.AppendChild(el("p", "text-center text-gray-600 mb-8",
			text(fmt.Sprintf("Topic: %s · Difficulty: %s", p.Topic, p.Difficulty)),
		))
	}
	if p.Error != "" {
		container.AppendChild(attrs(
			el("div", "bg-red-100 border border-red-400 text-red-700 px-4 py-3 rounded-lg mb-6", text(p.Error)),
			"role", "alert",
		))
	}

	list := el("div", "space-y-8")
	for _, s := range p.Sections {
		list.AppendChild(sectionCard(s))
	}
	container.AppendChild(list)

	doc := el("html", "", head, el("body", "", el("div", "min-h-screen bg-gray-50 py-8 px-4", container)))
	attrs(doc, "lang", "en")
	root.AppendChild(doc)

	return &Surface{
		Topic:      p.Topic,
		Difficulty: p.Difficulty,
		doc:        goquery.NewDocumentFromNode(root),
	}
}

func sectionCard(s SectionView) *html.Node {
	mode, toggleLabel := "rendered", "🔧 Raw"
	if s.Raw {
		mode, toggleLabel = "raw", "📄 Rendered"
	}

	content := attrs(el("div", "prose prose-lg max-w-none", s.Body),
		"id", SectionID(s.Key),
		"data-view", mode,
	)

	header := el("div", "bg-gray-50 px-6 py-4 border-b border-gray-200",
		el("div", "flex justify-between items-center",
			el("h2", "text-xl font-semibold text-gray-800 flex items-center gap-2",
				el("div", "w-2 h-2 bg-blue-600 rounded-full"),
				text(s.Key.Label()),
			),
			el("div", "flex gap-2",
				attrs(el("button", "px-3 py-1.5 bg-gray-200 text-gray-700 rounded hover:bg-gray-300 transition-colors duration-200 text-sm font-medium", text(toggleLabel)),
					"type", "button", "data-action", "toggle", "data-key", string(s.Key)),
				attrs(el("button", "px-3 py-1.5 bg-green-600 text-white rounded hover:bg-green-700 transition-colors duration-200 text-sm font-medium flex items-center gap-1", text("📄 PDF")),
					"type", "button", "data-action", "export", "data-key", string(s.Key)),
			),
		),
	)

	return attrs(el("div", "bg-white rounded-lg shadow-md overflow-hidden", header, el("div", "p-6", content)),
		"data-key", string(s.Key),
	)
}

// Locate finds the content subtree for key.
func (s *Surface) Locate(key core.ContentKey) (*goquery.Selection, error) {
	sel := s.doc.Find("#" + SectionID(key))
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSectionNotFound, SectionID(key))
	}
	return sel.First(), nil
}

// IsRaw reports whether the section for key was built in raw view.
func (s *Surface) IsRaw(key core.ContentKey) bool {
	sel, err := s.Locate(key)
	if err != nil {
		return false
	}
	mode, _ := sel.Attr("data-view")
	return mode == "raw"
}

// Keys returns the keys of the sections on the page, in page order.
func (s *Surface) Keys() []core.ContentKey {
	var keys []core.ContentKey
	s.doc.Find("[data-view]").Each(func(_ int, sel *goquery.Selection) {
		id, _ := sel.Attr("id")
		keys = append(keys, core.ContentKey(strings.TrimPrefix(id, "markdown-")))
	})
	return keys
}

// Render writes the full page as HTML.
func (s *Surface) Render(w io.Writer) error {
	if err := html.Render(w, s.doc.Get(0)); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}

// HTML returns the full page as a string.
func (s *Surface) HTML() (string, error) {
	var b strings.Builder
	if err := s.Render(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

func el(tag, class string, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	if class != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
	}
	for _, c := range children {
		if c != nil {
			n.AppendChild(c)
		}
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// attrs appends key/value pairs as attributes.
func attrs(n *html.Node, kv ...string) *html.Node {
	for i := 0; i+1 < len(kv); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return n
}
