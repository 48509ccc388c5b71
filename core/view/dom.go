// Package view — element builders.
// Layouts are composed directly as x/net/html node trees carrying the
// same utility-class tokens the live display page is styled with.
package view

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// el creates an element with a class attribute and children. Nil
// children are skipped so optional blocks can be passed inline.
func el(tag, class string, children ...*html.Node) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
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

func setAttr(n *html.Node, key, val string) *html.Node {
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
	return n
}

// card is the white rounded block with a section heading used by most
// sub-blocks.
func card(title string, body *html.Node) *html.Node {
	return el("div", "bg-white p-6 rounded-lg shadow-sm",
		el("h3", "text-xl font-semibold text-gray-800 mb-4", text(title)),
		body,
	)
}

// callout is the tinted block used for overview and summary text.
func callout(title, body string) *html.Node {
	return el("div", "bg-blue-50 p-6 rounded-lg",
		el("h3", "text-xl font-semibold text-blue-800 mb-4", text(title)),
		el("p", "text-gray-700", text(body)),
	)
}

// bullets renders a dotted list of short text items.
func bullets(items []string) *html.Node {
	list := el("div", "space-y-3")
	for _, item := range items {
		list.AppendChild(el("div", "flex items-start gap-3",
			el("div", "w-2 h-2 bg-blue-600 rounded-full mt-2"),
			el("p", "text-gray-700", text(item)),
		))
	}
	return list
}

// paragraph returns nil for empty text so the block is omitted.
func paragraph(class, s string) *html.Node {
	if s == "" {
		return nil
	}
	return el("p", class, text(s))
}
