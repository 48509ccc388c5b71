package export

import (
	"github.com/PuerkitoBio/goquery"
)

type substitution struct {
	from, to string
}

// styleTable maps the theme color tokens used by the view layouts to
// literal values the document renderer can paint. It must be updated by
// hand whenever the layouts start using a new theme color.
var styleTable = []substitution{
	{"bg-blue-50", "bg-[#EFF6FF]"},
	{"bg-blue-100", "bg-[#DBEAFE]"},
	{"bg-blue-600", "bg-[#2563EB]"},
	{"text-blue-600", "text-[#2563EB]"},
	{"text-blue-800", "text-[#1E40AF]"},
	{"bg-green-50", "bg-[#F0FDF4]"},
	{"bg-green-100", "bg-[#DCFCE7]"},
	{"bg-green-600", "bg-[#16A34A]"},
	{"text-green-600", "text-[#16A34A]"},
	{"text-green-700", "text-[#15803D]"},
	{"bg-gray-50", "bg-[#F9FAFB]"},
	{"bg-gray-100", "bg-[#F3F4F6]"},
	{"bg-gray-200", "bg-[#E5E7EB]"},
	{"text-gray-500", "text-[#6B7280]"},
	{"text-gray-600", "text-[#4B5563]"},
	{"text-gray-700", "text-[#374151]"},
	{"text-gray-800", "text-[#1F2937]"},
	{"border-gray-200", "border-[#E5E7EB]"},
	{"border-gray-300", "border-[#D1D5DB]"},
	{"border-blue-500", "border-[#3B82F6]"},
	{"border-green-200", "border-[#BBF7D0]"},

	// raw view block
	{"bg-gray-800", "bg-[#1F2937]"},
	{"text-green-400", "text-[#4ADE80]"},
}

// Translate rewrites theme tokens on every element of sel and its
// descendants. Tokens not in the table are left alone.
func Translate(sel *goquery.Selection) {
	sel.Find("*").AddSelection(sel).Each(func(_ int, el *goquery.Selection) {
		if _, ok := el.Attr("class"); !ok {
			return
		}
		for _, s := range styleTable {
			if el.HasClass(s.from) {
				el.RemoveClass(s.from).AddClass(s.to)
			}
		}
	})
}
