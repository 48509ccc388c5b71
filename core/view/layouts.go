package view

import (
	"strconv"

	"github.com/gaurav-prasanna/lessonpipe/core/variant"
	"golang.org/x/net/html"
)

// Each layout emits a sub-block only when its field is present.

func preClassLayout(v variant.PreClass) *html.Node {
	root := el("div", "space-y-6")

	if v.Overview != "" {
		root.AppendChild(callout("Overview", string(v.Overview)))
	}

	if len(v.KeyConcepts) > 0 {
		root.AppendChild(card("Key Concepts", bullets(texts(v.KeyConcepts))))
	}

	if v.ShortExample != "" {
		root.AppendChild(card("Example",
			el("div", "bg-gray-50 p-4 rounded-lg",
				el("p", "text-gray-700 italic", text(string(v.ShortExample))),
			),
		))
	}

	if materials := v.Materials(); len(materials) > 0 {
		list := el("div", "space-y-3")
		for _, m := range materials {
			list.AppendChild(readingMaterial(string(m)))
		}
		root.AppendChild(card("Reading Materials", list))
	}

	if activities := v.AllActivities(); len(activities) > 0 {
		list := el("div", "space-y-6")
		for _, a := range activities {
			var details *html.Node
			if a.Instructions != "" {
				details = el("div", "bg-gray-50 p-4 rounded-lg",
					el("p", "text-gray-700 whitespace-pre-line", text(string(a.Instructions))),
				)
			}
			list.AppendChild(el("div", "border-l-4 border-blue-500 pl-4",
				paragraphHeading("h4", "text-lg font-medium text-gray-800 mb-2", string(a.Heading())),
				paragraph("text-gray-600 mb-3", string(a.Description)),
				details,
			))
		}
		root.AppendChild(card("Pre-Class Activities", list))
	}

	return root
}

func inClassLayout(v variant.InClass) *html.Node {
	root := el("div", "space-y-6")

	if len(v.LearningObjectives) > 0 {
		grid := el("div", "grid grid-cols-1 md:grid-cols-2 gap-4")
		for i, obj := range v.LearningObjectives {
			grid.AppendChild(el("div", "flex items-start gap-3 bg-blue-50 p-4 rounded-lg",
				el("div", "w-6 h-6 bg-blue-600 text-white rounded-full flex items-center justify-center flex-shrink-0",
					text(strconv.Itoa(i+1)),
				),
				el("p", "text-gray-700", text(string(obj))),
			))
		}
		root.AppendChild(card("Learning Objectives", grid))
	}

	if len(v.MaterialsNeeded) > 0 {
		chips := el("div", "flex flex-wrap gap-3")
		for _, m := range v.MaterialsNeeded {
			chips.AppendChild(el("div", "bg-gray-100 px-4 py-2 rounded-full text-gray-700", text(string(m))))
		}
		root.AppendChild(card("Materials Needed", chips))
	}

	if len(v.ClassActivities) > 0 {
		list := el("div", "space-y-6")
		for _, a := range v.ClassActivities {
			var badge, script *html.Node
			if a.Duration != "" {
				badge = el("span", "bg-blue-100 text-blue-800 px-3 py-1 rounded-full text-sm", text(string(a.Duration)))
			}
			if a.TeachingScript != "" {
				script = el("div", "bg-gray-50 p-4 rounded-lg",
					el("h4", "text-sm font-medium text-gray-500 mb-2", text("Teaching Script")),
					el("p", "text-gray-700 whitespace-pre-line", text(string(a.TeachingScript))),
				)
			}
			var header *html.Node
			if a.Heading() != "" || badge != nil {
				header = el("div", "flex justify-between items-start mb-4",
					paragraphHeading("h3", "text-xl font-semibold text-gray-800", string(a.Heading())),
					badge,
				)
			}
			list.AppendChild(el("div", "bg-white p-6 rounded-lg shadow-sm",
				header,
				paragraph("text-gray-600 mb-4", string(a.Description)),
				script,
			))
		}
		root.AppendChild(list)
	}

	if len(v.AssessmentMethods) > 0 {
		root.AppendChild(card("Assessment Methods", bullets(texts(v.AssessmentMethods))))
	}

	if v.Summary != "" {
		root.AppendChild(callout("Summary", string(v.Summary)))
	}

	return root
}

func postClassLayout(v variant.PostClass) *html.Node {
	root := el("div", "space-y-6")

	if len(v.Quiz) > 0 {
		list := el("div", "space-y-8")
		for i, q := range v.Quiz {
			options := el("div", "space-y-3")
			for _, opt := range q.Options {
				options.AppendChild(quizOption(opt.String(), q.IsCorrect(opt)))
			}
			list.AppendChild(el("div", "border-b border-gray-200 pb-6 last:border-0",
				el("h4", "text-lg font-medium text-gray-800 mb-4",
					text(strconv.Itoa(i+1)+". "+string(q.Question)),
				),
				options,
			))
		}
		root.AppendChild(el("div", "bg-white p-6 rounded-lg shadow-sm",
			el("h3", "text-xl font-semibold text-gray-800 mb-6", text("Quiz")),
			list,
		))
	}

	if v.Summary != "" {
		root.AppendChild(callout("Summary", string(v.Summary)))
	}

	return root
}

func quizOption(option string, correct bool) *html.Node {
	box, label := "p-3 rounded-lg cursor-pointer transition-colors duration-200 bg-gray-50 hover:bg-gray-100", "text-gray-700"
	if correct {
		box, label = "p-3 rounded-lg cursor-pointer transition-colors duration-200 bg-green-50 border border-green-200", "text-green-700"
	}
	n := el("div", box, el("p", label, text(option)))
	return setAttr(n, "data-correct", strconv.FormatBool(correct))
}

func readingMaterial(material string) *html.Node {
	const class = "block p-3 bg-gray-50 hover:bg-gray-100 rounded-lg transition-colors duration-200"
	label := el("p", "text-blue-600 hover:text-blue-800", text(material))

	href := materialHref(material)
	if href == "" {
		return el("div", class, label)
	}
	a := el("a", class, label)
	setAttr(a, "href", href)
	setAttr(a, "target", "_blank")
	return setAttr(a, "rel", "noopener noreferrer")
}

func paragraphHeading(tag, class, s string) *html.Node {
	if s == "" {
		return nil
	}
	return el(tag, class, text(s))
}
