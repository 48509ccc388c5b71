package surface

import (
	"errors"
	"strings"
	"testing"

	"github.com/gaurav-prasanna/lessonpipe/core"
	"golang.org/x/net/html"
)

func body(s string) *html.Node {
	n := el("div", "space-y-6", el("p", "text-gray-700", text(s)))
	return n
}

func TestBuild_SectionsAddressableByID(t *testing.T) {
	s := Build(Page{
		Topic:      "Recursion",
		Difficulty: core.Medium,
		Sections: []SectionView{
			{Key: core.PreClass, Body: body("pre")},
			{Key: core.PostClass, Raw: true, Body: body("post")},
		},
	})

	sel, err := s.Locate(core.PreClass)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sel.Text(); got != "pre" {
		t.Errorf("expected section text pre, got %q", got)
	}
	if s.IsRaw(core.PreClass) || !s.IsRaw(core.PostClass) {
		t.Error("view modes not recorded on the surface")
	}

	_, err = s.Locate(core.InClass)
	if !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("expected ErrSectionNotFound, got %v", err)
	}
}

func TestBuild_HTMLPage(t *testing.T) {
	s := Build(Page{
		Topic:    "Sorting",
		Error:    "Failed to generate PDF. Please try again.",
		Sections: []SectionView{{Key: core.InClass}},
	})

	page, err := s.HTML()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"<!DOCTYPE html>",
		`id="markdown-in_class_content"`,
		"In-Class Content",
		"Failed to generate PDF. Please try again.",
		tailwindCDN,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
}

func TestKeys_PageOrder(t *testing.T) {
	s := Build(Page{Sections: []SectionView{
		{Key: core.PreClass},
		{Key: core.InClass},
		{Key: core.PostClass},
	}})

	keys := s.Keys()
	if len(keys) != 3 || keys[0] != core.PreClass || keys[2] != core.PostClass {
		t.Errorf("unexpected keys %v", keys)
	}
}
