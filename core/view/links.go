// Package view — reading material links.
// Materials are written as "URL - description"; the part before the first
// " - " becomes the link target when it is an absolute web URL.
package view

import (
	"net/url"
	"strings"
)

// materialHref returns the link target for a reading material, or "".
func materialHref(material string) string {
	prefix, _, _ := strings.Cut(material, " - ")
	prefix = strings.TrimSpace(prefix)
	if prefix == "" || strings.ContainsAny(prefix, " \t\n") {
		return ""
	}

	parsed, err := url.Parse(prefix)
	if err != nil {
		return ""
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	if parsed.Host == "" {
		return ""
	}
	return parsed.String()
}
