package service

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// linkPolicy keeps an <a href> only when the URL is parseable and either
// relative or one of the allowed schemes.
var linkPolicy = bluemonday.NewPolicy().
	AllowURLSchemes("http", "https", "mailto").
	AllowRelativeURLs(true).
	AllowAttrs("href").OnElements("a")

// safeLink rejects resource links that a browser could execute, e.g.
// javascript: or data: URLs. Blank links are accepted as-is.
func safeLink(value *string) error {
	if value == nil || *value == "" {
		return nil
	}
	anchor := `<a href="` + html.EscapeString(*value) + `">link</a>`
	if !strings.Contains(linkPolicy.Sanitize(anchor), "href=") {
		return validationError("resource_link %q is not an allowed URL", *value)
	}
	return nil
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	t := strings.TrimSpace(*value)
	return &t
}
