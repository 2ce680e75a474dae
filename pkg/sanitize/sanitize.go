// Package sanitize neutralizes markup in free-text input before it is
// persisted. It is applied to profile and payment description fields, never
// to secrets such as passwords or tokens.
package sanitize

import (
	"html"
	"regexp"
	"strings"
)

var (
	scriptBlockRe = regexp.MustCompile(`(?is)<(script|style)\b.*?</(script|style)>`)
	tagRe         = regexp.MustCompile(`(?s)<[^>]*>`)
	jsSchemeRe    = regexp.MustCompile(`(?i)javascript\s*:`)
	eventAttrRe   = regexp.MustCompile(`(?i)\bon[a-z]+\s*=`)
	controlRe     = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
)

// Clean strips script/style blocks and HTML tags, removes javascript: URLs
// and inline event-handler fragments, escapes what remains, and trims
// surrounding whitespace.
func Clean(s string) string {
	if s == "" {
		return s
	}

	s = scriptBlockRe.ReplaceAllString(s, "")
	s = tagRe.ReplaceAllString(s, "")
	s = jsSchemeRe.ReplaceAllString(s, "")
	s = eventAttrRe.ReplaceAllString(s, "")
	s = controlRe.ReplaceAllString(s, "")
	s = html.EscapeString(s)

	return strings.TrimSpace(s)
}
