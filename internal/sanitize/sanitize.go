// Package sanitize strips markup from user-supplied text before it is
// stored and fanned out to other clients.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes every HTML element and returns plain, trimmed text.
// Entities escaped by the policy are decoded again so "Tom & Jerry" is
// stored as typed.
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
