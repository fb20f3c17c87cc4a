// Package sanitize strips markup from user-supplied text before it is
// persisted or embedded into notification emails.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict = bluemonday.StrictPolicy()
	ugc    = bluemonday.UGCPolicy()
)

// Text removes all HTML from a plain-text field (titles, idea bodies,
// comments) and trims surrounding whitespace.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// HTML keeps user-generated-content markup that is safe to embed in an
// email body.
func HTML(s string) string {
	return ugc.Sanitize(s)
}
