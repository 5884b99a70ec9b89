package meta

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// maxStripPasses bounds the sanitize/unescape loop for nested encodings.
const maxStripPasses = 8

// StripTags removes all markup from s, including the contents of script and
// style elements, and returns the plain text with entities decoded. Markup
// that only appears once entities are decoded is stripped as well.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	for i := 0; i < maxStripPasses; i++ {
		out := html.UnescapeString(stripPolicy.Sanitize(s))
		if out == s {
			break
		}
		s = out
	}
	return strings.TrimSpace(s)
}
