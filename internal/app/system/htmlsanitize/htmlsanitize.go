// internal/app/system/htmlsanitize/htmlsanitize.go
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Wishlists and group descriptions are shown to other members, so they are
// stored as plain text. The strict policy drops every tag and attribute and
// leaves the text content behind.
var strict = bluemonday.StrictPolicy()

// PlainText strips all markup from s and trims surrounding whitespace.
// The result is safe to store and is escaped again by html/template on output.
func PlainText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	out := strict.Sanitize(s)
	// StrictPolicy escapes what it keeps; templates escape again on render,
	// so undo the entity encoding of common characters here.
	out = strings.NewReplacer("&amp;", "&", "&#39;", "'", "&#34;", `"`, "&lt;", "<", "&gt;", ">").Replace(out)
	return strings.TrimSpace(out)
}
