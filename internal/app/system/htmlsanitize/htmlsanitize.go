// Package htmlsanitize cleans rich-text content before it is stored.
//
// Text blocks arrive from the editor as an HTML fragment. Everything is
// run through a single bluemonday policy that keeps the formatting the
// editor can produce (headings, lists, tables, code, links, images) and
// strips scripts, event handlers, and unknown protocols.
package htmlsanitize

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowStandardURLs()

	p.AllowElements(
		"p", "br", "hr", "blockquote", "pre", "code",
		"strong", "em", "b", "i", "u", "s", "sub", "sup", "mark",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"a", "span",
	)
	p.AllowLists()
	p.AllowTables()
	p.AllowImages()

	// AllowStandardURLs only sets the scheme rules; href itself still
	// has to be allowed on anchors or every link loses its target.
	p.AllowAttrs("href").OnElements("a")

	// The editor styles tables inline and tags elements with its own
	// classes; style stays confined to table elements.
	p.AllowAttrs("class").OnElements("table", "thead", "tbody", "tr", "th", "td", "span", "p")
	p.AllowAttrs("style").OnElements("table", "tr", "th", "td")

	return p
}

// Sanitize returns s with disallowed HTML removed. Safe formatting is
// preserved as-is.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}

var tagPattern = regexp.MustCompile(`<\s*/?[a-zA-Z][^>]*>`)

// IsPlainText reports whether s contains no HTML tags. Bare < or >
// characters (comparisons, math) do not count as markup.
func IsPlainText(s string) bool {
	return !tagPattern.MatchString(s)
}

// PlainTextToHTML converts plain text into a minimal HTML fragment:
// entities escaped, newlines turned into <br>, the whole thing wrapped
// in a paragraph.
func PlainTextToHTML(s string) string {
	if s == "" {
		return ""
	}
	escaped := html.EscapeString(s)
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	return "<p>" + escaped + "</p>"
}
