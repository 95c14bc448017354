package content

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

const ellipsis = "…"

// nolint:gochecknoglobals
var policy = bluemonday.UGCPolicy()

// Excerpt returns the first n characters of html's text with whitespace collapsed.
func Excerpt(html string, n int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	text := strings.Join(strings.Fields(doc.Text()), " ")
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}

	runes := []rune(text)

	return strings.TrimSpace(string(runes[:n])) + ellipsis
}

// Sanitize keeps only the user content allowlist of html: formatting, lists, links, images
// and tables. Links may use http, https, mailto and relative URLs only.
func Sanitize(html string) string {
	return policy.Sanitize(html)
}
