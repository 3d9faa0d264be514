// Package content prepares article bodies for display.
package content

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// PrepareBody rewrites rendered article HTML for embedding in a page:
// absolute links open in a new tab without leaking the opener, and images
// load lazily. Input that cannot be parsed is returned unchanged.
func PrepareBody(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !isExternal(href) {
			return
		}
		s.SetAttr("target", "_blank")
		s.SetAttr("rel", "noopener noreferrer")
	})
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if _, ok := s.Attr("loading"); !ok {
			s.SetAttr("loading", "lazy")
		}
	})
	doc.Find("script").Remove()

	out, err := doc.Find("body").Html()
	if err != nil {
		return html
	}
	return out
}

// PlainText extracts the visible text of an HTML fragment with runs of
// whitespace collapsed to single spaces.
func PlainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Excerpt returns at most maxRunes of the plain text of html, cut at a word
// boundary and suffixed with an ellipsis when shortened.
func Excerpt(html string, maxRunes int) string {
	text := PlainText(html)
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)[:maxRunes]
	cut := string(runes)
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

func isExternal(href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
