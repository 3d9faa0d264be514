package web

import (
	"net/url"
	"strconv"
	"strings"

	"bytethoughts/internal/usecases"
)

const blogPath = "/blog"

// ListingQuery is the addressable state of the listing page.
type ListingQuery struct {
	Page   int
	Search string
}

// ParseListingQuery reads the page and search parameters. A missing,
// non-numeric or non-positive page is 1; search is trimmed.
func ParseListingQuery(rawPage, rawSearch string) ListingQuery {
	page, err := strconv.Atoi(strings.TrimSpace(rawPage))
	if err != nil {
		page = 1
	}
	return ListingQuery{
		Page:   usecases.NormalisePage(page),
		Search: strings.TrimSpace(rawSearch),
	}
}

// URL is the canonical location of q: page first, search only when set.
func (q ListingQuery) URL() string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(usecases.NormalisePage(q.Page)))
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return blogPath + "?" + v.Encode()
}

// SearchURL is where submitting a search leads: page 1 with the trimmed term.
func SearchURL(query string) string {
	return ListingQuery{Page: 1, Search: strings.TrimSpace(query)}.URL()
}

// PageURL changes the page and keeps the search term.
func PageURL(page int, search string) string {
	return ListingQuery{Page: page, Search: search}.URL()
}

// ClearSearchURL drops the search term and returns to page 1.
func ClearSearchURL() string {
	return blogPath
}
