// Package components holds the reusable page fragments. The markup lives in
// the .templ files; run `templ generate` after editing them.
package components

import "bytethoughts/internal/usecases"

// Nav targets of the header.
const (
	NavHome = "home"
	NavBlog = "blog"
)

// cardTags is how many tags a list card shows.
const cardTags = 3

// ListingView is what the blog listing renders: the controller state plus
// the navigation links derived from it.
type ListingView struct {
	State          usecases.ListingState
	Pagination     usecases.Pagination
	PageURL        func(page int) string
	ClearSearchURL string
}

// listingSync makes a newer listing request replace the one in flight, for
// the search form and the pagination links alike.
const listingSync = "#listing-results:replace"
