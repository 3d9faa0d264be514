package web_test

import (
	"testing"

	"bytethoughts/internal/adapters/web"
)

func TestParseListingQuery(t *testing.T) {
	tests := []struct {
		name   string
		page   string
		search string
		want   web.ListingQuery
	}{
		{name: "defaults", want: web.ListingQuery{Page: 1}},
		{name: "valid page", page: "7", want: web.ListingQuery{Page: 7}},
		{name: "non-numeric page", page: "abc", want: web.ListingQuery{Page: 1}},
		{name: "zero page", page: "0", want: web.ListingQuery{Page: 1}},
		{name: "negative page", page: "-4", want: web.ListingQuery{Page: 1}},
		{name: "search is trimmed", page: "2", search: "  react ", want: web.ListingQuery{Page: 2, Search: "react"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			got := web.ParseListingQuery(tt.page, tt.search)

			// Assert
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSearchURL_ResetsPageAndTrims(t *testing.T) {
	if got := web.SearchURL("  react hooks "); got != "/blog?page=1&search=react+hooks" {
		t.Errorf("got %q", got)
	}
	if got := web.SearchURL("   "); got != "/blog?page=1" {
		t.Errorf("empty search: got %q", got)
	}
}

func TestPageURL_PreservesSearch(t *testing.T) {
	if got := web.PageURL(2, "react"); got != "/blog?page=2&search=react" {
		t.Errorf("got %q", got)
	}
	if got := web.PageURL(5, ""); got != "/blog?page=5" {
		t.Errorf("without search: got %q", got)
	}
}

func TestClearSearchURL(t *testing.T) {
	if got := web.ClearSearchURL(); got != "/blog" {
		t.Errorf("got %q", got)
	}
}
