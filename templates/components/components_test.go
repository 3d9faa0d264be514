package components_test

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"bytethoughts/internal/domain"
	"bytethoughts/internal/usecases"
	"bytethoughts/templates/components"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestBlogList_ShowsFirstThreeTagsAndEscapes(t *testing.T) {
	html := render(t, components.BlogList([]domain.Article{{
		ID:    9,
		Title: "<script>alert(1)</script>",
		Tags:  domain.TagList{"go", "web", "htmx", "templ"},
	}}, "Latest Posts"))

	if strings.Contains(html, "<script>") {
		t.Errorf("title was not escaped: %s", html)
	}
	for _, tag := range []string{">go<", ">web<", ">htmx<"} {
		if !strings.Contains(html, tag) {
			t.Errorf("missing tag %s", tag)
		}
	}
	if strings.Contains(html, ">templ<") {
		t.Error("only the first three tags should be shown")
	}
	if !strings.Contains(html, `href="/blog/9"`) || !strings.Contains(html, "Latest Posts") {
		t.Errorf("missing link or heading: %s", html)
	}
}

func TestBlogList_EmptyTitleOmitsHeading(t *testing.T) {
	html := render(t, components.BlogList(nil, ""))

	if strings.Contains(html, "<h2") {
		t.Errorf("unexpected heading: %s", html)
	}
}

func TestArticleCarousel_EmptyRendersNothing(t *testing.T) {
	if html := render(t, components.ArticleCarousel(nil)); html != "" {
		t.Errorf("got %q", html)
	}
}

func TestArticleCarousel_OneDotPerSlide(t *testing.T) {
	html := render(t, components.ArticleCarousel([]domain.Article{{ID: 1}, {ID: 2}, {ID: 3}}))

	if n := strings.Count(html, "data-carousel-dot="); n != 3 {
		t.Errorf("dots: got %d, want 3", n)
	}
	if n := strings.Count(html, "is-active"); n != 2 {
		t.Errorf("first slide and first dot should be active, got %d markers", n)
	}
}

func TestPagination_LinksPreserveURLBuilder(t *testing.T) {
	p := usecases.BuildPagination(2, 100)
	html := render(t, components.Pagination(p, func(page int) string {
		return "/blog?page=" + strconv.Itoa(page) + "&search=go"
	}))

	if !strings.Contains(html, `href="/blog?page=1&amp;search=go"`) {
		t.Errorf("previous link missing: %s", html)
	}
	if !strings.Contains(html, `href="/blog?page=3&amp;search=go"`) {
		t.Errorf("next link missing: %s", html)
	}
	if !strings.Contains(html, `aria-current="page"`) {
		t.Error("current page not marked")
	}
}

func TestPagination_SinglePageRendersNothing(t *testing.T) {
	html := render(t, components.Pagination(usecases.BuildPagination(1, 1), func(int) string { return "" }))
	if html != "" {
		t.Errorf("got %q", html)
	}
}

func TestEmptyListing_DistinguishesFailureFromNoResults(t *testing.T) {
	failed := render(t, components.EmptyListing(usecases.ListingState{Err: domain.ErrUpstreamUnavailable}, "/blog"))
	noMatch := render(t, components.EmptyListing(usecases.ListingState{SearchQuery: "rust"}, "/blog"))

	if !strings.Contains(failed, "unavailable") {
		t.Errorf("failure state: %s", failed)
	}
	if !strings.Contains(noMatch, `No articles match your search for "rust"`) {
		t.Errorf("no-match state: %s", noMatch)
	}
}

func TestSearchSummary_CarriesClearLink(t *testing.T) {
	html := render(t, components.SearchSummary(usecases.ListingState{
		SearchQuery: "<b>go</b>",
		Articles:    []domain.Article{{ID: 1}, {ID: 2}},
	}, "/blog"))

	if !strings.Contains(html, `Found 2 articles for "&lt;b&gt;go&lt;/b&gt;"`) {
		t.Errorf("summary text: %s", html)
	}
	if !strings.Contains(html, `href="/blog"`) || !strings.Contains(html, "data-clear-search") {
		t.Errorf("clear link missing: %s", html)
	}
}

func TestSearchSummary_HiddenWithoutSearchAndNoClearWhileLoading(t *testing.T) {
	if html := render(t, components.SearchSummary(usecases.ListingState{}, "/blog")); html != "" {
		t.Errorf("no search: got %q", html)
	}

	html := render(t, components.SearchSummary(usecases.ListingState{SearchQuery: "go", Loading: true}, "/blog"))
	if !strings.Contains(html, "Searching...") || strings.Contains(html, "data-clear-search") {
		t.Errorf("loading: %s", html)
	}
}

func TestSearchForm_KeepsQueryAndSyncsWithPagination(t *testing.T) {
	form := render(t, components.SearchForm(`"go"`))
	links := render(t, components.Pagination(usecases.BuildPagination(2, 3), func(page int) string {
		return "/blog?page=" + strconv.Itoa(page)
	}))

	if !strings.Contains(form, `value="&#34;go&#34;"`) {
		t.Errorf("query not kept: %s", form)
	}
	if strings.Contains(form, "data-clear-search") {
		t.Error("the clear link belongs to the swapped results")
	}
	sync := `hx-sync="#listing-results:replace"`
	if !strings.Contains(form, sync) || strings.Count(links, sync) != 4 {
		t.Errorf("form and every page link should share %s:\n%s\n%s", sync, form, links)
	}
}

func TestPagination_CurrentPageBeyondTotalIsShown(t *testing.T) {
	html := render(t, components.Pagination(usecases.BuildPagination(500, 100), func(page int) string {
		return "/blog?page=" + strconv.Itoa(page)
	}))

	if !strings.Contains(html, `aria-current="page">500<`) {
		t.Errorf("current page missing: %s", html)
	}
	if !strings.Contains(html, `href="/blog?page=100" class="pagination__step"`) {
		t.Errorf("previous should step back to the last page: %s", html)
	}
}

func TestArticleDetail_RendersBodyUnescapedAndAuthorLinks(t *testing.T) {
	view := usecases.NewArticleView(domain.Article{
		Title:    "Hello",
		URL:      "https://dev.to/ada/hello",
		BodyHTML: "<h2>Intro</h2><p>text</p>",
		User:     domain.Author{Name: "Ada", Username: "ada", GitHubUsername: "ada-gh"},
	})

	html := render(t, components.ArticleDetail(view))

	if !strings.Contains(html, "<h2>Intro</h2>") {
		t.Errorf("body should be raw HTML: %s", html)
	}
	if !strings.Contains(html, "View on Dev.to") || !strings.Contains(html, "https://github.com/ada-gh") {
		t.Errorf("missing links: %s", html)
	}
	if strings.Contains(html, "Twitter") {
		t.Error("twitter link should be omitted without a handle")
	}
}

func TestHeader_MarksActiveLink(t *testing.T) {
	html := render(t, components.Header(components.NavBlog))

	if !strings.Contains(html, `href="/blog" class="site-nav__link is-active"`) {
		t.Errorf("blog link should be active: %s", html)
	}
	if !strings.Contains(html, "ByteThoughts") {
		t.Error("logo text missing")
	}
}
