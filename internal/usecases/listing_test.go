package usecases_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"bytethoughts/internal/domain"
	"bytethoughts/internal/metrics"
	"bytethoughts/internal/usecases"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestListingController_InitialState(t *testing.T) {
	c := usecases.NewListingController(usecases.NewGetListing(newFakeSource(), 0, nil))

	got := c.State()

	if !got.Loading || got.CurrentPage != 1 || got.TotalPages != 1 || got.SearchQuery != "" {
		t.Errorf("initial state: got %+v", got)
	}
	if got.Articles == nil {
		t.Error("articles should be empty, not nil")
	}
}

func TestListingController_Reload_AnyPageWithoutSearch(t *testing.T) {
	for _, page := range []int{1, 2, 7, 100, 250} {
		// Arrange
		source := newFakeSource()
		c := usecases.NewListingController(usecases.NewGetListing(source, 0, nil))

		// Act
		got := c.Reload(context.Background(), page, "")

		// Assert
		if got.Loading {
			t.Errorf("page %d: loading should be false", page)
		}
		if len(got.Articles) > usecases.PageSize {
			t.Errorf("page %d: got %d articles, want <= %d", page, len(got.Articles), usecases.PageSize)
		}
		if got.CurrentPage != page || got.TotalPages != 100 {
			t.Errorf("page %d: current=%d total=%d", page, got.CurrentPage, got.TotalPages)
		}
		calls := source.callsFor("articles")
		if len(calls) != 1 || calls[0].page != page || calls[0].perPage != usecases.PageSize {
			t.Errorf("page %d: calls %+v", page, calls)
		}
		if diff := cmp.Diff(got, c.State(), cmp.Comparer(func(a, b error) bool { return a == b })); diff != "" {
			t.Errorf("state should match result (-got +state):\n%s", diff)
		}
	}
}

func TestListingController_Reload_NormalisesInput(t *testing.T) {
	source := newFakeSource()
	c := usecases.NewListingController(usecases.NewGetListing(source, 0, nil))

	got := c.Reload(context.Background(), -3, "  react  ")

	if got.CurrentPage != 1 {
		t.Errorf("page: got %d, want 1", got.CurrentPage)
	}
	if got.SearchQuery != "react" {
		t.Errorf("search: got %q, want trimmed", got.SearchQuery)
	}
}

func TestListingController_Reload_SearchFiltersFetchedPageOnly(t *testing.T) {
	// Arrange
	source := newFakeSource()
	c := usecases.NewListingController(usecases.NewGetListing(source, 0, nil))

	// Act
	got := c.Reload(context.Background(), 2, "REACT")

	// Assert
	var ids []int64
	for _, a := range got.Articles {
		ids = append(ids, a.ID)
	}
	// page 2 holds ids 11..20; positions 0, 3, 6, 9 are tagged react
	if diff := cmp.Diff([]int64{11, 14, 17, 20}, ids); diff != "" {
		t.Errorf("ids (-want +got):\n%s", diff)
	}
	if calls := source.callsFor("articles"); len(calls) != 1 {
		t.Errorf("search must not fetch other pages, calls: %+v", calls)
	}
}

func TestListingController_Reload_SearchMatchesTitleAndDescription(t *testing.T) {
	source := newFakeSource()
	source.pages[1] = []domain.Article{
		{ID: 1, Title: "Writing a Parser", Tags: domain.TagList{}},
		{ID: 2, Description: "notes on PARSING json", Tags: domain.TagList{}},
		{ID: 3, Title: "Unrelated", Tags: domain.TagList{"css"}},
	}
	c := usecases.NewListingController(usecases.NewGetListing(source, 0, nil))

	got := c.Reload(context.Background(), 1, "pars")

	if len(got.Articles) != 2 || got.Articles[0].ID != 1 || got.Articles[1].ID != 2 {
		t.Errorf("got %+v", got.Articles)
	}
}

func TestListingController_Reload_NoMatchIsEmptyWithoutError(t *testing.T) {
	c := usecases.NewListingController(usecases.NewGetListing(newFakeSource(), 0, nil))

	got := c.Reload(context.Background(), 1, "haskell")

	if len(got.Articles) != 0 || got.Err != nil || got.Failed() {
		t.Errorf("got %+v", got)
	}
	if !got.Searching() {
		t.Error("search should still be active")
	}
}

func TestListingController_Reload_ClearingSearchReloadsPageOne(t *testing.T) {
	source := newFakeSource()
	c := usecases.NewListingController(usecases.NewGetListing(source, 0, nil))
	c.Reload(context.Background(), 3, "react")

	got := c.Reload(context.Background(), 1, "")

	if got.SearchQuery != "" || got.CurrentPage != 1 || len(got.Articles) != usecases.PageSize {
		t.Errorf("got page=%d search=%q n=%d", got.CurrentPage, got.SearchQuery, len(got.Articles))
	}
}

func TestListingController_Reload_FailureIsEmptyAndTagged(t *testing.T) {
	// Arrange
	source := newFakeSource()
	source.err = &domain.StatusError{StatusCode: 502, Operation: "list articles"}
	c := usecases.NewListingController(usecases.NewGetListing(source, 0, nil))

	// Act
	got := c.Reload(context.Background(), 4, "")

	// Assert
	if got.Loading {
		t.Error("loading should end false on failure")
	}
	if got.Articles == nil || len(got.Articles) != 0 {
		t.Errorf("articles: got %v, want empty", got.Articles)
	}
	if !errors.Is(got.Err, domain.ErrUpstreamStatus) || !got.Failed() {
		t.Errorf("err: got %v", got.Err)
	}
}

func TestListingController_TotalPagesFromEstimate(t *testing.T) {
	tests := []struct {
		estimate int
		want     int
	}{
		{estimate: 0, want: 100},
		{estimate: 1000, want: 100},
		{estimate: 37, want: 4},
		{estimate: 10, want: 1},
		{estimate: 1, want: 1},
	}
	for _, tt := range tests {
		c := usecases.NewListingController(usecases.NewGetListing(newFakeSource(), tt.estimate, nil))
		if got := c.Reload(context.Background(), 1, "").TotalPages; got != tt.want {
			t.Errorf("estimate %d: got %d, want %d", tt.estimate, got, tt.want)
		}
	}
}

func TestListingController_StaleResultIsDiscarded(t *testing.T) {
	// Arrange
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	source := newFakeSource()
	release := source.gate(1)
	c := usecases.NewListingController(usecases.NewGetListing(source, 0, m))

	// Act: an older reload for page 1 blocks while a newer one for page 2
	// completes; then the older one resolves.
	var wg sync.WaitGroup
	var stale usecases.ListingState
	wg.Add(1)
	go func() {
		defer wg.Done()
		stale = c.Reload(context.Background(), 1, "")
	}()
	waitForCalls(t, source, 1)

	fresh := c.Reload(context.Background(), 2, "")
	release()
	wg.Wait()

	// Assert
	got := c.State()
	if got.CurrentPage != 2 || got.Generation != fresh.Generation {
		t.Errorf("state: page=%d gen=%d, want page 2 gen %d", got.CurrentPage, got.Generation, fresh.Generation)
	}
	if stale.Generation >= fresh.Generation {
		t.Errorf("generations: stale=%d fresh=%d", stale.Generation, fresh.Generation)
	}
	want := `
# HELP bytethoughts_listing_stale_responses_total Reload results discarded because a newer reload was issued.
# TYPE bytethoughts_listing_stale_responses_total counter
bytethoughts_listing_stale_responses_total 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "bytethoughts_listing_stale_responses_total"); err != nil {
		t.Errorf("stale responses metric: %v", err)
	}
}

func TestGetListing_SeparateViewsNeverCountStale(t *testing.T) {
	// Arrange: two visitors share the use case, each with its own view.
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	source := newFakeSource()
	release := source.gate(2)
	listing := usecases.NewGetListing(source, 0, m)
	first, second := listing.NewController(), listing.NewController()

	// Act: the first visitor's page 2 is still loading when the second
	// visitor's page 3 completes.
	var wg sync.WaitGroup
	var slow usecases.ListingState
	wg.Add(1)
	go func() {
		defer wg.Done()
		slow = first.Reload(context.Background(), 2, "")
	}()
	waitForCalls(t, source, 1)

	fast := second.Reload(context.Background(), 3, "")
	release()
	wg.Wait()

	// Assert
	if got := first.State(); got.CurrentPage != 2 || got.Generation != slow.Generation {
		t.Errorf("first view: page=%d gen=%d, want page 2 gen %d", got.CurrentPage, got.Generation, slow.Generation)
	}
	if got := second.State(); got.CurrentPage != 3 || got.Generation != fast.Generation {
		t.Errorf("second view: page=%d gen=%d, want page 3 gen %d", got.CurrentPage, got.Generation, fast.Generation)
	}
	want := `
# HELP bytethoughts_listing_stale_responses_total Reload results discarded because a newer reload was issued.
# TYPE bytethoughts_listing_stale_responses_total counter
bytethoughts_listing_stale_responses_total 0
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "bytethoughts_listing_stale_responses_total"); err != nil {
		t.Errorf("stale responses metric: %v", err)
	}
}

func TestGetListing_ExecuteIsStateless(t *testing.T) {
	listing := usecases.NewGetListing(newFakeSource(), 50, nil)

	got := listing.Execute(context.Background(), 0, "  ")

	if got.CurrentPage != 1 || got.TotalPages != 5 || got.SearchQuery != "" || got.Loading {
		t.Errorf("execute: got %+v", got)
	}
	if got.Generation != 0 {
		t.Errorf("generation belongs to a view, got %d", got.Generation)
	}
}

func TestListingController_ConcurrentReloadsEndConsistent(t *testing.T) {
	c := usecases.NewListingController(usecases.NewGetListing(newFakeSource(), 0, nil))

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			c.Reload(context.Background(), page, "")
		}(i)
	}
	wg.Wait()

	got := c.State()
	if got.Loading {
		t.Error("loading should be false once all reloads finished")
	}
	if got.Generation != 20 {
		t.Errorf("generation: got %d, want 20", got.Generation)
	}
	// The applied articles must belong to the applied page.
	for _, a := range got.Articles {
		if !strings.HasSuffix(a.Description, " "+itoa(got.CurrentPage)) {
			t.Errorf("article %d from another page than %d", a.ID, got.CurrentPage)
		}
	}
}

func TestBuildPagination(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    string
	}{
		{name: "single page", current: 1, total: 1, want: "[1]"},
		{name: "start", current: 1, total: 100, want: "[1] 2 3 … 100"},
		{name: "middle", current: 6, total: 100, want: "1 … 4 5 [6] 7 8 … 100"},
		{name: "near start", current: 3, total: 100, want: "1 2 [3] 4 5 … 100"},
		{name: "end", current: 100, total: 100, want: "1 … 98 99 [100]"},
		{name: "small", current: 2, total: 4, want: "1 [2] 3 4"},
		{name: "beyond total", current: 500, total: 100, want: "1 … 98 99 100 … [500]"},
		{name: "one past total", current: 101, total: 100, want: "1 … 98 99 100 [101]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := usecases.BuildPagination(tt.current, tt.total)
			if got := renderPagination(p); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if p.HasPrev != (tt.current > 1) || p.HasNext != (tt.current < tt.total) {
				t.Errorf("prev/next: %+v", p)
			}
		})
	}
}

func TestBuildPagination_BeyondTotalStepsBackToLastPage(t *testing.T) {
	p := usecases.BuildPagination(500, 100)

	if p.Prev != 100 || p.HasNext {
		t.Errorf("prev=%d hasNext=%v, want prev 100 and no next", p.Prev, p.HasNext)
	}
	current := 0
	for _, it := range p.Items {
		if it.Current {
			current++
		}
	}
	if current != 1 {
		t.Errorf("want exactly one current item, got %d", current)
	}
}

func renderPagination(p usecases.Pagination) string {
	parts := make([]string, 0, len(p.Items))
	for _, it := range p.Items {
		switch {
		case it.Gap:
			parts = append(parts, "…")
		case it.Current:
			parts = append(parts, "["+itoa(it.Number)+"]")
		default:
			parts = append(parts, itoa(it.Number))
		}
	}
	return strings.Join(parts, " ")
}

func waitForCalls(t *testing.T, f *fakeSource, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for len(f.callsFor("articles")) < n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d calls", n)
		}
		time.Sleep(time.Millisecond)
	}
}
