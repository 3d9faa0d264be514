package usecases

import (
	"context"
	"strings"
	"sync"

	"bytethoughts/internal/domain"
	"bytethoughts/internal/metrics"
	"bytethoughts/pkg/log"
)

const (
	// PageSize is the number of articles requested per listing page.
	PageSize = 10

	// DefaultEstimatedTotal stands in for the article count the API does not
	// expose. With PageSize it yields 100 pages.
	DefaultEstimatedTotal = 1000
)

// ListingState is what the listing page renders.
type ListingState struct {
	Articles    []domain.Article
	Loading     bool
	SearchQuery string
	CurrentPage int
	TotalPages  int

	// Err is set when the upstream fetch failed. Articles is empty then.
	Err error
	// Generation identifies the Reload that produced this state.
	Generation uint64
}

// Failed reports whether the last reload could not reach the source.
func (s ListingState) Failed() bool {
	return s.Err != nil
}

// Searching reports whether a search term is active.
func (s ListingState) Searching() bool {
	return s.SearchQuery != ""
}

// GetListing derives listing states from the page and search parameters.
// It holds no per-visitor state and is shared by all requests.
type GetListing struct {
	source         ListingSource
	estimatedTotal int
	metrics        *metrics.Metrics
}

// NewGetListing creates the listing use case. A non-positive estimatedTotal
// selects DefaultEstimatedTotal.
func NewGetListing(source ListingSource, estimatedTotal int, m *metrics.Metrics) *GetListing {
	if estimatedTotal <= 0 {
		estimatedTotal = DefaultEstimatedTotal
	}
	return &GetListing{
		source:         source,
		estimatedTotal: estimatedTotal,
		metrics:        m,
	}
}

// TotalPages is the page count derived from the estimated total.
func (uc *GetListing) TotalPages() int {
	return TotalPages(uc.estimatedTotal, PageSize)
}

// Execute fetches upstream page `page` and, when search is non-empty, keeps
// only the articles of that page matching it. It never fails: on a fetch
// error the articles are empty and Err carries the reason.
func (uc *GetListing) Execute(ctx context.Context, page int, search string) ListingState {
	page = NormalisePage(page)
	search = strings.TrimSpace(search)

	batch := uc.source.Articles(ctx, page, PageSize)
	if search != "" {
		batch = batch.Filter(search)
		uc.metrics.ObserveSearch(len(batch.Articles))
	}
	if batch.Err != nil {
		log.GlobalWarnCtx(ctx, "listing reload failed", "page", page, "search", search, "error", batch.Err)
	}

	return ListingState{
		Articles:    batch.Articles,
		Loading:     false,
		SearchQuery: search,
		CurrentPage: page,
		TotalPages:  uc.TotalPages(),
		Err:         batch.Err,
	}
}

// NewController starts the state of one listing view.
func (uc *GetListing) NewController() *ListingController {
	return NewListingController(uc)
}

// ListingController owns the state of a single listing view and re-derives
// it on every Reload. The web handler builds one per request, so reloads of
// different visitors never meet here.
//
// Reloads of the same view may overlap. Each one is numbered when issued and
// its result is only applied if no later reload was issued in the meantime,
// so a slow, superseded fetch can never overwrite newer results.
type ListingController struct {
	listing *GetListing

	mu         sync.Mutex
	generation uint64
	state      ListingState
}

// NewListingController creates a controller in its initial loading state.
func NewListingController(listing *GetListing) *ListingController {
	return &ListingController{
		listing: listing,
		state: ListingState{
			Articles:    []domain.Article{},
			Loading:     true,
			CurrentPage: 1,
			TotalPages:  1,
		},
	}
}

// State returns a snapshot of the current state.
func (c *ListingController) State() ListingState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// TotalPages is the page count derived from the estimated total.
func (c *ListingController) TotalPages() int {
	return c.listing.TotalPages()
}

// Reload runs the listing for page and search and returns the outcome of
// this call. The outcome becomes the view's state unless a newer Reload was
// issued while it ran.
func (c *ListingController) Reload(ctx context.Context, page int, search string) ListingState {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.state.Loading = true
	c.state.CurrentPage = NormalisePage(page)
	c.state.SearchQuery = strings.TrimSpace(search)
	c.mu.Unlock()

	next := c.listing.Execute(ctx, page, search)
	next.Generation = gen

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		c.listing.metrics.StaleResponse()
		log.GlobalDebugCtx(ctx, "discarding superseded listing result",
			"generation", gen, "latest", c.generation)
		return next
	}
	c.state = next
	return next
}

// NormalisePage maps any page below 1 to 1.
func NormalisePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// TotalPages is ceil(total/perPage), never less than 1.
func TotalPages(total, perPage int) int {
	if perPage < 1 || total <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}
