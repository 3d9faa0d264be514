package web_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"bytethoughts/internal/adapters/devto"
	"bytethoughts/internal/adapters/web"
	"bytethoughts/internal/metrics"
	"bytethoughts/internal/usecases"
	"bytethoughts/test/fixtures"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// devtoStub mimics the dev.to endpoints the front-end uses.
func devtoStub(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/articles":
			q := r.URL.Query()
			perPage, _ := strconv.Atoi(q.Get("per_page"))
			page, _ := strconv.Atoi(q.Get("page"))
			if page < 1 {
				page = 1
			}
			if q.Get("top") != "" {
				_, _ = io.WriteString(w, fixtures.GeneratedPage(900, perPage))
				return
			}
			_, _ = io.WriteString(w, fixtures.GeneratedPage((page-1)*perPage+1, perPage))
		case "/api/articles/101":
			_, _ = io.WriteString(w, fixtures.SingleArticleJSON())
		case "/api/articles/500":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

type testApp struct {
	*fiber.App
}

func newTestApp(t *testing.T, baseURL string, limiter func(m *metrics.Metrics) *web.RateLimiter) testApp {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	client := devto.NewClient(devto.Options{BaseURL: baseURL, Timeout: 2 * time.Second, Metrics: m})
	handlers := web.NewHandlers(
		usecases.NewGetHome(client, usecases.HomeCounts{}),
		usecases.NewGetListing(client, 0, m),
		usecases.NewGetArticle(client),
	)

	opts := web.AppOptions{AppName: "test", Routes: web.RouteOptions{Gatherer: reg}}
	if limiter != nil {
		opts.RateLimiter = limiter(m)
		t.Cleanup(opts.RateLimiter.Stop)
	}
	return testApp{App: web.NewApp(handlers, opts)}
}

func get(t *testing.T, app *fiber.App, target string, header map[string]string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHome_RendersAllSections(t *testing.T) {
	// Arrange
	app := newTestApp(t, devtoStub(t).URL+"/api", nil)

	// Act
	resp, body := get(t, app.App, "/", nil)

	// Assert
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, "Welcome to ByteThoughts")
	assert.Contains(t, body, "Trending Now")
	assert.Contains(t, body, "Latest Posts")
	assert.Contains(t, body, "data-carousel")
}

func TestBlog_FullPageWithSearchAndPage(t *testing.T) {
	// Arrange
	app := newTestApp(t, devtoStub(t).URL+"/api", nil)

	// Act
	resp, body := get(t, app.App, "/blog?page=2&search=react", nil)

	// Assert
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<!doctype html>")
	assert.Contains(t, body, "All Blog Posts")
	assert.Contains(t, body, `id="listing-results"`)
	for _, id := range []int{11, 14, 17, 20} {
		assert.Contains(t, body, ">Article "+strconv.Itoa(id)+"<")
	}
	for _, id := range []int{12, 13, 15, 16, 18, 19} {
		assert.NotContains(t, body, ">Article "+strconv.Itoa(id)+"<")
	}
	assert.Contains(t, body, "Found 4 articles for")
	assert.Contains(t, body, `href="/blog?page=3&amp;search=react"`, "next link keeps the search term")
}

func TestBlog_HTMXRequestGetsPartialAndPushURL(t *testing.T) {
	app := newTestApp(t, devtoStub(t).URL+"/api", nil)

	resp, body := get(t, app.App, "/blog?page=2&search=%20react%20", map[string]string{"HX-Request": "true"})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/blog?page=2&search=react", resp.Header.Get("HX-Push-Url"))
	assert.NotContains(t, body, "<!doctype html>")
	assert.NotContains(t, body, "All Blog Posts")
	assert.Contains(t, body, ">Article 11<")
}

func TestBlog_HTMXSearchResultsCarryClearLink(t *testing.T) {
	app := newTestApp(t, devtoStub(t).URL+"/api", nil)

	_, body := get(t, app.App, "/blog?search=react", map[string]string{"HX-Request": "true"})

	assert.Contains(t, body, "Found 4 articles for")
	assert.Contains(t, body, `href="/blog" class="button button--ghost" data-clear-search>Clear</a>`)
}

func TestBlog_PageBeyondTotalStaysVisibleInPagination(t *testing.T) {
	app := newTestApp(t, devtoStub(t).URL+"/api", nil)

	_, body := get(t, app.App, "/blog?page=500", nil)

	assert.Contains(t, body, `aria-current="page">500<`)
	assert.Contains(t, body, `href="/blog?page=100" class="pagination__step"`)
}

// gatedDevtoStub serves listing pages like devtoStub, except that page
// slowPage blocks until release is called. reached is closed once the slow
// request arrived.
func gatedDevtoStub(t *testing.T, slowPage int) (srv *httptest.Server, reached <-chan struct{}, release func()) {
	t.Helper()
	arrived := make(chan struct{})
	gate := make(chan struct{})
	var arrivedOnce, releaseOnce sync.Once
	release = func() { releaseOnce.Do(func() { close(gate) }) }

	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		perPage, _ := strconv.Atoi(q.Get("per_page"))
		page, _ := strconv.Atoi(q.Get("page"))
		if page == slowPage {
			arrivedOnce.Do(func() { close(arrived) })
			<-gate
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, fixtures.GeneratedPage((page-1)*perPage+1, perPage))
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(release)
	return srv, arrived, release
}

func TestBlog_ConcurrentVisitorsDoNotSupersedeEachOther(t *testing.T) {
	// Arrange
	srv, reached, release := gatedDevtoStub(t, 2)
	app := newTestApp(t, srv.URL+"/api", nil)

	// Act: one visitor's page 2 is still loading when another visitor's
	// page 3 completes.
	type result struct {
		status int
		body   string
	}
	slow := make(chan result, 1)
	go func() {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/blog?page=2", nil), 5000)
		if err != nil {
			slow <- result{}
			return
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		slow <- result{status: resp.StatusCode, body: string(body)}
	}()
	select {
	case <-reached:
	case <-time.After(2 * time.Second):
		t.Fatal("slow request never reached the upstream")
	}

	fastResp, fastBody := get(t, app.App, "/blog?page=3", nil)
	release()
	first := <-slow

	// Assert: both visitors get their own page.
	assert.Equal(t, http.StatusOK, fastResp.StatusCode)
	assert.Contains(t, fastBody, ">Article 21<")
	assert.Contains(t, fastBody, `aria-current="page">3<`)
	assert.Equal(t, http.StatusOK, first.status)
	assert.Contains(t, first.body, ">Article 11<")
	assert.Contains(t, first.body, `aria-current="page">2<`)

	_, metricsBody := get(t, app.App, "/metrics", nil)
	assert.Contains(t, metricsBody, "bytethoughts_listing_stale_responses_total 0")
}

func TestNewApp_CopiesRequestValues(t *testing.T) {
	app := newTestApp(t, devtoStub(t).URL+"/api", nil)

	assert.True(t, app.Config().Immutable, "handlers keep query values past the request")
}

func TestBlog_InvalidPageFallsBackToFirst(t *testing.T) {
	app := newTestApp(t, devtoStub(t).URL+"/api", nil)

	_, body := get(t, app.App, "/blog?page=nope", nil)

	assert.Contains(t, body, ">Article 1<")
	assert.Contains(t, body, `aria-current="page">1<`)
}

func TestBlog_NoMatchesShowsClearSearch(t *testing.T) {
	app := newTestApp(t, devtoStub(t).URL+"/api", nil)

	resp, body := get(t, app.App, "/blog?search=haskell", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "No articles found")
	assert.Contains(t, body, "Clear search and view all articles")
}

func TestBlog_UpstreamDownShowsUnavailableNotEmpty(t *testing.T) {
	srv := devtoStub(t)
	app := newTestApp(t, srv.URL+"/api", nil)
	srv.Close()

	resp, body := get(t, app.App, "/blog", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Articles are unavailable")
	assert.NotContains(t, body, "No articles available at the moment")
}

func TestArticle_Found(t *testing.T) {
	app := newTestApp(t, devtoStub(t).URL+"/api", nil)

	resp, body := get(t, app.App, "/blog/101", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<title>Understanding React Server Components | ByteThoughts</title>")
	assert.Contains(t, body, `property="og:image" content="https://media.dev.to/cover-101.png"`)
	assert.Contains(t, body, "<h2>Why</h2>")
	assert.Contains(t, body, "View on Dev.to")
	assert.Contains(t, body, "https://github.com/adalovelace")
}

func TestArticle_NotFound(t *testing.T) {
	app := newTestApp(t, devtoStub(t).URL+"/api", nil)

	for _, path := range []string{"/blog/999", "/blog/abc", "/blog/0"} {
		t.Run(path, func(t *testing.T) {
			resp, body := get(t, app.App, path, nil)

			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.Contains(t, body, "Article Not Found")
		})
	}
}

func TestArticle_UpstreamErrorIsNotNotFound(t *testing.T) {
	app := newTestApp(t, devtoStub(t).URL+"/api", nil)

	resp, body := get(t, app.App, "/blog/500", nil)

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.NotContains(t, body, "Article Not Found")
	assert.Contains(t, body, "Please try again")
}

func TestUnknownRoute_RendersNotFound(t *testing.T) {
	app := newTestApp(t, devtoStub(t).URL+"/api", nil)

	resp, _ := get(t, app.App, "/nope", nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t, devtoStub(t).URL+"/api", nil)
	get(t, app.App, "/blog?search=go", nil)

	resp, body := get(t, app.App, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)

	resp, body = get(t, app.App, "/metrics", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "bytethoughts_upstream_requests_total")
	assert.Contains(t, body, "bytethoughts_listing_searches_total 1")
}

func TestRateLimiter_Returns429(t *testing.T) {
	app := newTestApp(t, devtoStub(t).URL+"/api", func(m *metrics.Metrics) *web.RateLimiter {
		return web.NewRateLimiter(1, 2, m)
	})

	first, _ := get(t, app.App, "/healthz", nil)
	second, _ := get(t, app.App, "/healthz", nil)
	third, body := get(t, app.App, "/healthz", nil)

	assert.Equal(t, http.StatusOK, first.StatusCode)
	assert.Equal(t, http.StatusOK, second.StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, third.StatusCode)
	assert.Equal(t, "60", third.Header.Get("Retry-After"))
	assert.True(t, strings.Contains(body, "Too many requests"), body)
}

func TestRateLimiter_BucketsArePerIP(t *testing.T) {
	rl := web.NewRateLimiter(1, 1, nil)
	t.Cleanup(rl.Stop)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "buckets are per IP")
}
