// Package devto reads articles from the dev.to (Forem) REST API.
//
// List operations never fail: any transport, status or decoding error is
// logged and returned as an empty domain.Batch whose Err records the reason.
// Each operation is exactly one GET with no retry.
package devto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bytethoughts/internal/domain"
	"bytethoughts/internal/metrics"
	"bytethoughts/pkg/log"

	"github.com/sony/gobreaker"
)

const (
	// DefaultBaseURL is the public Forem API root.
	DefaultBaseURL = "https://dev.to/api"

	// CountSampleSize is the page size used to estimate the article count.
	CountSampleSize = 1000
	// DefaultCount is the estimate used when the count request fails.
	DefaultCount = 1000

	acceptHeader = "application/vnd.forem.api-v1+json"
	maxBodyBytes = 16 << 20
)

// Upstream ranking selectors for the top parameter.
const (
	topRanking      = "1"
	trendingRanking = "3"
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL   string
	APIKey    string
	UserAgent string
	Timeout   time.Duration

	// Breaker enables the circuit breaker when non-nil.
	Breaker *BreakerConfig
	Metrics *metrics.Metrics

	// HTTPClient overrides the transport; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client is safe for concurrent use.
type Client struct {
	baseURL   string
	apiKey    string
	userAgent string
	http      *http.Client
	breaker   *gobreaker.CircuitBreaker
	metrics   *metrics.Metrics
}

// NewClient builds a client from opts.
func NewClient(opts Options) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		apiKey:    opts.APIKey,
		userAgent: opts.UserAgent,
		http:      opts.HTTPClient,
		metrics:   opts.Metrics,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.userAgent == "" {
		c.userAgent = "bytethoughts"
	}
	if c.http == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		c.http = &http.Client{Timeout: timeout}
	}
	if opts.Breaker != nil {
		c.breaker = newBreaker(*opts.Breaker, opts.Metrics)
	}
	return c
}

// Articles fetches one page of recent articles.
func (c *Client) Articles(ctx context.Context, page, perPage int) domain.Batch {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	return c.list(ctx, "articles", q)
}

// TopArticles fetches the n highest-ranked articles.
func (c *Client) TopArticles(ctx context.Context, n int) domain.Batch {
	q := url.Values{}
	q.Set("top", topRanking)
	q.Set("per_page", strconv.Itoa(n))
	return c.list(ctx, "top_articles", q)
}

// TrendingArticles fetches n articles from the trending ranking.
func (c *Client) TrendingArticles(ctx context.Context, n int) domain.Batch {
	q := url.Values{}
	q.Set("top", trendingRanking)
	q.Set("per_page", strconv.Itoa(n))
	return c.list(ctx, "trending_articles", q)
}

// ArticleByID fetches a single article. A 404 yields domain.ErrArticleNotFound;
// other failures are returned as the typed errors of package domain.
func (c *Client) ArticleByID(ctx context.Context, id int64) (*domain.Article, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidArticleID
	}

	var article domain.Article
	err := c.get(ctx, "article", "/articles/"+strconv.FormatInt(id, 10), nil, &article)
	if err != nil {
		var se *domain.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			log.GlobalDebugCtx(ctx, "article not found upstream", "article_id", id)
			return nil, domain.ErrArticleNotFound
		}
		log.GlobalErrorCtx(ctx, "fetch article failed", "article_id", id, "error", err)
		return nil, err
	}
	return &article, nil
}

// ApproximateCount asks for a very large page and counts what comes back.
// The API caps page sizes, so this is an estimate, never an exact total.
// DefaultCount is returned when the request fails.
func (c *Client) ApproximateCount(ctx context.Context) int {
	batch := c.Articles(ctx, 1, CountSampleSize)
	if batch.Err != nil {
		return DefaultCount
	}
	return len(batch.Articles)
}

func (c *Client) list(ctx context.Context, op string, q url.Values) domain.Batch {
	var articles []domain.Article
	if err := c.get(ctx, op, "/articles", q, &articles); err != nil {
		log.GlobalErrorCtx(ctx, "fetch articles failed", "operation", op, "query", q.Encode(), "error", err)
		return domain.FailedBatch(err)
	}
	return domain.NewBatch(articles)
}

func (c *Client) get(ctx context.Context, op, path string, q url.Values, out any) error {
	start := time.Now()

	var err error
	if c.breaker != nil {
		_, err = c.breaker.Execute(func() (interface{}, error) {
			return nil, c.do(ctx, op, path, q, out)
		})
		err = translateBreakerErr(err)
	} else {
		err = c.do(ctx, op, path, q, out)
	}

	c.metrics.ObserveUpstream(op, outcome(err), time.Since(start))
	return err
}

func (c *Client) do(ctx context.Context, op, path string, q url.Values, out any) error {
	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return &domain.StatusError{StatusCode: resp.StatusCode, Operation: op}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrMalformedResponse, err)
	}
	return nil
}

func outcome(err error) string {
	var se *domain.StatusError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &se) && se.StatusCode == http.StatusNotFound:
		return "not_found"
	case errors.As(err, &se):
		return "status"
	case errors.Is(err, domain.ErrCircuitOpen):
		return "circuit_open"
	case errors.Is(err, domain.ErrMalformedResponse):
		return "malformed"
	default:
		return "unavailable"
	}
}
