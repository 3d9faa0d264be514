package web

import (
	"context"
	"errors"
	"time"

	"bytethoughts/internal/domain"
	"bytethoughts/internal/usecases"
	"bytethoughts/pkg/log"
	"bytethoughts/templates/components"
	"bytethoughts/templates/pages"
	"bytethoughts/templates/partials"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// DefaultRequestTimeout bounds the upstream work of one page.
const DefaultRequestTimeout = 15 * time.Second

// Handlers contains the HTTP handlers for the web application.
type Handlers struct {
	home    *usecases.GetHome
	listing *usecases.GetListing
	article *usecases.GetArticle
	timeout time.Duration
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(home *usecases.GetHome, listing *usecases.GetListing, article *usecases.GetArticle) *Handlers {
	return &Handlers{
		home:    home,
		listing: listing,
		article: article,
		timeout: DefaultRequestTimeout,
	}
}

// render is a helper to render templ components.
func render(c *fiber.Ctx, component templ.Component) error {
	c.Set("Content-Type", "text/html; charset=utf-8")
	status := c.Response().StatusCode()
	return adaptor.HTTPHandler(templ.Handler(component, templ.WithStatus(status)))(c)
}

// Home renders the landing page.
func (h *Handlers) Home(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	return render(c, pages.Home(h.home.Execute(ctx)))
}

// Blog renders the listing. HTMX requests get only the results partial and
// an HX-Push-Url with the canonical location of the query.
//
// Every request gets its own listing view. Overlapping requests of one
// browser tab are ordered by hx-sync on the client.
func (h *Handlers) Blog(c *fiber.Ctx) error {
	q := ParseListingQuery(c.Query("page"), c.Query("search"))

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	state := h.listing.NewController().Reload(ctx, q.Page, q.Search)
	view := listingView(state)

	if c.Get("HX-Request") == "true" {
		c.Set("HX-Push-Url", q.URL())
		return render(c, partials.ListingResults(view))
	}
	return render(c, pages.Blog(view))
}

func listingView(s usecases.ListingState) components.ListingView {
	search := s.SearchQuery
	return components.ListingView{
		State:          s,
		Pagination:     usecases.BuildPagination(s.CurrentPage, s.TotalPages),
		PageURL:        func(page int) string { return PageURL(page, search) },
		ClearSearchURL: ClearSearchURL(),
	}
}

// Article renders the detail page, the not-found page for unknown or
// malformed ids, and the error page for any other failure.
func (h *Handlers) Article(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	view, err := h.article.Execute(ctx, c.Params("id"))
	switch {
	case err == nil:
		return render(c, pages.Article(view))
	case errors.Is(err, domain.ErrArticleNotFound), errors.Is(err, domain.ErrInvalidArticleID):
		log.GlobalInfoCtx(ctx, "article not found", "id", c.Params("id"))
		c.Status(fiber.StatusNotFound)
		return render(c, pages.NotFound())
	default:
		return h.renderError(c, err)
	}
}

// Health reports liveness.
func (h *Handlers) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// NotFound is the fallback for unknown routes.
func (h *Handlers) NotFound(c *fiber.Ctx) error {
	c.Status(fiber.StatusNotFound)
	return render(c, pages.NotFound())
}

// renderError renders a full-page error.
func (h *Handlers) renderError(c *fiber.Ctx, err error) error {
	c.Status(statusFor(err))
	return render(c, pages.Error(friendlyError(err)))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		return fiber.StatusTooManyRequests
	case errors.Is(err, domain.ErrCircuitOpen):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusBadGateway
	}
}

// friendlyError returns a neutral, non-blaming error message.
func friendlyError(err error) string {
	switch {
	case errors.Is(err, domain.ErrArticleNotFound), errors.Is(err, domain.ErrInvalidArticleID):
		return "This article couldn't be found. It might have been removed."
	case errors.Is(err, domain.ErrRateLimited):
		return "Too many requests. Please wait a moment and try again."
	case errors.Is(err, domain.ErrCircuitOpen):
		return "Articles are temporarily unavailable. Please try again in a minute."
	case errors.Is(err, domain.ErrMalformedResponse):
		return "This article couldn't be displayed right now. Please try again later."
	default:
		return "Unable to load this page right now. Please try again in a moment."
	}
}
