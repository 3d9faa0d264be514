package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouteOptions configures SetupRoutes.
type RouteOptions struct {
	StaticDir string
	// Gatherer backs /metrics. The endpoint is not registered when nil.
	Gatherer prometheus.Gatherer
}

// SetupRoutes configures the application routes.
func SetupRoutes(app *fiber.App, handlers *Handlers, opts RouteOptions) {
	if opts.StaticDir != "" {
		app.Static("/static", opts.StaticDir)
	}

	app.Get("/healthz", handlers.Health)
	if opts.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	app.Get("/", handlers.Home)

	// Listing: /blog?page=2&search=react
	app.Get("/blog", handlers.Blog)
	app.Get("/blog/:id", handlers.Article)

	app.Use(handlers.NotFound)
}
