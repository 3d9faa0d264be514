package web

import (
	"errors"

	"bytethoughts/pkg/log"
	"bytethoughts/templates/pages"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// AppOptions configures NewApp.
type AppOptions struct {
	AppName string
	Routes  RouteOptions
	// RateLimiter is optional.
	RateLimiter *RateLimiter
}

// NewApp builds the Fiber application with the middleware chain and routes.
// Query and param values outlive handlers in log fields and rendered
// components, so the app runs Immutable and never aliases fasthttp buffers.
func NewApp(handlers *Handlers, opts AppOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               opts.AppName,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
		Immutable:             true,
	})

	app.Use(recover.New())
	app.Use(requestid.New(RequestIDConfig()))
	app.Use(RequestIDToContextMiddleware())
	app.Use(RequestLoggerMiddleware())
	if opts.RateLimiter != nil {
		app.Use(opts.RateLimiter.Middleware())
	}

	SetupRoutes(app, handlers, opts.Routes)
	return app
}

// errorHandler renders errors that escaped a handler as the error page.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	log.GlobalErrorCtx(c.UserContext(), "unhandled request error", "status", code, "error", err)
	c.Status(code)
	if code == fiber.StatusNotFound {
		return render(c, pages.NotFound())
	}
	return render(c, pages.Error(friendlyError(err)))
}
