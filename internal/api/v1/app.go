package v1

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"taskboard/internal/middleware"
)

type AppOptions struct {
	// CORSOrigins is a comma-separated allow list; empty disables CORS.
	CORSOrigins string
	// MetricsHandler is mounted at /metrics when set.
	MetricsHandler http.Handler
}

// NewApp builds the Fiber app with the shared middleware and all routes.
func NewApp(deps Deps, opts AppOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "taskboard",
		ErrorHandler: ErrorHandler,
	})

	app.Use(middleware.ErrorHandler(deps.Metrics))
	if opts.CORSOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
			AllowHeaders:     "Origin, X-Requested-With, Content-Type, Accept, Authorization",
			AllowCredentials: opts.CORSOrigins != "*",
		}))
	}
	if opts.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(opts.MetricsHandler))
	}

	RegisterRoutes(app, deps)
	return app
}
