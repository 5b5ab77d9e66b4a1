package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/accuro-ph/accuro-api/internal/config"
	"github.com/accuro-ph/accuro-api/internal/handler"
	"github.com/accuro-ph/accuro-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ContactHandler *handler.ContactHandler
	DisableMetrics bool
}

// Register wires the HTTP routes into the fiber application. It must run
// last: every request that reaches the end of the chain receives a 404.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.ContactHandler != nil {
		deps.ContactHandler.Register(api.Group("/contacts"))
	}

	if !deps.DisableMetrics {
		app.Get("/metrics", observability.MetricsHandler())
	}

	app.Use(handler.NotFound)
}
