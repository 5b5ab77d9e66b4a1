package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/accuro-ph/accuro-api/internal/config"
	"github.com/accuro-ph/accuro-api/internal/utils"
)

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
	Timestamp   time.Time `json:"timestamp"`
}

// HealthCheck returns a handler that reports application health information.
func HealthCheck(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(HealthResponse{
			Status:      "ok",
			Message:     "Server is running",
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			Timestamp:   time.Now().UTC(),
		})
	}
}

// NotFound answers every request that matched no route.
func NotFound(c *fiber.Ctx) error {
	return utils.SendError(c, fiber.StatusNotFound, "Route not found")
}
