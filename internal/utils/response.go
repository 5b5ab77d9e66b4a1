package utils

import (
	"github.com/gofiber/fiber/v2"

	"github.com/accuro-ph/accuro-api/internal/validation"
)

// APIResponse describes the common structure for API responses.
type APIResponse struct {
	Success bool                    `json:"success"`
	Data    interface{}             `json:"data,omitempty"`
	Count   *int                    `json:"count,omitempty"`
	Message string                  `json:"message,omitempty"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

// SendSuccess sends a successful JSON response. An empty message is omitted.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	return SendSuccessWithStatus(c, fiber.StatusOK, message, data)
}

// SendSuccessWithStatus sends a success payload using the provided HTTP status code.
func SendSuccessWithStatus(c *fiber.Ctx, status int, message string, data interface{}) error {
	if status == 0 {
		status = fiber.StatusOK
	}

	return c.Status(status).JSON(APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// SendList sends a collection together with its size.
func SendList[T any](c *fiber.Ctx, items []T) error {
	if items == nil {
		items = []T{}
	}
	count := len(items)

	return c.Status(fiber.StatusOK).JSON(APIResponse{
		Success: true,
		Data:    items,
		Count:   &count,
	})
}

// SendError sends an error JSON response with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(APIResponse{
		Success: false,
		Message: message,
	})
}

// SendValidationError reports every rejected field with a 400 status.
func SendValidationError(c *fiber.Ctx, fields []validation.FieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(APIResponse{
		Success: false,
		Message: "Validation failed",
		Errors:  fields,
	})
}
