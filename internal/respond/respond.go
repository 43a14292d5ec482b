// Package respond writes JSON error responses for handlers.
package respond

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Error maps err to its status code. Server errors are logged and their
// details hidden from the client.
func Error(c *fiber.Ctx, err error) error {
	status := apperr.Status(err)
	message := err.Error()
	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed",
			"request_id", c.Locals("requestid"),
			"path", c.Path(),
			"method", c.Method(),
			"error", err.Error(),
		)
		message = "Internal server error"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func Unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
}

// UUIDParam parses a path parameter as a UUID.
func UUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.Validationf("Invalid %s", name)
	}
	return id, nil
}

// Body parses and validates the request body into req.
func Body(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	return dto.Validate(req)
}

// Page reads limit/offset query params, capping limit at max.
func Page(c *fiber.Ctx, defaultLimit, max int) (int, int) {
	limit := c.QueryInt("limit", defaultLimit)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > max {
		limit = max
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
