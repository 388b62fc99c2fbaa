// Package handlers exposes the HTTP surface. Each feature gets its own
// handler type over its service; fail maps service errors onto statuses.
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/DLXHub/API/internal/apperrors"
	"github.com/DLXHub/API/internal/logging"
	"github.com/DLXHub/API/internal/response"
)

// fail translates a service error into the response envelope. Not-found maps
// to 404, validation and illegal state transitions to 400, everything else to
// a generic 500.
func fail(c *fiber.Ctx, err error) error {
	switch e := err.(type) {
	case *apperrors.NotFoundError:
		return c.Status(fiber.StatusNotFound).JSON(response.Error(e.Error()))
	case *apperrors.ValidationError:
		return c.Status(fiber.StatusBadRequest).JSON(response.Error("Validation failed", e.Messages...))
	case *apperrors.InvalidStateError:
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(e.Message))
	default:
		logger := logging.With("http")
		logger.Error().Err(err).
			Str("method", c.Method()).Str("path", c.Path()).
			Msg("unhandled error")
		return c.Status(fiber.StatusInternalServerError).JSON(response.Error("Internal server error"))
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(response.Error(message))
}
