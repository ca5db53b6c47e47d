// handlers/errors.go
package handlers

import (
	"errors"
	"log"

	"awaam-raaj-backend/services"

	"github.com/gofiber/fiber/v2"
)

// respondServiceError maps the services error taxonomy onto HTTP statuses.
// Anything untyped is a 500 with the detail kept server-side.
func respondServiceError(c *fiber.Ctx, err error) error {
	var notFound *services.NotFoundError
	if errors.As(err, &notFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFound.Error()})
	}
	var conflict *services.ConflictError
	if errors.As(err, &conflict) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": conflict.Error()})
	}
	var forbidden *services.ForbiddenError
	if errors.As(err, &forbidden) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": forbidden.Error()})
	}
	var notActive *services.NotActiveError
	if errors.As(err, &notActive) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": notActive.Error()})
	}
	var validation *services.ValidationError
	if errors.As(err, &validation) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validation.Error()})
	}

	log.Printf("Unhandled service error on %s: %v", c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
