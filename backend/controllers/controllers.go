package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/appdotbuilder/online-learning-platform/backend/services"
)

// serviceError maps engine failure kinds to HTTP responses. Anything
// unrecognized is treated as a database failure.
func serviceError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrAttemptLimit),
		errors.Is(err, services.ErrInvalidRole):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrAlreadySubmitted),
		errors.Is(err, services.ErrAlreadyEnrolled),
		errors.Is(err, services.ErrSlotUnavailable):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrEmptyTest):
		status = fiber.StatusUnprocessableEntity
	}

	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.Atoi(c.Params(name))
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
