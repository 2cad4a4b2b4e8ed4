package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ordermgmt/internal/apperrors"
)

// respondError maps domain errors onto HTTP responses. Rejected transitions
// always report the attempted action and the current state; invalid
// transitions additionally list the actions that are legal from that state.
func respondError(c *fiber.Ctx, err error) error {
	var (
		invalidTransition *apperrors.InvalidTransitionError
		alreadyInState    *apperrors.AlreadyInStateError
		invalidOperation  *apperrors.InvalidOperationError
		reference         *apperrors.ReferenceError
		notFound          *apperrors.NotFoundError
		validation        *apperrors.ValidationError
		conflict          *apperrors.ConflictError
	)

	switch {
	case errors.As(err, &invalidTransition):
		available := invalidTransition.Available
		if available == nil {
			available = []string{}
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message":           invalidTransition.Error(),
			"action":            invalidTransition.Action,
			"current_state":     invalidTransition.State,
			"available_actions": available,
		})
	case errors.As(err, &alreadyInState),
		errors.As(err, &invalidOperation),
		errors.As(err, &reference):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.As(err, &validation):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.As(err, &conflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "internal server error",
			"error":   err.Error(),
		})
	}
}

// parseID reads a positive integer path parameter.
func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidation("invalid %s parameter", name)
	}
	return uint(id), nil
}
