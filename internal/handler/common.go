package handler

import (
	"errors"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/service"
	"go-retail-pos/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// getActor builds the acting user from the auth middleware's context values.
func getActor(c *fiber.Ctx) service.Actor {
	actor := service.Actor{}
	if v, ok := c.Locals("user_id").(string); ok {
		if id, err := uuid.Parse(v); err == nil {
			actor.ID = id
		}
	}
	if v, ok := c.Locals("user_name").(string); ok {
		actor.Name = v
	}
	if v, ok := c.Locals("user_email").(string); ok {
		actor.Email = v
	}
	return actor
}

// parseID reads a :id route param as a UUID.
func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

// respondError maps service errors to HTTP responses. Domain rule violations
// return 422, missing records 404, ledger inconsistencies 500 with the
// cached/computed pair so an operator can see the drift.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, validator.ErrValidation):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, model.ErrProductNotFound),
		errors.Is(err, model.ErrMovementNotFound),
		errors.Is(err, model.ErrInvoiceNotFound),
		errors.Is(err, model.ErrNoOpenSession),
		errors.Is(err, service.ErrUserNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, model.ErrInsufficientStock),
		errors.Is(err, model.ErrInsufficientPayment),
		errors.Is(err, model.ErrStockLimitExceeded),
		errors.Is(err, model.ErrEmptyCart),
		errors.Is(err, model.ErrInvoiceNotVoidable),
		errors.Is(err, model.ErrSessionAlreadyOpen),
		errors.Is(err, service.ErrSKUExists),
		errors.Is(err, service.ErrEmailExists):
		return c.Status(422).JSON(fiber.Map{"error": err.Error()})
	}

	var consistency *model.ConsistencyError
	if errors.As(err, &consistency) {
		return c.Status(500).JSON(fiber.Map{
			"error":    consistency.Error(),
			"product":  consistency.ProductID,
			"cached":   consistency.Cached,
			"computed": consistency.Computed,
		})
	}

	logrus.WithError(err).Error("unhandled service error")
	return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
}
