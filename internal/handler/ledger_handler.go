package handler

import (
	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type LedgerHandler struct {
	ledgerService service.LedgerService
}

func NewLedgerHandler(ledgerService service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// RecordMovement appends a ledger entry and updates the cached balance
// POST /api/v1/movements
func (h *LedgerHandler) RecordMovement(c *fiber.Ctx) error {
	var input service.MovementInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	movement, err := h.ledgerService.RecordMovement(&input, getActor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(movement)
}

// ListMovements lists ledger entries, newest first, optionally per product
// GET /api/v1/movements?product_id=
func (h *LedgerHandler) ListMovements(c *fiber.Ctx) error {
	var productID *uuid.UUID
	if raw := c.Query("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid product_id"})
		}
		productID = &id
	}

	movements, err := h.ledgerService.History(productID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"movements": movements, "count": len(movements)})
}

// GetMovement retrieves a single ledger entry
// GET /api/v1/movements/:id
func (h *LedgerHandler) GetMovement(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid movement ID"})
	}

	movement, err := h.ledgerService.GetMovement(id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(movement)
}

// ReverseMovement appends a compensating entry for an existing movement
// POST /api/v1/movements/:id/reverse
func (h *LedgerHandler) ReverseMovement(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid movement ID"})
	}

	reversal, err := h.ledgerService.ReverseMovement(id, getActor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(reversal)
}

// DeleteMovement removes a ledger entry and rolls its effect out of the
// cached balance
// DELETE /api/v1/movements/:id
func (h *LedgerHandler) DeleteMovement(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid movement ID"})
	}

	if err := h.ledgerService.DeleteMovement(id, getActor(c)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Movement deleted successfully"})
}

// GetBalance reports a product's cached stock balance
// GET /api/v1/products/:id/balance
func (h *LedgerHandler) GetBalance(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	balance, err := h.ledgerService.CurrentBalance(id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"product_id": id, "balance": balance})
}

// Reconcile recomputes a product's ledger sum and compares it with the
// cached balance; it never mutates anything
// GET /api/v1/products/:id/reconcile
func (h *LedgerHandler) Reconcile(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.ledgerService.Reconcile(id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"product_id": id, "status": "consistent"})
}
