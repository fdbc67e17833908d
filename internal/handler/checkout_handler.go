package handler

import (
	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Quote prices a cart without committing anything
// POST /api/v1/checkout/quote
func (h *CheckoutHandler) Quote(c *fiber.Ctx) error {
	var req service.QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	summary, err := h.checkoutService.Quote(&req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(summary)
}

// Checkout finalizes a sale: invoice plus stock-out movements in one unit
// POST /api/v1/checkout
func (h *CheckoutHandler) Checkout(c *fiber.Ctx) error {
	var req service.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.checkoutService.Checkout(&req, getActor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(result)
}

// ListInvoices lists past sales, newest first
// GET /api/v1/invoices
func (h *CheckoutHandler) ListInvoices(c *fiber.Ctx) error {
	invoices, err := h.checkoutService.ListInvoices()
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"invoices": invoices, "count": len(invoices)})
}

// GetInvoice retrieves a single invoice with its frozen line items
// GET /api/v1/invoices/:id
func (h *CheckoutHandler) GetInvoice(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid invoice ID"})
	}

	invoice, err := h.checkoutService.GetInvoice(id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(invoice)
}

// VoidInvoice voids a paid invoice and restocks its items
// POST /api/v1/invoices/:id/void
func (h *CheckoutHandler) VoidInvoice(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid invoice ID"})
	}

	invoice, err := h.checkoutService.VoidInvoice(id, getActor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(invoice)
}
