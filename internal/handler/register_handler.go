package handler

import (
	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type RegisterHandler struct {
	registerService service.RegisterService
}

func NewRegisterHandler(registerService service.RegisterService) *RegisterHandler {
	return &RegisterHandler{registerService: registerService}
}

type OpenSessionRequest struct {
	OpeningFloat decimal.Decimal `json:"opening_float"`
	Note         string          `json:"note"`
}

type CloseSessionRequest struct {
	CountedCash decimal.Decimal `json:"counted_cash"`
	Note        string          `json:"note"`
}

// OpenSession opens a cash drawer session for the calling cashier
// POST /api/v1/register/open
func (h *RegisterHandler) OpenSession(c *fiber.Ctx) error {
	var req OpenSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	session, err := h.registerService.Open(getActor(c), req.OpeningFloat, req.Note)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(session)
}

// CloseSession closes the cashier's open session and settles the drawer
// POST /api/v1/register/close
func (h *RegisterHandler) CloseSession(c *fiber.Ctx) error {
	var req CloseSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	session, err := h.registerService.Close(getActor(c), req.CountedCash, req.Note)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(session)
}

// CurrentSession returns the cashier's open session, if any
// GET /api/v1/register/current
func (h *RegisterHandler) CurrentSession(c *fiber.Ctx) error {
	session, err := h.registerService.Current(getActor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(session)
}

// ListSessions lists all drawer sessions
// GET /api/v1/register/sessions
func (h *RegisterHandler) ListSessions(c *fiber.Ctx) error {
	sessions, err := h.registerService.ListSessions()
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"sessions": sessions, "count": len(sessions)})
}
