package handler

import (
	"strconv"
	"time"

	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetStats returns headline counts and stock valuation
// GET /api/v1/dashboard/stats
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.GetStats()
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(stats)
}

// GetStockFlow returns daily inbound/outbound quantities
// GET /api/v1/dashboard/stock-flow?days=7
func (h *DashboardHandler) GetStockFlow(c *fiber.Ctx) error {
	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 90 {
			return c.Status(400).JSON(fiber.Map{"error": "days must be between 1 and 90"})
		}
		days = parsed
	}

	flow, err := h.dashboardService.GetStockFlow(days)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"days": days, "flow": flow})
}

// GetSalesSummary returns invoice count and sales totals for a date range
// GET /api/v1/dashboard/sales?start=2026-08-01&end=2026-08-31
func (h *DashboardHandler) GetSalesSummary(c *fiber.Ctx) error {
	end := time.Now()
	start := end.AddDate(0, 0, -7)

	if raw := c.Query("start"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "start must be YYYY-MM-DD"})
		}
		start = parsed
	}
	if raw := c.Query("end"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "end must be YYYY-MM-DD"})
		}
		// Inclusive end of day.
		end = parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	summary, err := h.dashboardService.GetSalesSummary(start, end)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(summary)
}
