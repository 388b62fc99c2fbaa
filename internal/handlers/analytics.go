package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/DLXHub/API/internal/response"
	"github.com/DLXHub/API/internal/services/analytics"
)

type AnalyticsHandler struct {
	svc *analytics.Service
}

func NewAnalyticsHandler(svc *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func (h *AnalyticsHandler) RecordPageView(c *fiber.Ctx) error {
	var input analytics.PageViewInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if input.IPAddress == nil {
		ip := c.IP()
		input.IPAddress = &ip
	}
	if input.UserAgent == nil {
		ua := c.Get("User-Agent")
		input.UserAgent = &ua
	}

	view, err := h.svc.RecordPageView(c.UserContext(), input)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(response.Ok(view))
}

func (h *AnalyticsHandler) RecordMetric(c *fiber.Ctx) error {
	var input analytics.MetricInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	metric, err := h.svc.RecordMetric(c.UserContext(), input)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(response.Ok(metric))
}

// since parses the ?days=N window, defaulting to the last 7 days.
func since(c *fiber.Ctx) time.Time {
	days := c.QueryInt("days", 7)
	if days < 1 || days > 365 {
		days = 7
	}
	return time.Now().UTC().AddDate(0, 0, -days)
}

func (h *AnalyticsHandler) TopPages(c *fiber.Ctx) error {
	rows, err := h.svc.TopPages(c.UserContext(), since(c), c.QueryInt("limit", 10))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(rows))
}

func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.svc.Summary(c.UserContext(), since(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(summary))
}

func (h *AnalyticsHandler) Vitals(c *fiber.Ctx) error {
	rows, err := h.svc.Vitals(c.UserContext(), since(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(rows))
}
