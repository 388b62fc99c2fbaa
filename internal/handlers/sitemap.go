package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/DLXHub/API/internal/cache"
	"github.com/DLXHub/API/internal/response"
)

type SitemapHandler struct {
	cache cache.Cache
}

func NewSitemapHandler(c cache.Cache) *SitemapHandler {
	return &SitemapHandler{cache: c}
}

// Serve returns the sitemap generated by the background job. Until the job
// has run at least once there is nothing to serve.
func (h *SitemapHandler) Serve(c *fiber.Ctx) error {
	body, err := h.cache.Get(c.UserContext(), "sitemap")
	if errors.Is(err, cache.ErrMiss) {
		return c.Status(fiber.StatusNotFound).JSON(response.Error("Sitemap has not been generated yet"))
	}
	if err != nil {
		return fail(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/xml")
	return c.SendString(body)
}
