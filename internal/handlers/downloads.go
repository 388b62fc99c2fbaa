package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/DLXHub/API/internal/middleware"
	"github.com/DLXHub/API/internal/response"
	"github.com/DLXHub/API/internal/services/downloads"
)

type DownloadHandler struct {
	svc *downloads.Service
}

func NewDownloadHandler(svc *downloads.Service) *DownloadHandler {
	return &DownloadHandler{svc: svc}
}

func (h *DownloadHandler) Create(c *fiber.Ctx) error {
	var input downloads.Input
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	download, err := h.svc.Create(c.UserContext(), input, middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(response.Ok(download))
}

func (h *DownloadHandler) Get(c *fiber.Ctx) error {
	download, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(download))
}

func (h *DownloadHandler) ForEpisode(c *fiber.Ctx) error {
	downloadList, err := h.svc.ForEpisode(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(downloadList))
}

func (h *DownloadHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("id"), middleware.UserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(response.OkMessage[any](nil, "Download deleted"))
}
