package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/DLXHub/API/internal/middleware"
	"github.com/DLXHub/API/internal/response"
	"github.com/DLXHub/API/internal/services/languages"
)

type LanguageHandler struct {
	svc *languages.Service
}

func NewLanguageHandler(svc *languages.Service) *LanguageHandler {
	return &LanguageHandler{svc: svc}
}

func (h *LanguageHandler) List(c *fiber.Ctx) error {
	list, err := h.svc.List(c.UserContext(), c.QueryBool("active_only"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(list))
}

func (h *LanguageHandler) Get(c *fiber.Ctx) error {
	language, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(language))
}

func (h *LanguageHandler) Create(c *fiber.Ctx) error {
	var input languages.Input
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	language, err := h.svc.Create(c.UserContext(), input)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(response.Ok(language))
}

func (h *LanguageHandler) Update(c *fiber.Ctx) error {
	var input languages.Input
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	language, err := h.svc.Update(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(language))
}

func (h *LanguageHandler) SetDefault(c *fiber.Ctx) error {
	language, err := h.svc.SetDefault(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.OkMessage(language, "Default language updated"))
}

func (h *LanguageHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("id"), middleware.UserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(response.OkMessage[any](nil, "Language deleted"))
}
