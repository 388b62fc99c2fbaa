package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/DLXHub/API/internal/middleware"
	"github.com/DLXHub/API/internal/models"
	"github.com/DLXHub/API/internal/response"
	"github.com/DLXHub/API/internal/services/pages"
)

type PageHandler struct {
	svc *pages.Service
}

func NewPageHandler(svc *pages.Service) *PageHandler {
	return &PageHandler{svc: svc}
}

func (h *PageHandler) Create(c *fiber.Ctx) error {
	var input pages.PageInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	page, err := h.svc.Create(c.UserContext(), input, middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(response.Ok(page))
}

func (h *PageHandler) Update(c *fiber.Ctx) error {
	var input pages.PageInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	page, err := h.svc.Update(c.UserContext(), c.Params("id"), input, middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(page))
}

func (h *PageHandler) Publish(c *fiber.Ctx) error {
	page, err := h.svc.Publish(c.UserContext(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.OkMessage(page, "Page published"))
}

func (h *PageHandler) Get(c *fiber.Ctx) error {
	page, err := h.svc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(page))
}

// GetBySlug serves published pages to everyone; authenticated editors can
// request drafts with ?include_drafts=true.
func (h *PageHandler) GetBySlug(c *fiber.Ctx) error {
	includeDrafts := c.QueryBool("include_drafts") && middleware.UserID(c) != ""
	page, err := h.svc.GetBySlug(c.UserContext(), c.Params("slug"), includeDrafts)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(page))
}

func (h *PageHandler) GetByLinkTarget(c *fiber.Ctx) error {
	includeDrafts := c.QueryBool("include_drafts") && middleware.UserID(c) != ""
	page, err := h.svc.GetByLinkTarget(c.UserContext(), c.Params("target"), includeDrafts)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(page))
}

func (h *PageHandler) List(c *fiber.Ctx) error {
	input := pages.ListInput{
		PageNumber:    c.QueryInt("page", 1),
		PageSize:      c.QueryInt("page_size", 10),
		SearchTerm:    c.Query("search"),
		IncludeDrafts: middleware.UserID(c) != "",
	}
	if status := c.Query("status"); status != "" {
		pageStatus := models.PageStatus(status)
		input.Status = &pageStatus
	}

	list, err := h.svc.List(c.UserContext(), input)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(list))
}

func (h *PageHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("id"), middleware.UserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(response.OkMessage[any](nil, "Page deleted"))
}
