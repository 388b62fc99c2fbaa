package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/DLXHub/API/internal/middleware"
	"github.com/DLXHub/API/internal/response"
	"github.com/DLXHub/API/internal/services/featureflags"
)

type FeatureFlagHandler struct {
	svc *featureflags.Service
}

func NewFeatureFlagHandler(svc *featureflags.Service) *FeatureFlagHandler {
	return &FeatureFlagHandler{svc: svc}
}

func (h *FeatureFlagHandler) List(c *fiber.Ctx) error {
	flags, err := h.svc.List(c.UserContext(), c.Query("category"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(flags))
}

func (h *FeatureFlagHandler) GetByKey(c *fiber.Ctx) error {
	flag, err := h.svc.GetByKey(c.UserContext(), c.Params("key"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(flag))
}

// ClientFlags is the public endpoint frontends poll for their toggles.
func (h *FeatureFlagHandler) ClientFlags(c *fiber.Ctx) error {
	flags, err := h.svc.ClientFlags(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(flags))
}

func (h *FeatureFlagHandler) Create(c *fiber.Ctx) error {
	var input featureflags.Input
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	flag, err := h.svc.Create(c.UserContext(), input, middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(response.Ok(flag))
}

func (h *FeatureFlagHandler) Update(c *fiber.Ctx) error {
	var input featureflags.Input
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	flag, err := h.svc.Update(c.UserContext(), c.Params("id"), input, middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(flag))
}

func (h *FeatureFlagHandler) Toggle(c *fiber.Ctx) error {
	flag, err := h.svc.Toggle(c.UserContext(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.OkMessage(flag, "Flag toggled"))
}

func (h *FeatureFlagHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("id"), middleware.UserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(response.OkMessage[any](nil, "Flag deleted"))
}
