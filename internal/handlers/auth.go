package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/DLXHub/API/internal/middleware"
	"github.com/DLXHub/API/internal/response"
	"github.com/DLXHub/API/internal/services/users"
)

type AuthHandler struct {
	svc *users.Service
}

func NewAuthHandler(svc *users.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input users.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.svc.Register(c.UserContext(), input)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(response.Ok(user))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input users.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	token, user, err := h.svc.Login(c.UserContext(), input)
	if errors.Is(err, users.ErrTwoFactorRequired) {
		return c.Status(fiber.StatusUnauthorized).JSON(response.Error("Two-factor code required"))
	}
	if errors.Is(err, users.ErrInvalidCredentials) {
		return c.Status(fiber.StatusUnauthorized).JSON(response.Error("Invalid credentials"))
	}
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(response.Ok(fiber.Map{
		"token": token,
		"user":  user,
	}))
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	user, err := h.svc.Get(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(user))
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var input users.UpdateInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.svc.Update(c.UserContext(), middleware.UserID(c), input)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(user))
}

func (h *AuthHandler) SetupTwoFactor(c *fiber.Ctx) error {
	url, err := h.svc.SetupTwoFactor(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(fiber.Map{"otpauth_url": url}))
}

func (h *AuthHandler) ConfirmTwoFactor(c *fiber.Ctx) error {
	var input struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.svc.ConfirmTwoFactor(c.UserContext(), middleware.UserID(c), input.Code); err != nil {
		return fail(c, err)
	}
	return c.JSON(response.OkMessage[any](nil, "Two-factor auth enabled"))
}

func (h *AuthHandler) DisableTwoFactor(c *fiber.Ctx) error {
	var input struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.svc.DisableTwoFactor(c.UserContext(), middleware.UserID(c), input.Code); err != nil {
		return fail(c, err)
	}
	return c.JSON(response.OkMessage[any](nil, "Two-factor auth disabled"))
}

func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	userList, err := h.svc.List(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(userList))
}

func (h *AuthHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("id"), middleware.UserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(response.OkMessage[any](nil, "User deleted"))
}
