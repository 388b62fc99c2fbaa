package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/DLXHub/API/internal/middleware"
	"github.com/DLXHub/API/internal/response"
	"github.com/DLXHub/API/internal/services/collections"
)

type CollectionHandler struct {
	svc *collections.Service
}

func NewCollectionHandler(svc *collections.Service) *CollectionHandler {
	return &CollectionHandler{svc: svc}
}

func (h *CollectionHandler) Create(c *fiber.Ctx) error {
	var input collections.CreateInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	collection, err := h.svc.Create(c.UserContext(), input, middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(response.Ok(collection))
}

func (h *CollectionHandler) Get(c *fiber.Ctx) error {
	collection, err := h.svc.Get(c.UserContext(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(collection))
}

func (h *CollectionHandler) Mine(c *fiber.Ctx) error {
	list, err := h.svc.ListForUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(list))
}

func (h *CollectionHandler) AddMovie(c *fiber.Ctx) error {
	var input collections.AddMovieInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	entry, err := h.svc.AddMovie(c.UserContext(), c.Params("id"), input, middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(response.Ok(entry))
}

func (h *CollectionHandler) Movies(c *fiber.Ctx) error {
	entries, err := h.svc.ListMovies(c.UserContext(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(entries))
}
