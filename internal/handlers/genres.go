package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/DLXHub/API/internal/models"
	"github.com/DLXHub/API/internal/response"
	"github.com/DLXHub/API/internal/services/genres"
)

type GenreHandler struct {
	svc *genres.Service
}

func NewGenreHandler(svc *genres.Service) *GenreHandler {
	return &GenreHandler{svc: svc}
}

func (h *GenreHandler) List(c *fiber.Ctx) error {
	genreList, err := h.svc.List(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(genreList))
}

func (h *GenreHandler) Get(c *fiber.Ctx) error {
	genre, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(genre))
}

func (h *GenreHandler) Upsert(c *fiber.Ctx) error {
	var input struct {
		TmdbID int    `json:"tmdb_id"`
		Name   string `json:"name"`
	}
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	genre, err := h.svc.Upsert(c.UserContext(), input.TmdbID, input.Name)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(genre))
}

func (h *GenreHandler) Assign(c *fiber.Ctx) error {
	var input struct {
		MediaID   string `json:"media_id"`
		MediaType string `json:"media_type"`
	}
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	err := h.svc.Assign(c.UserContext(), input.MediaID, models.MediaType(input.MediaType), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.OkMessage[any](nil, "Genre assigned"))
}
