package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/DLXHub/API/internal/models"
	"github.com/DLXHub/API/internal/response"
	"github.com/DLXHub/API/internal/services/downloads"
	"github.com/DLXHub/API/internal/services/genres"
	"github.com/DLXHub/API/internal/services/movies"
)

type MovieHandler struct {
	svc       *movies.Service
	genres    *genres.Service
	downloads *downloads.Service
}

func NewMovieHandler(svc *movies.Service, g *genres.Service, d *downloads.Service) *MovieHandler {
	return &MovieHandler{svc: svc, genres: g, downloads: d}
}

func (h *MovieHandler) List(c *fiber.Ctx) error {
	list, err := h.svc.List(c.UserContext(), movies.ListInput{
		PageNumber: c.QueryInt("page", 1),
		PageSize:   c.QueryInt("page_size", 20),
		SearchTerm: c.Query("search"),
		GenreID:    c.Query("genre_id"),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(list))
}

func (h *MovieHandler) Get(c *fiber.Ctx) error {
	movie, err := h.svc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(movie))
}

func (h *MovieHandler) GetBySlug(c *fiber.Ctx) error {
	movie, err := h.svc.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(movie))
}

func (h *MovieHandler) GetByTmdbID(c *fiber.Ctx) error {
	tmdbID, err := c.ParamsInt("tmdbId")
	if err != nil {
		return badRequest(c, "Invalid TMDB id")
	}

	movie, err := h.svc.GetByTmdbID(c.UserContext(), tmdbID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(movie))
}

func (h *MovieHandler) Import(c *fiber.Ctx) error {
	var input movies.ImportInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	movie, err := h.svc.Import(c.UserContext(), input)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(response.Ok(movie))
}

func (h *MovieHandler) Genres(c *fiber.Ctx) error {
	if _, err := h.svc.GetByID(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	genreList, err := h.genres.ForMedia(c.UserContext(), c.Params("id"), models.MediaTypeMovie)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(genreList))
}

func (h *MovieHandler) Downloads(c *fiber.Ctx) error {
	if _, err := h.svc.GetByID(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	downloadList, err := h.downloads.ForMovie(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(downloadList))
}
