package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/DLXHub/API/internal/response"
	"github.com/DLXHub/API/internal/services/tvshows"
)

type TvShowHandler struct {
	svc *tvshows.Service
}

func NewTvShowHandler(svc *tvshows.Service) *TvShowHandler {
	return &TvShowHandler{svc: svc}
}

func (h *TvShowHandler) List(c *fiber.Ctx) error {
	list, err := h.svc.List(c.UserContext(), tvshows.ListInput{
		PageNumber: c.QueryInt("page", 1),
		PageSize:   c.QueryInt("page_size", 20),
		SearchTerm: c.Query("search"),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(list))
}

func (h *TvShowHandler) Get(c *fiber.Ctx) error {
	show, err := h.svc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(show))
}

func (h *TvShowHandler) GetBySlug(c *fiber.Ctx) error {
	show, err := h.svc.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(show))
}

func (h *TvShowHandler) GetByTmdbID(c *fiber.Ctx) error {
	tmdbID, err := c.ParamsInt("tmdbId")
	if err != nil {
		return badRequest(c, "Invalid TMDB id")
	}

	show, err := h.svc.GetByTmdbID(c.UserContext(), tmdbID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(show))
}

func (h *TvShowHandler) Seasons(c *fiber.Ctx) error {
	seasons, err := h.svc.GetSeasons(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(seasons))
}

func (h *TvShowHandler) SeasonEpisodes(c *fiber.Ctx) error {
	seasonNumber, err := c.ParamsInt("number")
	if err != nil {
		return badRequest(c, "Invalid season number")
	}

	episodes, err := h.svc.GetSeasonEpisodes(c.UserContext(), c.Params("id"), seasonNumber)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(episodes))
}
