package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/DLXHub/API/internal/response"
	"github.com/DLXHub/API/internal/services/people"
)

type PersonHandler struct {
	svc *people.Service
}

func NewPersonHandler(svc *people.Service) *PersonHandler {
	return &PersonHandler{svc: svc}
}

func (h *PersonHandler) List(c *fiber.Ctx) error {
	list, err := h.svc.List(c.UserContext(), people.ListInput{
		PageNumber: c.QueryInt("page", 1),
		PageSize:   c.QueryInt("page_size", 20),
		SearchTerm: c.Query("search"),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(list))
}

func (h *PersonHandler) Get(c *fiber.Ctx) error {
	person, err := h.svc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(person))
}

func (h *PersonHandler) GetByTmdbID(c *fiber.Ctx) error {
	tmdbID, err := c.ParamsInt("tmdbId")
	if err != nil {
		return badRequest(c, "Invalid TMDB id")
	}

	person, err := h.svc.GetByTmdbID(c.UserContext(), tmdbID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(person))
}

func (h *PersonHandler) Credits(c *fiber.Ctx) error {
	credits, err := h.svc.GetCombinedCredits(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(credits))
}
