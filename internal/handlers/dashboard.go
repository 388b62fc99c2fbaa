package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/DLXHub/API/internal/models"
	"github.com/DLXHub/API/internal/response"
	"github.com/DLXHub/API/internal/services/monitor"
)

type DashboardHandler struct {
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

// Stats returns entity counts for the admin dashboard.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	counts := fiber.Map{}
	for name, model := range map[string]any{
		"pages":       &models.Page{},
		"movies":      &models.Movie{},
		"tv_shows":    &models.TvShow{},
		"people":      &models.Person{},
		"collections": &models.Collection{},
		"users":       &models.User{},
		"jobs":        &models.Job{},
	} {
		var count int64
		if err := h.db.WithContext(c.UserContext()).Model(model).
			Scopes(models.NotDeleted).Count(&count).Error; err != nil {
			return fail(c, err)
		}
		counts[name] = count
	}
	return c.JSON(response.Ok(counts))
}

// System returns host resource usage.
func (h *DashboardHandler) System(c *fiber.Ctx) error {
	stats, err := monitor.GetSystemStats()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(stats))
}
