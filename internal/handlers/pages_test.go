package handlers

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DLXHub/API/internal/cache"
	"github.com/DLXHub/API/internal/config"
	"github.com/DLXHub/API/internal/database"
	"github.com/DLXHub/API/internal/middleware"
	"github.com/DLXHub/API/internal/models"
	"github.com/DLXHub/API/internal/services/pages"
)

func newPageApp(t *testing.T) (*fiber.App, *pages.Service) {
	t.Helper()

	_, err := config.Load("testdata/missing.yaml")
	require.NoError(t, err)

	db, err := database.OpenInMemory()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Page{}))

	svc := pages.New(db, cache.NewMemory(), zerolog.Nop())
	h := NewPageHandler(svc)

	app := fiber.New()
	app.Get("/api/pages/slug/:slug", middleware.OptionalAuth(), h.GetBySlug)
	return app, svc
}

func TestGetBySlugServesDraftToAuthenticatedEditor(t *testing.T) {
	app, svc := newPageApp(t)

	_, err := svc.Create(context.Background(), pages.PageInput{
		Title: "Launch", Slug: "launch", LinkTarget: "launch",
	}, "editor")
	require.NoError(t, err)

	// Anonymous readers never see drafts.
	resp, err := app.Test(httptest.NewRequest("GET", "/api/pages/slug/launch", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	token, err := middleware.GenerateToken("user-1", "alice", "admin")
	require.NoError(t, err)

	// A token alone is not enough, drafts must be requested.
	req := httptest.NewRequest("GET", "/api/pages/slug/launch", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	req = httptest.NewRequest("GET", "/api/pages/slug/launch?include_drafts=true", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGetBySlugIgnoresDraftRequestWithoutToken(t *testing.T) {
	app, svc := newPageApp(t)

	_, err := svc.Create(context.Background(), pages.PageInput{
		Title: "Launch", Slug: "launch", LinkTarget: "launch",
	}, "editor")
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/pages/slug/launch?include_drafts=true", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
