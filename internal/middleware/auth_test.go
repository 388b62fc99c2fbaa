package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DLXHub/API/internal/config"
)

func newAuthApp(t *testing.T) *fiber.App {
	t.Helper()

	_, err := config.Load("testdata/missing.yaml")
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/optional", OptionalAuth(), func(c *fiber.Ctx) error {
		return c.SendString(UserID(c))
	})
	app.Get("/required", AuthRequired(), func(c *fiber.Ctx) error {
		return c.SendString(UserID(c))
	})
	return app
}

func body(t *testing.T, resp io.Reader) string {
	t.Helper()
	data, err := io.ReadAll(resp)
	require.NoError(t, err)
	return string(data)
}

func TestOptionalAuthPopulatesUserFromToken(t *testing.T) {
	app := newAuthApp(t)

	token, err := GenerateToken("user-1", "alice", "admin")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/optional", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "user-1", body(t, resp.Body))
}

func TestOptionalAuthAllowsAnonymousRequests(t *testing.T) {
	app := newAuthApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/optional", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "", body(t, resp.Body))
}

func TestOptionalAuthIgnoresInvalidToken(t *testing.T) {
	app := newAuthApp(t)

	req := httptest.NewRequest("GET", "/optional", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "", body(t, resp.Body))
}

func TestAuthRequiredRejectsMissingToken(t *testing.T) {
	app := newAuthApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/required", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequiredRejectsInvalidToken(t *testing.T) {
	app := newAuthApp(t)

	req := httptest.NewRequest("GET", "/required", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
