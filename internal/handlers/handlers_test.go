package handlers

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DLXHub/API/internal/apperrors"
	"github.com/DLXHub/API/internal/logging"
)

func TestFailLogsUnhandledErrors(t *testing.T) {
	var buf bytes.Buffer
	logging.Log = zerolog.New(&buf)

	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fail(c, errors.New("disk read failed"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, buf.String(), "disk read failed")
	assert.Contains(t, buf.String(), "/boom")
}

func TestFailMapsKnownErrorTypes(t *testing.T) {
	app := fiber.New()
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fail(c, apperrors.NewNotFound("page", "x"))
	})
	app.Get("/invalid", func(c *fiber.Ctx) error {
		return fail(c, apperrors.NewValidation("title is required"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/invalid", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
