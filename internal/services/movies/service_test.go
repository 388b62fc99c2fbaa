package movies

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/DLXHub/API/internal/apperrors"
	"github.com/DLXHub/API/internal/database"
	"github.com/DLXHub/API/internal/models"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := database.OpenInMemory()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Movie{}, &models.Genre{}, &models.MediaGenre{}))

	return New(db), db
}

func TestImportCreatesWithUniqueSlug(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Import(ctx, ImportInput{TmdbID: 1, Title: "The Matrix"})
	require.NoError(t, err)
	require.NotNil(t, first.Slug)
	assert.Equal(t, "the-matrix", *first.Slug)

	// Same title, different TMDB id: slug gets a counter suffix.
	second, err := svc.Import(ctx, ImportInput{TmdbID: 2, Title: "The Matrix"})
	require.NoError(t, err)
	require.NotNil(t, second.Slug)
	assert.Equal(t, "the-matrix-1", *second.Slug)
}

func TestImportUpdatesExistingByTmdbID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Import(ctx, ImportInput{TmdbID: 603, Title: "The Matrix"})
	require.NoError(t, err)

	runtime := 136
	updated, err := svc.Import(ctx, ImportInput{TmdbID: 603, Title: "The Matrix", Runtime: &runtime})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	require.NotNil(t, updated.Runtime)
	assert.Equal(t, 136, *updated.Runtime)
}

func TestImportValidatesInput(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Import(context.Background(), ImportInput{TmdbID: 0, Title: ""})
	assert.True(t, apperrors.IsValidation(err))
}

func TestGetBySlugAndNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Import(ctx, ImportInput{TmdbID: 603, Title: "The Matrix"})
	require.NoError(t, err)

	movie, err := svc.GetBySlug(ctx, "the-matrix")
	require.NoError(t, err)
	assert.Equal(t, 603, movie.TmdbID)

	_, err = svc.GetBySlug(ctx, "missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListFiltersByGenre(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	action, err := svc.Import(ctx, ImportInput{TmdbID: 1, Title: "Action Movie"})
	require.NoError(t, err)
	_, err = svc.Import(ctx, ImportInput{TmdbID: 2, Title: "Quiet Drama"})
	require.NoError(t, err)

	genre := models.Genre{TmdbID: 28, Name: "Action"}
	require.NoError(t, db.Create(&genre).Error)
	require.NoError(t, db.Create(&models.MediaGenre{
		MediaID:   action.ID,
		MediaType: models.MediaTypeMovie,
		GenreID:   genre.ID,
	}).Error)

	filtered, err := svc.List(ctx, ListInput{GenreID: genre.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), filtered.TotalCount)
	assert.Equal(t, action.ID, filtered.Items[0].ID)

	all, err := svc.List(ctx, ListInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.TotalCount)
}

func TestListSearchMatchesTitle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Import(ctx, ImportInput{TmdbID: 1, Title: "The Matrix"})
	require.NoError(t, err)
	_, err = svc.Import(ctx, ImportInput{TmdbID: 2, Title: "Inception"})
	require.NoError(t, err)

	found, err := svc.List(ctx, ListInput{SearchTerm: "matrix"})
	require.NoError(t, err)
	require.Equal(t, int64(1), found.TotalCount)
	assert.Equal(t, "The Matrix", found.Items[0].Title)
}
