package collections

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
	require.NoError(t, db.AutoMigrate(
		&models.Collection{},
		&models.CollectionMovie{},
		&models.Movie{},
	))

	return New(db), db
}

func seedMovie(t *testing.T, db *gorm.DB, tmdbID int, title string) models.Movie {
	t.Helper()
	movie := models.Movie{TmdbID: tmdbID, Title: title}
	require.NoError(t, db.Create(&movie).Error)
	return movie
}

func TestCreateRequiresName(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateInput{Name: "  "}, "alice")
	assert.True(t, apperrors.IsValidation(err))
}

func TestPrivateCollectionHiddenFromOthers(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	collection, err := svc.Create(ctx, CreateInput{Name: "Watchlist"}, "alice")
	require.NoError(t, err)

	_, err = svc.Get(ctx, collection.ID, "alice")
	require.NoError(t, err)

	_, err = svc.Get(ctx, collection.ID, "bob")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestPublicCollectionVisibleToAll(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	collection, err := svc.Create(ctx, CreateInput{Name: "Favorites", IsPublic: true}, "alice")
	require.NoError(t, err)

	_, err = svc.Get(ctx, collection.ID, "bob")
	require.NoError(t, err)
}

func TestAddMovieRejectsDuplicates(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	collection, err := svc.Create(ctx, CreateInput{Name: "Watchlist"}, "alice")
	require.NoError(t, err)
	movie := seedMovie(t, db, 603, "The Matrix")

	_, err = svc.AddMovie(ctx, collection.ID, AddMovieInput{MovieID: movie.ID}, "alice")
	require.NoError(t, err)

	_, err = svc.AddMovie(ctx, collection.ID, AddMovieInput{MovieID: movie.ID}, "alice")
	assert.True(t, apperrors.IsValidation(err))
}

func TestAddMovieRequiresOwnership(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	collection, err := svc.Create(ctx, CreateInput{Name: "Favorites", IsPublic: true}, "alice")
	require.NoError(t, err)
	movie := seedMovie(t, db, 603, "The Matrix")

	_, err = svc.AddMovie(ctx, collection.ID, AddMovieInput{MovieID: movie.ID}, "bob")
	assert.True(t, apperrors.IsInvalidState(err))
}

func TestAddMovieRejectsMissingMovie(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	collection, err := svc.Create(ctx, CreateInput{Name: "Watchlist"}, "alice")
	require.NoError(t, err)

	_, err = svc.AddMovie(ctx, collection.ID, AddMovieInput{MovieID: "missing"}, "alice")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListMoviesOrdersBySortOrder(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	collection, err := svc.Create(ctx, CreateInput{Name: "Marathon"}, "alice")
	require.NoError(t, err)
	first := seedMovie(t, db, 1, "First")
	second := seedMovie(t, db, 2, "Second")

	_, err = svc.AddMovie(ctx, collection.ID, AddMovieInput{MovieID: second.ID, SortOrder: 2}, "alice")
	require.NoError(t, err)
	_, err = svc.AddMovie(ctx, collection.ID, AddMovieInput{MovieID: first.ID, SortOrder: 1}, "alice")
	require.NoError(t, err)

	entries, err := svc.ListMovies(ctx, collection.ID, "alice")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first.ID, entries[0].MovieID)
	assert.Equal(t, second.ID, entries[1].MovieID)
}
