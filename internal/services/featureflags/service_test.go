package featureflags

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DLXHub/API/internal/apperrors"
	"github.com/DLXHub/API/internal/cache"
	"github.com/DLXHub/API/internal/database"
	"github.com/DLXHub/API/internal/models"
)

func newTestService(t *testing.T) (*Service, *cache.MemoryCache) {
	t.Helper()

	db, err := database.OpenInMemory()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.FeatureFlag{}))

	c := cache.NewMemory()
	return New(db, c), c
}

func TestCreateAndGetByKey(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	flag, err := svc.Create(ctx, Input{Key: "new-player", IsEnabled: true}, "admin")
	require.NoError(t, err)
	assert.True(t, flag.IsEnabled)

	got, err := svc.GetByKey(ctx, "new-player")
	require.NoError(t, err)
	assert.Equal(t, flag.ID, got.ID)

	_, err = svc.Create(ctx, Input{Key: "new-player"}, "admin")
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateWithoutUserLeavesCreatorUnset(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	flag, err := svc.Create(ctx, Input{Key: "anon"}, "")
	require.NoError(t, err)
	assert.Nil(t, flag.CreatedByID)

	flag, err = svc.Create(ctx, Input{Key: "owned"}, "admin")
	require.NoError(t, err)
	require.NotNil(t, flag.CreatedByID)
	assert.Equal(t, "admin", *flag.CreatedByID)
}

func TestIsEnabledUnknownFlagIsOff(t *testing.T) {
	svc, _ := newTestService(t)

	assert.False(t, svc.IsEnabled(context.Background(), "absent"))
}

func TestToggleInvalidatesCache(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	flag, err := svc.Create(ctx, Input{Key: "dark-mode", IsEnabled: false}, "admin")
	require.NoError(t, err)

	// Prime the cache.
	assert.False(t, svc.IsEnabled(ctx, "dark-mode"))

	_, err = svc.Toggle(ctx, flag.ID, "admin")
	require.NoError(t, err)

	assert.True(t, svc.IsEnabled(ctx, "dark-mode"))
}

func TestClientFlagsOnlyExposesKeyedFlags(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	clientKey := "player"
	_, err := svc.Create(ctx, Input{
		Key:           "new-player",
		IsEnabled:     true,
		ClientKey:     &clientKey,
		Configuration: map[string]any{"autoplay": true},
	}, "admin")
	require.NoError(t, err)
	_, err = svc.Create(ctx, Input{Key: "internal-only", IsEnabled: true}, "admin")
	require.NoError(t, err)

	flags, err := svc.ClientFlags(ctx)
	require.NoError(t, err)
	require.Len(t, flags, 1)
	assert.Equal(t, "player", flags[0].ClientKey)
	assert.Equal(t, true, flags[0].Configuration["autoplay"])
}

func TestDeleteRemovesFlag(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	flag, err := svc.Create(ctx, Input{Key: "temp"}, "admin")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, flag.ID, "admin"))

	_, err = svc.GetByKey(ctx, "temp")
	assert.True(t, apperrors.IsNotFound(err))
}
