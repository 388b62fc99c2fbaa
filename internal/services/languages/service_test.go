package languages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DLXHub/API/internal/apperrors"
	"github.com/DLXHub/API/internal/database"
	"github.com/DLXHub/API/internal/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := database.OpenInMemory()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Language{}))

	return New(db)
}

func TestCreateValidatesIsoCode(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, Input{IsoCode: "eng", Name: "English"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Create(ctx, Input{IsoCode: "en", Name: ""})
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateRejectsDuplicateIsoCode(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, Input{IsoCode: "en", Name: "English"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, Input{IsoCode: "EN", Name: "English again"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestSetDefaultIsExclusive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	english, err := svc.Create(ctx, Input{IsoCode: "en", Name: "English", IsActive: true})
	require.NoError(t, err)
	german, err := svc.Create(ctx, Input{IsoCode: "de", Name: "German", IsActive: true})
	require.NoError(t, err)

	_, err = svc.SetDefault(ctx, english.ID)
	require.NoError(t, err)
	_, err = svc.SetDefault(ctx, german.ID)
	require.NoError(t, err)

	all, err := svc.List(ctx, false)
	require.NoError(t, err)

	defaults := 0
	for _, language := range all {
		if language.IsDefault {
			defaults++
			assert.Equal(t, "de", language.IsoCode)
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestSetDefaultRequiresActive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	inactive, err := svc.Create(ctx, Input{IsoCode: "fr", Name: "French", IsActive: false})
	require.NoError(t, err)

	_, err = svc.SetDefault(ctx, inactive.ID)
	assert.True(t, apperrors.IsInvalidState(err))
}

func TestDeleteRefusesDefaultLanguage(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	english, err := svc.Create(ctx, Input{IsoCode: "en", Name: "English", IsActive: true})
	require.NoError(t, err)
	_, err = svc.SetDefault(ctx, english.ID)
	require.NoError(t, err)

	err = svc.Delete(ctx, english.ID, "admin")
	assert.True(t, apperrors.IsInvalidState(err))
}
