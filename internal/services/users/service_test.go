package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DLXHub/API/internal/apperrors"
	"github.com/DLXHub/API/internal/config"
	"github.com/DLXHub/API/internal/database"
	"github.com/DLXHub/API/internal/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	// Token signing reads the global config; defaults are enough for tests.
	_, err := config.Load("testdata/missing.yaml")
	require.NoError(t, err)

	db, err := database.OpenInMemory()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	return New(db)
}

func register(t *testing.T, svc *Service, username string) *models.User {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterValidatesInput(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "", Email: "bad", Password: "short"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc := newTestService(t)
	register(t, svc, "alice")

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "other@example.com",
		Password: "correct-horse",
	})
	assert.True(t, apperrors.IsValidation(err))
}

func TestLoginIssuesToken(t *testing.T) {
	svc := newTestService(t)
	register(t, svc, "alice")

	token, user, err := svc.Login(context.Background(), LoginInput{
		Username: "alice",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotNil(t, user.LastLoginAt)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := newTestService(t)
	register(t, svc, "alice")

	_, _, err := svc.Login(context.Background(), LoginInput{
		Username: "alice",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), LoginInput{
		Username: "nobody",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginDemandsTwoFactorCode(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := register(t, svc, "alice")

	_, err := svc.SetupTwoFactor(ctx, user.ID)
	require.NoError(t, err)

	// Setup alone does not arm 2FA.
	_, _, err = svc.Login(ctx, LoginInput{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	// Flip it on directly; generating a valid TOTP code is covered by the
	// otp library's own tests.
	require.NoError(t, svc.db.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("two_factor_enabled", true).Error)

	_, _, err = svc.Login(ctx, LoginInput{Username: "alice", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrTwoFactorRequired)

	_, _, err = svc.Login(ctx, LoginInput{
		Username: "alice", Password: "correct-horse", TwoFactorCode: "000000",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "admin", "admin123"))
	require.NoError(t, svc.EnsureAdmin(ctx, "admin", "admin123"))

	userList, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, userList, 1)
	assert.True(t, userList[0].IsAdmin())
}
