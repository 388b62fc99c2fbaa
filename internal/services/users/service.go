// Package users handles accounts, authentication and optional TOTP 2FA.
package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/DLXHub/API/internal/apperrors"
	"github.com/DLXHub/API/internal/logging"
	"github.com/DLXHub/API/internal/middleware"
	"github.com/DLXHub/API/internal/models"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrTwoFactorRequired signals that the password was correct but a TOTP code
// is still needed.
var ErrTwoFactorRequired = errors.New("two-factor code required")

type Service struct {
	db  *gorm.DB
	log zerolog.Logger
}

func New(db *gorm.DB) *Service {
	return &Service{db: db, log: logging.With("users")}
}

// RegisterInput is the signup payload.
type RegisterInput struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	var messages []string
	if strings.TrimSpace(input.Username) == "" {
		messages = append(messages, "username is required")
	}
	if !strings.Contains(input.Email, "@") {
		messages = append(messages, "a valid email is required")
	}
	if len(input.Password) < 8 {
		messages = append(messages, "password must be at least 8 characters")
	}
	if len(messages) > 0 {
		return nil, apperrors.NewValidation(messages...)
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Scopes(models.NotDeleted).
		Where("username = ? OR email = ?", input.Username, input.Email).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperrors.NewValidation("username or email is already taken")
	}

	user := models.User{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      "user",
	}
	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	s.log.Info().Str("username", user.Username).Msg("user registered")
	return &user, nil
}

// LoginInput is the login payload. TwoFactorCode is required only when the
// account has 2FA enabled.
type LoginInput struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	TwoFactorCode string `json:"two_factor_code"`
}

// Login verifies credentials and returns a signed JWT.
func (s *Service) Login(ctx context.Context, input LoginInput) (string, *models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).
		First(&user, "username = ? OR email = ?", input.Username, input.Username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if !user.CheckPassword(input.Password) {
		return "", nil, ErrInvalidCredentials
	}

	if user.TwoFactorEnabled {
		if input.TwoFactorCode == "" {
			return "", nil, ErrTwoFactorRequired
		}
		if !totp.Validate(input.TwoFactorCode, user.TwoFactorSecret) {
			return "", nil, ErrInvalidCredentials
		}
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return "", nil, err
	}

	token, err := middleware.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("user", id)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateInput carries the mutable profile fields.
type UpdateInput struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Password  *string `json:"password"`
}

func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		if !strings.Contains(*input.Email, "@") {
			return nil, apperrors.NewValidation("a valid email is required")
		}
		var count int64
		err := s.db.WithContext(ctx).Model(&models.User{}).Scopes(models.NotDeleted).
			Where("email = ? AND id <> ?", *input.Email, id).Count(&count).Error
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, apperrors.NewValidation("email is already taken")
		}
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = input.FirstName
	}
	if input.LastName != nil {
		user.LastName = input.LastName
	}
	if input.Password != nil {
		if len(*input.Password) < 8 {
			return nil, apperrors.NewValidation("password must be at least 8 characters")
		}
		if err := user.SetPassword(*input.Password); err != nil {
			return nil, err
		}
	}

	user.Touch(id)
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) Delete(ctx context.Context, id, actorID string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	user.MarkDeleted(actorID)
	return s.db.WithContext(ctx).Save(user).Error
}

// List returns all users, admin-only at the handler layer.
func (s *Service) List(ctx context.Context) ([]models.User, error) {
	var userList []models.User
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).
		Order("username").
		Find(&userList).Error
	return userList, err
}

// SetupTwoFactor generates a new TOTP secret for the user and stores it
// pending confirmation. Returns the otpauth provisioning URL.
func (s *Service) SetupTwoFactor(ctx context.Context, id string) (string, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if user.TwoFactorEnabled {
		return "", apperrors.NewInvalidState("two-factor auth is already enabled")
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "DLXHub",
		AccountName: user.Email,
	})
	if err != nil {
		return "", err
	}

	user.TwoFactorSecret = key.Secret()
	user.Touch(id)
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return "", err
	}
	return key.URL(), nil
}

// ConfirmTwoFactor enables 2FA once the user proves possession of the secret.
func (s *Service) ConfirmTwoFactor(ctx context.Context, id, code string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if user.TwoFactorSecret == "" {
		return apperrors.NewInvalidState("two-factor setup has not been started")
	}
	if !totp.Validate(code, user.TwoFactorSecret) {
		return apperrors.NewValidation("invalid two-factor code")
	}

	user.TwoFactorEnabled = true
	user.Touch(id)
	return s.db.WithContext(ctx).Save(user).Error
}

// DisableTwoFactor turns 2FA off after a final code check.
func (s *Service) DisableTwoFactor(ctx context.Context, id, code string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !user.TwoFactorEnabled {
		return apperrors.NewInvalidState("two-factor auth is not enabled")
	}
	if !totp.Validate(code, user.TwoFactorSecret) {
		return apperrors.NewValidation("invalid two-factor code")
	}

	user.TwoFactorEnabled = false
	user.TwoFactorSecret = ""
	user.Touch(id)
	return s.db.WithContext(ctx).Save(user).Error
}

// EnsureAdmin creates the bootstrap admin account if no admin exists yet.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Scopes(models.NotDeleted).
		Where("role = ?", "admin").Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin := models.User{
		Username: username,
		Email:    username + "@localhost",
		Role:     "admin",
	}
	if err := admin.SetPassword(password); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(&admin).Error; err != nil {
		return err
	}
	s.log.Info().Str("username", username).Msg("bootstrap admin created")
	return nil
}
