// Package featureflags manages runtime feature toggles with a short cache in
// front of the flag reads.
package featureflags

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/DLXHub/API/internal/apperrors"
	"github.com/DLXHub/API/internal/cache"
	"github.com/DLXHub/API/internal/logging"
	"github.com/DLXHub/API/internal/models"
)

const flagCacheTTL = 5 * time.Minute

type Service struct {
	db    *gorm.DB
	cache cache.Cache
	log   zerolog.Logger
}

func New(db *gorm.DB, c cache.Cache) *Service {
	return &Service{db: db, cache: c, log: logging.With("featureflags")}
}

// ClientFlag is the trimmed flag shape exposed to unauthenticated clients.
type ClientFlag struct {
	ClientKey     string         `json:"client_key"`
	IsEnabled     bool           `json:"is_enabled"`
	Configuration map[string]any `json:"configuration,omitempty"`
}

// Input is the payload for creating or updating a flag.
type Input struct {
	Key           string         `json:"key"`
	Description   string         `json:"description"`
	Category      string         `json:"category"`
	IsEnabled     bool           `json:"is_enabled"`
	ClientKey     *string        `json:"client_key"`
	Configuration map[string]any `json:"configuration"`
}

// List returns every flag, optionally restricted to a category.
func (s *Service) List(ctx context.Context, category string) ([]models.FeatureFlag, error) {
	tx := s.db.WithContext(ctx).Scopes(models.NotDeleted)
	if category != "" {
		tx = tx.Where("category = ?", category)
	}
	var flags []models.FeatureFlag
	err := tx.Order("key").Find(&flags).Error
	return flags, err
}

// GetByKey returns one flag, served from cache when fresh.
func (s *Service) GetByKey(ctx context.Context, key string) (*models.FeatureFlag, error) {
	cacheKey := "feature-flag:" + key

	var cached models.FeatureFlag
	if err := cache.GetJSON(ctx, s.cache, cacheKey, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.log.Warn().Err(err).Str("key", key).Msg("flag cache read failed")
	}

	var flag models.FeatureFlag
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).First(&flag, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("feature flag", key)
	}
	if err != nil {
		return nil, err
	}

	if err := cache.SetJSON(ctx, s.cache, cacheKey, flag, flagCacheTTL); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("flag cache write failed")
	}
	return &flag, nil
}

// IsEnabled reports whether a flag is on. Unknown flags are off.
func (s *Service) IsEnabled(ctx context.Context, key string) bool {
	flag, err := s.GetByKey(ctx, key)
	if err != nil {
		return false
	}
	return flag.IsEnabled
}

// ClientFlags returns all flags that carry a client key, cached as one blob.
func (s *Service) ClientFlags(ctx context.Context) ([]ClientFlag, error) {
	const cacheKey = "feature-flags:client"

	var cached []ClientFlag
	if err := cache.GetJSON(ctx, s.cache, cacheKey, &cached); err == nil {
		return cached, nil
	}

	var flags []models.FeatureFlag
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).
		Where("client_key IS NOT NULL AND client_key <> ''").
		Order("client_key").
		Find(&flags).Error
	if err != nil {
		return nil, err
	}

	out := make([]ClientFlag, 0, len(flags))
	for _, flag := range flags {
		out = append(out, ClientFlag{
			ClientKey:     *flag.ClientKey,
			IsEnabled:     flag.IsEnabled,
			Configuration: flag.GetConfiguration(),
		})
	}

	if err := cache.SetJSON(ctx, s.cache, cacheKey, out, flagCacheTTL); err != nil {
		s.log.Warn().Err(err).Msg("client flag cache write failed")
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, input Input, userID string) (*models.FeatureFlag, error) {
	if strings.TrimSpace(input.Key) == "" {
		return nil, apperrors.NewValidation("key is required")
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.FeatureFlag{}).Scopes(models.NotDeleted).
		Where("key = ?", input.Key).Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperrors.NewValidation("a flag with this key already exists")
	}

	flag := models.FeatureFlag{
		Key:         input.Key,
		Description: input.Description,
		Category:    input.Category,
		IsEnabled:   input.IsEnabled,
		ClientKey:   input.ClientKey,
	}
	if userID != "" {
		flag.CreatedByID = &userID
	}
	if input.Configuration != nil {
		if err := flag.SetConfiguration(input.Configuration); err != nil {
			return nil, err
		}
	}

	if err := s.db.WithContext(ctx).Create(&flag).Error; err != nil {
		return nil, err
	}
	s.invalidate(ctx, flag.Key)
	return &flag, nil
}

func (s *Service) Update(ctx context.Context, id string, input Input, userID string) (*models.FeatureFlag, error) {
	var flag models.FeatureFlag
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).First(&flag, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("feature flag", id)
	}
	if err != nil {
		return nil, err
	}

	oldKey := flag.Key
	if strings.TrimSpace(input.Key) != "" {
		flag.Key = input.Key
	}
	flag.Description = input.Description
	flag.Category = input.Category
	flag.IsEnabled = input.IsEnabled
	flag.ClientKey = input.ClientKey
	if input.Configuration != nil {
		if err := flag.SetConfiguration(input.Configuration); err != nil {
			return nil, err
		}
	}
	flag.Touch(userID)

	if err := s.db.WithContext(ctx).Save(&flag).Error; err != nil {
		return nil, err
	}
	s.invalidate(ctx, oldKey, flag.Key)
	return &flag, nil
}

// Toggle flips a flag's enabled state.
func (s *Service) Toggle(ctx context.Context, id, userID string) (*models.FeatureFlag, error) {
	var flag models.FeatureFlag
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).First(&flag, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("feature flag", id)
	}
	if err != nil {
		return nil, err
	}

	flag.IsEnabled = !flag.IsEnabled
	flag.Touch(userID)
	if err := s.db.WithContext(ctx).Save(&flag).Error; err != nil {
		return nil, err
	}
	s.invalidate(ctx, flag.Key)
	return &flag, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	var flag models.FeatureFlag
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).First(&flag, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewNotFound("feature flag", id)
	}
	if err != nil {
		return err
	}

	flag.MarkDeleted(userID)
	if err := s.db.WithContext(ctx).Save(&flag).Error; err != nil {
		return err
	}
	s.invalidate(ctx, flag.Key)
	return nil
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := s.cache.Remove(ctx, "feature-flag:"+key); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("flag cache invalidation failed")
		}
	}
	if err := s.cache.Remove(ctx, "feature-flags:client"); err != nil {
		s.log.Warn().Err(err).Msg("client flag cache invalidation failed")
	}
}
