// Package languages manages the site's configured content languages.
package languages

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/DLXHub/API/internal/apperrors"
	"github.com/DLXHub/API/internal/models"
)

type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns all languages; activeOnly narrows to enabled ones.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]models.Language, error) {
	tx := s.db.WithContext(ctx).Scopes(models.NotDeleted)
	if activeOnly {
		tx = tx.Where("is_active = ?", true)
	}
	var languages []models.Language
	err := tx.Order("name COLLATE NOCASE").Find(&languages).Error
	return languages, err
}

func (s *Service) Get(ctx context.Context, id string) (*models.Language, error) {
	var language models.Language
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).First(&language, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("language", id)
	}
	if err != nil {
		return nil, err
	}
	return &language, nil
}

// Input is the payload for creating or updating a language.
type Input struct {
	IsoCode  string  `json:"iso_code"`
	Name     string  `json:"name"`
	IsActive bool    `json:"is_active"`
	FlagIcon *string `json:"flag_icon"`
}

func (s *Service) Create(ctx context.Context, input Input) (*models.Language, error) {
	if err := s.validate(ctx, input, nil); err != nil {
		return nil, err
	}

	language := models.Language{
		IsoCode:  strings.ToLower(input.IsoCode),
		Name:     input.Name,
		IsActive: input.IsActive,
		FlagIcon: input.FlagIcon,
	}
	if err := s.db.WithContext(ctx).Create(&language).Error; err != nil {
		return nil, err
	}
	return &language, nil
}

func (s *Service) Update(ctx context.Context, id string, input Input) (*models.Language, error) {
	language, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, input, &id); err != nil {
		return nil, err
	}

	language.IsoCode = strings.ToLower(input.IsoCode)
	language.Name = input.Name
	language.IsActive = input.IsActive
	language.FlagIcon = input.FlagIcon
	language.Touch("")

	if err := s.db.WithContext(ctx).Save(language).Error; err != nil {
		return nil, err
	}
	return language, nil
}

// SetDefault marks one language as the site default and clears the flag on
// every other language in the same transaction.
func (s *Service) SetDefault(ctx context.Context, id string) (*models.Language, error) {
	language, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !language.IsActive {
		return nil, apperrors.NewInvalidState("an inactive language cannot be the default")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Language{}).Scopes(models.NotDeleted).
			Where("id <> ?", id).
			Update("is_default", false).Error; err != nil {
			return err
		}
		language.IsDefault = true
		language.Touch("")
		return tx.Save(language).Error
	})
	if err != nil {
		return nil, err
	}
	return language, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	language, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if language.IsDefault {
		return apperrors.NewInvalidState("the default language cannot be deleted")
	}
	language.MarkDeleted(userID)
	return s.db.WithContext(ctx).Save(language).Error
}

func (s *Service) validate(ctx context.Context, input Input, excludeID *string) error {
	var messages []string
	code := strings.ToLower(strings.TrimSpace(input.IsoCode))
	if len(code) != 2 {
		messages = append(messages, "iso code must be exactly 2 characters")
	}
	if strings.TrimSpace(input.Name) == "" {
		messages = append(messages, "name is required")
	}
	if len(messages) > 0 {
		return apperrors.NewValidation(messages...)
	}

	tx := s.db.WithContext(ctx).Model(&models.Language{}).Scopes(models.NotDeleted).
		Where("iso_code = ?", code)
	if excludeID != nil {
		tx = tx.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperrors.NewValidation("a language with this iso code already exists")
	}
	return nil
}
