// Package tvshows serves the TV show catalog.
package tvshows

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/DLXHub/API/internal/apperrors"
	"github.com/DLXHub/API/internal/models"
	"github.com/DLXHub/API/internal/response"
)

type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ListInput filters and pages the TV show listing.
type ListInput struct {
	PageNumber int
	PageSize   int
	SearchTerm string
}

// List returns TV shows ordered by popularity.
func (s *Service) List(ctx context.Context, input ListInput) (response.PaginatedList[models.TvShow], error) {
	if input.PageNumber < 1 {
		input.PageNumber = 1
	}
	if input.PageSize < 1 {
		input.PageSize = 20
	}
	if input.PageSize > 100 {
		return response.PaginatedList[models.TvShow]{}, apperrors.NewValidation("page size must not exceed 100")
	}

	tx := s.db.WithContext(ctx).Model(&models.TvShow{}).Scopes(models.NotDeleted)
	if term := strings.TrimSpace(input.SearchTerm); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(COALESCE(original_name, '')) LIKE ?", pattern, pattern)
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return response.PaginatedList[models.TvShow]{}, err
	}

	var rows []models.TvShow
	err := tx.Order("popularity DESC NULLS LAST").
		Offset((input.PageNumber - 1) * input.PageSize).
		Limit(input.PageSize).
		Find(&rows).Error
	if err != nil {
		return response.PaginatedList[models.TvShow]{}, err
	}
	return response.NewPaginatedList(rows, count, input.PageNumber, input.PageSize), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.TvShow, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *Service) GetBySlug(ctx context.Context, slugValue string) (*models.TvShow, error) {
	return s.first(ctx, "slug = ?", slugValue)
}

func (s *Service) GetByTmdbID(ctx context.Context, tmdbID int) (*models.TvShow, error) {
	return s.first(ctx, "tmdb_id = ?", tmdbID)
}

// GetSeasons returns all seasons of a show in order.
func (s *Service) GetSeasons(ctx context.Context, tvShowID string) ([]models.Season, error) {
	if _, err := s.GetByID(ctx, tvShowID); err != nil {
		return nil, err
	}

	var seasons []models.Season
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).
		Where("tv_show_id = ?", tvShowID).
		Order("season_number").
		Find(&seasons).Error
	return seasons, err
}

// GetSeasonEpisodes returns the episodes of one season, addressed by season
// number.
func (s *Service) GetSeasonEpisodes(ctx context.Context, tvShowID string, seasonNumber int) ([]models.Episode, error) {
	var season models.Season
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).
		First(&season, "tv_show_id = ? AND season_number = ?", tvShowID, seasonNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("season", fmt.Sprintf("%s/%d", tvShowID, seasonNumber))
	}
	if err != nil {
		return nil, err
	}

	var episodes []models.Episode
	err = s.db.WithContext(ctx).Scopes(models.NotDeleted).
		Where("season_id = ?", season.ID).
		Order("episode_number").
		Find(&episodes).Error
	return episodes, err
}

func (s *Service) first(ctx context.Context, query string, arg any) (*models.TvShow, error) {
	var show models.TvShow
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).First(&show, query, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("tv show", fmt.Sprint(arg))
	}
	if err != nil {
		return nil, err
	}
	return &show, nil
}
