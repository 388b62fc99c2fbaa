// Package people serves persons and their movie/TV credits.
package people

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

// ListInput filters and pages the people listing.
type ListInput struct {
	PageNumber int
	PageSize   int
	SearchTerm string
}

// List returns people ordered by popularity, optionally name-filtered.
func (s *Service) List(ctx context.Context, input ListInput) (response.PaginatedList[models.Person], error) {
	if input.PageNumber < 1 {
		input.PageNumber = 1
	}
	if input.PageSize < 1 {
		input.PageSize = 20
	}
	if input.PageSize > 100 {
		return response.PaginatedList[models.Person]{}, apperrors.NewValidation("page size must not exceed 100")
	}

	tx := s.db.WithContext(ctx).Model(&models.Person{}).Scopes(models.NotDeleted)
	if term := strings.TrimSpace(input.SearchTerm); term != "" {
		tx = tx.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(term)+"%")
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return response.PaginatedList[models.Person]{}, err
	}

	var rows []models.Person
	err := tx.Order("popularity DESC NULLS LAST").
		Offset((input.PageNumber - 1) * input.PageSize).
		Limit(input.PageSize).
		Find(&rows).Error
	if err != nil {
		return response.PaginatedList[models.Person]{}, err
	}
	return response.NewPaginatedList(rows, count, input.PageNumber, input.PageSize), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.Person, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *Service) GetByTmdbID(ctx context.Context, tmdbID int) (*models.Person, error) {
	return s.first(ctx, "tmdb_id = ?", tmdbID)
}

// MovieCastCredits returns a person's movie acting credits with the movies
// preloaded.
func (s *Service) MovieCastCredits(ctx context.Context, personID string) ([]models.MovieCast, error) {
	if _, err := s.GetByID(ctx, personID); err != nil {
		return nil, err
	}
	var credits []models.MovieCast
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).Preload("Movie").
		Where("person_id = ?", personID).
		Order("cast_order").
		Find(&credits).Error
	return credits, err
}

// MovieCrewCredits returns a person's movie crew credits.
func (s *Service) MovieCrewCredits(ctx context.Context, personID string) ([]models.MovieCrew, error) {
	if _, err := s.GetByID(ctx, personID); err != nil {
		return nil, err
	}
	var credits []models.MovieCrew
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).Preload("Movie").
		Where("person_id = ?", personID).
		Find(&credits).Error
	return credits, err
}

// TvShowCastCredits returns a person's TV acting credits.
func (s *Service) TvShowCastCredits(ctx context.Context, personID string) ([]models.TvShowCast, error) {
	if _, err := s.GetByID(ctx, personID); err != nil {
		return nil, err
	}
	var credits []models.TvShowCast
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).Preload("TvShow").
		Where("person_id = ?", personID).
		Order("cast_order").
		Find(&credits).Error
	return credits, err
}

// TvShowCrewCredits returns a person's TV crew credits.
func (s *Service) TvShowCrewCredits(ctx context.Context, personID string) ([]models.TvShowCrew, error) {
	if _, err := s.GetByID(ctx, personID); err != nil {
		return nil, err
	}
	var credits []models.TvShowCrew
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).Preload("TvShow").
		Where("person_id = ?", personID).
		Find(&credits).Error
	return credits, err
}

// CombinedCredits bundles every credit type for one person.
type CombinedCredits struct {
	MovieCast  []models.MovieCast  `json:"movie_cast"`
	MovieCrew  []models.MovieCrew  `json:"movie_crew"`
	TvShowCast []models.TvShowCast `json:"tv_show_cast"`
	TvShowCrew []models.TvShowCrew `json:"tv_show_crew"`
}

// GetCombinedCredits returns all credits for a person across movies and TV.
func (s *Service) GetCombinedCredits(ctx context.Context, personID string) (*CombinedCredits, error) {
	movieCast, err := s.MovieCastCredits(ctx, personID)
	if err != nil {
		return nil, err
	}
	movieCrew, err := s.MovieCrewCredits(ctx, personID)
	if err != nil {
		return nil, err
	}
	tvCast, err := s.TvShowCastCredits(ctx, personID)
	if err != nil {
		return nil, err
	}
	tvCrew, err := s.TvShowCrewCredits(ctx, personID)
	if err != nil {
		return nil, err
	}

	return &CombinedCredits{
		MovieCast:  movieCast,
		MovieCrew:  movieCrew,
		TvShowCast: tvCast,
		TvShowCrew: tvCrew,
	}, nil
}

func (s *Service) first(ctx context.Context, query string, arg any) (*models.Person, error) {
	var person models.Person
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).First(&person, query, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("person", fmt.Sprint(arg))
	}
	if err != nil {
		return nil, err
	}
	return &person, nil
}
