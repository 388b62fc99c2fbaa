// Package movies serves the movie catalog.
package movies

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/DLXHub/API/internal/apperrors"
	"github.com/DLXHub/API/internal/models"
	"github.com/DLXHub/API/internal/response"
	"github.com/DLXHub/API/internal/slug"
)

type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ListInput filters and pages the movie listing.
type ListInput struct {
	PageNumber int
	PageSize   int
	SearchTerm string
	GenreID    string
}

// List returns movies ordered by popularity, optionally filtered by a title
// search or a genre.
func (s *Service) List(ctx context.Context, input ListInput) (response.PaginatedList[models.Movie], error) {
	if input.PageNumber < 1 {
		input.PageNumber = 1
	}
	if input.PageSize < 1 {
		input.PageSize = 20
	}
	if input.PageSize > 100 {
		return response.PaginatedList[models.Movie]{}, apperrors.NewValidation("page size must not exceed 100")
	}

	tx := s.db.WithContext(ctx).Model(&models.Movie{}).Scopes(models.NotDeleted)

	if term := strings.TrimSpace(input.SearchTerm); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		tx = tx.Where("LOWER(title) LIKE ? OR LOWER(COALESCE(original_title, '')) LIKE ?", pattern, pattern)
	}
	if input.GenreID != "" {
		tx = tx.Where(
			"id IN (?)",
			s.db.Model(&models.MediaGenre{}).Select("media_id").
				Where("genre_id = ? AND media_type = ? AND is_deleted = ?", input.GenreID, models.MediaTypeMovie, false),
		)
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return response.PaginatedList[models.Movie]{}, err
	}

	var rows []models.Movie
	err := tx.Order("popularity DESC NULLS LAST").
		Offset((input.PageNumber - 1) * input.PageSize).
		Limit(input.PageSize).
		Find(&rows).Error
	if err != nil {
		return response.PaginatedList[models.Movie]{}, err
	}
	return response.NewPaginatedList(rows, count, input.PageNumber, input.PageSize), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.Movie, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *Service) GetBySlug(ctx context.Context, slugValue string) (*models.Movie, error) {
	return s.first(ctx, "slug = ?", slugValue)
}

func (s *Service) GetByTmdbID(ctx context.Context, tmdbID int) (*models.Movie, error) {
	return s.first(ctx, "tmdb_id = ?", tmdbID)
}

// ImportInput is an already-fetched TMDB movie payload.
type ImportInput struct {
	TmdbID        int        `json:"tmdb_id"`
	Title         string     `json:"title"`
	OriginalTitle *string    `json:"original_title"`
	Overview      *string    `json:"overview"`
	PosterPath    *string    `json:"poster_path"`
	BackdropPath  *string    `json:"backdrop_path"`
	ReleaseDate   *time.Time `json:"release_date"`
	Runtime       *int       `json:"runtime"`
	VoteAverage   *float64   `json:"vote_average"`
	VoteCount     *int       `json:"vote_count"`
	Popularity    *float64   `json:"popularity"`
}

// Import upserts a movie by TMDB id and derives its slug from the title.
func (s *Service) Import(ctx context.Context, input ImportInput) (*models.Movie, error) {
	if input.TmdbID <= 0 || strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.NewValidation("tmdb id and title are required")
	}

	var movie models.Movie
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).
		First(&movie, "tmdb_id = ?", input.TmdbID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	isNew := errors.Is(err, gorm.ErrRecordNotFound)

	movie.TmdbID = input.TmdbID
	movie.Title = input.Title
	movie.OriginalTitle = input.OriginalTitle
	movie.Overview = input.Overview
	movie.PosterPath = input.PosterPath
	movie.BackdropPath = input.BackdropPath
	movie.ReleaseDate = input.ReleaseDate
	movie.Runtime = input.Runtime
	movie.VoteAverage = input.VoteAverage
	movie.VoteCount = input.VoteCount
	movie.Popularity = input.Popularity

	if isNew {
		var existing []string
		if err := s.db.WithContext(ctx).Model(&models.Movie{}).Scopes(models.NotDeleted).
			Where("slug IS NOT NULL").Pluck("slug", &existing).Error; err != nil {
			return nil, err
		}
		generated := slug.GenerateUnique(input.Title, existing, 100)
		movie.Slug = &generated
		if err := s.db.WithContext(ctx).Create(&movie).Error; err != nil {
			return nil, err
		}
		return &movie, nil
	}

	movie.Touch("")
	if err := s.db.WithContext(ctx).Save(&movie).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

func (s *Service) first(ctx context.Context, query string, arg any) (*models.Movie, error) {
	var movie models.Movie
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).First(&movie, query, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("movie", fmt.Sprint(arg))
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}
