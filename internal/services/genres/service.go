// Package genres manages the shared genre taxonomy for movies and TV shows.
package genres

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

// List returns all genres sorted by name.
func (s *Service) List(ctx context.Context) ([]models.Genre, error) {
	var genres []models.Genre
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).
		Order("name COLLATE NOCASE").
		Find(&genres).Error
	return genres, err
}

func (s *Service) Get(ctx context.Context, id string) (*models.Genre, error) {
	var genre models.Genre
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).First(&genre, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("genre", id)
	}
	if err != nil {
		return nil, err
	}
	return &genre, nil
}

// Upsert creates or updates a genre by TMDB id.
func (s *Service) Upsert(ctx context.Context, tmdbID int, name string) (*models.Genre, error) {
	if tmdbID <= 0 || strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidation("tmdb id and name are required")
	}

	var genre models.Genre
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).First(&genre, "tmdb_id = ?", tmdbID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	genre.TmdbID = tmdbID
	genre.Name = name
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.db.WithContext(ctx).Create(&genre).Error; err != nil {
			return nil, err
		}
		return &genre, nil
	}

	genre.Touch("")
	if err := s.db.WithContext(ctx).Save(&genre).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

// Assign links a genre to a movie or TV show. Assigning the same genre twice
// is a no-op.
func (s *Service) Assign(ctx context.Context, mediaID string, mediaType models.MediaType, genreID string) error {
	if mediaType != models.MediaTypeMovie && mediaType != models.MediaTypeTvShow {
		return apperrors.NewValidation("media type must be movie or tvshow")
	}
	if _, err := s.Get(ctx, genreID); err != nil {
		return err
	}

	var existing int64
	err := s.db.WithContext(ctx).Model(&models.MediaGenre{}).Scopes(models.NotDeleted).
		Where("media_id = ? AND media_type = ? AND genre_id = ?", mediaID, mediaType, genreID).
		Count(&existing).Error
	if err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	link := models.MediaGenre{
		MediaID:   mediaID,
		MediaType: mediaType,
		GenreID:   genreID,
	}
	return s.db.WithContext(ctx).Create(&link).Error
}

// ForMedia returns the genres assigned to one movie or TV show.
func (s *Service) ForMedia(ctx context.Context, mediaID string, mediaType models.MediaType) ([]models.Genre, error) {
	var links []models.MediaGenre
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).Preload("Genre").
		Where("media_id = ? AND media_type = ?", mediaID, mediaType).
		Find(&links).Error
	if err != nil {
		return nil, err
	}

	genres := make([]models.Genre, 0, len(links))
	for _, link := range links {
		if link.Genre != nil {
			genres = append(genres, *link.Genre)
		}
	}
	return genres, nil
}
