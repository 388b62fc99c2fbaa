// Package downloads manages download links attached to catalog media.
package downloads

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

// Input is the payload for creating or updating a download.
type Input struct {
	Title     string           `json:"title"`
	Language  string           `json:"language"`
	Quality   string           `json:"quality"`
	MediaType models.MediaType `json:"media_type"`
	MovieID   *string          `json:"movie_id"`
	TvShowID  *string          `json:"tv_show_id"`
	SeasonID  *string          `json:"season_id"`
	EpisodeID *string          `json:"episode_id"`
}

func (s *Service) Create(ctx context.Context, input Input, userID string) (*models.Download, error) {
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	download := models.Download{
		Title:     input.Title,
		Language:  input.Language,
		Quality:   input.Quality,
		MediaType: input.MediaType,
		MovieID:   input.MovieID,
		TvShowID:  input.TvShowID,
		SeasonID:  input.SeasonID,
		EpisodeID: input.EpisodeID,
	}
	download.CreatedByID = &userID

	if err := s.db.WithContext(ctx).Create(&download).Error; err != nil {
		return nil, err
	}
	return &download, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Download, error) {
	var download models.Download
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).First(&download, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("download", id)
	}
	if err != nil {
		return nil, err
	}
	return &download, nil
}

// ForMovie returns all downloads attached to a movie.
func (s *Service) ForMovie(ctx context.Context, movieID string) ([]models.Download, error) {
	var downloads []models.Download
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).
		Where("movie_id = ?", movieID).
		Order("created_on DESC").
		Find(&downloads).Error
	return downloads, err
}

// ForEpisode returns all downloads attached to an episode.
func (s *Service) ForEpisode(ctx context.Context, episodeID string) ([]models.Download, error) {
	var downloads []models.Download
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).
		Where("episode_id = ?", episodeID).
		Order("created_on DESC").
		Find(&downloads).Error
	return downloads, err
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	download, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	download.MarkDeleted(userID)
	return s.db.WithContext(ctx).Save(download).Error
}

// validate checks the payload shape and that the referenced media row exists.
func (s *Service) validate(ctx context.Context, input Input) error {
	if strings.TrimSpace(input.Title) == "" {
		return apperrors.NewValidation("title is required")
	}

	switch input.MediaType {
	case models.MediaTypeMovie:
		if input.MovieID == nil {
			return apperrors.NewValidation("movie_id is required for movie downloads")
		}
		return s.exists(ctx, &models.Movie{}, "movie", *input.MovieID)
	case models.MediaTypeTvShow:
		if input.TvShowID == nil {
			return apperrors.NewValidation("tv_show_id is required for tv show downloads")
		}
		if err := s.exists(ctx, &models.TvShow{}, "tv show", *input.TvShowID); err != nil {
			return err
		}
		if input.SeasonID != nil {
			if err := s.exists(ctx, &models.Season{}, "season", *input.SeasonID); err != nil {
				return err
			}
		}
		if input.EpisodeID != nil {
			if err := s.exists(ctx, &models.Episode{}, "episode", *input.EpisodeID); err != nil {
				return err
			}
		}
		return nil
	default:
		return apperrors.NewValidation("media type must be movie or tvshow")
	}
}

func (s *Service) exists(ctx context.Context, model any, entity, id string) error {
	var count int64
	err := s.db.WithContext(ctx).Model(model).Scopes(models.NotDeleted).
		Where("id = ?", id).Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return apperrors.NewNotFound(entity, id)
	}
	return nil
}
