// Package collections manages user-owned movie collections.
package collections

import (
	"context"
	"errors"
	"strings"
	"time"

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

// CreateInput is the payload for creating a collection.
type CreateInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	IsPublic    bool    `json:"is_public"`
}

func (s *Service) Create(ctx context.Context, input CreateInput, ownerID string) (*models.Collection, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidation("name is required")
	}

	collection := models.Collection{
		Name:        input.Name,
		Description: input.Description,
		IsPublic:    input.IsPublic,
		OwnerID:     ownerID,
	}
	collection.CreatedByID = &ownerID

	if err := s.db.WithContext(ctx).Create(&collection).Error; err != nil {
		return nil, err
	}
	return &collection, nil
}

// Get returns a collection visible to the requesting user: the owner sees
// everything, others only public collections.
func (s *Service) Get(ctx context.Context, id, requesterID string) (*models.Collection, error) {
	var collection models.Collection
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).First(&collection, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("collection", id)
	}
	if err != nil {
		return nil, err
	}
	if !collection.IsPublic && collection.OwnerID != requesterID {
		return nil, apperrors.NewNotFound("collection", id)
	}
	return &collection, nil
}

// ListForUser returns all collections owned by the user.
func (s *Service) ListForUser(ctx context.Context, ownerID string) ([]models.Collection, error) {
	var collections []models.Collection
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).
		Where("owner_id = ?", ownerID).
		Order("created_on DESC").
		Find(&collections).Error
	return collections, err
}

// AddMovieInput is the payload for placing a movie in a collection.
type AddMovieInput struct {
	MovieID   string  `json:"movie_id"`
	SortOrder int     `json:"sort_order"`
	Notes     *string `json:"notes"`
}

// AddMovie places a movie into a collection the user owns. Adding the same
// movie twice is rejected.
func (s *Service) AddMovie(ctx context.Context, collectionID string, input AddMovieInput, requesterID string) (*models.CollectionMovie, error) {
	collection, err := s.Get(ctx, collectionID, requesterID)
	if err != nil {
		return nil, err
	}
	if collection.OwnerID != requesterID {
		return nil, apperrors.NewInvalidState("only the owner can modify a collection")
	}

	var movie models.Movie
	err = s.db.WithContext(ctx).Scopes(models.NotDeleted).First(&movie, "id = ?", input.MovieID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("movie", input.MovieID)
	}
	if err != nil {
		return nil, err
	}

	var existing int64
	err = s.db.WithContext(ctx).Model(&models.CollectionMovie{}).Scopes(models.NotDeleted).
		Where("collection_id = ? AND movie_id = ?", collectionID, input.MovieID).
		Count(&existing).Error
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, apperrors.NewValidation("movie is already in this collection")
	}

	entry := models.CollectionMovie{
		CollectionID: collectionID,
		MovieID:      input.MovieID,
		SortOrder:    input.SortOrder,
		Notes:        input.Notes,
		AddedOn:      time.Now().UTC(),
	}
	entry.CreatedByID = &requesterID

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListMovies returns the movies of a collection in sort order.
func (s *Service) ListMovies(ctx context.Context, collectionID, requesterID string) ([]models.CollectionMovie, error) {
	if _, err := s.Get(ctx, collectionID, requesterID); err != nil {
		return nil, err
	}

	var entries []models.CollectionMovie
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).Preload("Movie").
		Where("collection_id = ?", collectionID).
		Order("sort_order").
		Find(&entries).Error
	return entries, err
}
