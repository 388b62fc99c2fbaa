package jobs

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/DLXHub/API/internal/cache"
	"github.com/DLXHub/API/internal/models"
)

const searchIndexCacheKey = "search-index"

// SearchDocument is one entry in the cached search index.
type SearchDocument struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Keywords     []string  `json:"keywords,omitempty"`
	URL          string    `json:"url"`
	LastModified time.Time `json:"last_modified"`
}

// SearchIndexHandler rebuilds the search index from movies, TV shows and
// published pages and caches it for 24 hours.
type SearchIndexHandler struct {
	db    *gorm.DB
	cache cache.Cache
	log   zerolog.Logger
}

func NewSearchIndexHandler(db *gorm.DB, c cache.Cache, log zerolog.Logger) *SearchIndexHandler {
	return &SearchIndexHandler{db: db, cache: c, log: log}
}

func (h *SearchIndexHandler) Execute(ctx context.Context, job *models.Job) error {
	var documents []SearchDocument

	var movies []models.Movie
	if err := h.db.WithContext(ctx).Scopes(models.NotDeleted).Find(&movies).Error; err != nil {
		return err
	}
	for i := range movies {
		m := &movies[i]
		doc := SearchDocument{
			ID:           m.ID,
			Type:         "movie",
			Title:        m.Title,
			Keywords:     h.genreNames(ctx, m.ID, models.MediaTypeMovie),
			LastModified: modTime(&m.BaseEntity),
		}
		if m.Overview != nil {
			doc.Description = *m.Overview
		}
		if m.Slug != nil {
			doc.URL = "/movies/" + *m.Slug
		}
		documents = append(documents, doc)
	}

	var shows []models.TvShow
	if err := h.db.WithContext(ctx).Scopes(models.NotDeleted).Find(&shows).Error; err != nil {
		return err
	}
	for i := range shows {
		t := &shows[i]
		doc := SearchDocument{
			ID:           t.ID,
			Type:         "tv_show",
			Title:        t.Name,
			Keywords:     h.genreNames(ctx, t.ID, models.MediaTypeTvShow),
			LastModified: modTime(&t.BaseEntity),
		}
		if t.Overview != nil {
			doc.Description = *t.Overview
		}
		if t.Slug != nil {
			doc.URL = "/tv-shows/" + *t.Slug
		}
		documents = append(documents, doc)
	}

	var pages []models.Page
	if err := h.db.WithContext(ctx).Scopes(models.NotDeleted).
		Where("is_published = ?", true).Find(&pages).Error; err != nil {
		return err
	}
	for i := range pages {
		p := &pages[i]
		doc := SearchDocument{
			ID:           p.ID,
			Type:         "page",
			Title:        p.Title,
			URL:          "/pages/" + p.Slug,
			LastModified: modTime(&p.BaseEntity),
		}
		if p.MetaDescription != nil {
			doc.Description = *p.MetaDescription
		}
		documents = append(documents, doc)
	}

	if err := cache.SetJSON(ctx, h.cache, searchIndexCacheKey, documents, 24*time.Hour); err != nil {
		return err
	}

	h.log.Info().Int("documents", len(documents)).Msg("search index updated")

	params := job.GetParameters()
	params["IndexedDocuments"] = strconv.Itoa(len(documents))
	params["LastIndexTime"] = time.Now().UTC().Format(time.RFC3339)
	return job.SetParameters(params)
}

func (h *SearchIndexHandler) genreNames(ctx context.Context, mediaID string, mediaType models.MediaType) []string {
	var links []models.MediaGenre
	err := h.db.WithContext(ctx).Scopes(models.NotDeleted).Preload("Genre").
		Find(&links, "media_id = ? AND media_type = ?", mediaID, mediaType).Error
	if err != nil {
		return nil
	}

	var names []string
	for i := range links {
		if links[i].Genre != nil {
			names = append(names, links[i].Genre.Name)
		}
	}
	return names
}

func modTime(b *models.BaseEntity) time.Time {
	if b.ModifiedOn != nil {
		return *b.ModifiedOn
	}
	return b.CreatedOn
}
