// Package pages implements the page draft/publish lifecycle.
//
// A page starts as a Draft and is published in place. Editing an already
// published page never mutates the live row: the edit is stored as a new
// Draft row pointing back at the original via OriginalPageID, and publishing
// that draft copies its fields onto the original and removes the draft. Each
// lineage therefore holds one live row and at most one pending draft.
package pages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/DLXHub/API/internal/apperrors"
	"github.com/DLXHub/API/internal/cache"
	"github.com/DLXHub/API/internal/models"
	"github.com/DLXHub/API/internal/response"
	"github.com/DLXHub/API/internal/slug"
)

const (
	cacheKeySlug       = "page:slug:%s"
	cacheKeyLinkTarget = "page:linktarget:%s"
	cacheTTL           = time.Hour
)

type Service struct {
	db    *gorm.DB
	cache cache.Cache
	log   zerolog.Logger
}

func New(db *gorm.DB, c cache.Cache, log zerolog.Logger) *Service {
	return &Service{db: db, cache: c, log: log}
}

// PageInput is the payload for create and update.
type PageInput struct {
	Title           string                 `json:"title"`
	SeoTitle        *string                `json:"seo_title"`
	MetaDescription *string                `json:"meta_description"`
	Slug            string                 `json:"slug"`
	LinkTarget      string                 `json:"link_target"`
	Components      []models.PageComponent `json:"components"`
}

// ListInput selects and pages the page listing.
type ListInput struct {
	PageNumber    int
	PageSize      int
	SearchTerm    string
	Status        *models.PageStatus
	IncludeDrafts bool
}

// PageDTO is the page representation returned to clients and stored in the
// read cache.
type PageDTO struct {
	ID              string                 `json:"id"`
	Title           string                 `json:"title"`
	SeoTitle        *string                `json:"seo_title,omitempty"`
	MetaDescription *string                `json:"meta_description,omitempty"`
	Slug            string                 `json:"slug"`
	LinkTarget      string                 `json:"link_target"`
	Status          models.PageStatus      `json:"status"`
	Components      []models.PageComponent `json:"components"`
	Version         int                    `json:"version"`
	IsPublished     bool                   `json:"is_published"`
	OriginalPageID  *string                `json:"original_page_id,omitempty"`
	PublishedOn     *time.Time             `json:"published_on,omitempty"`
	CreatedOn       time.Time              `json:"created_on"`
	ModifiedOn      *time.Time             `json:"modified_on,omitempty"`
}

func toDTO(p *models.Page) PageDTO {
	return PageDTO{
		ID:              p.ID,
		Title:           p.Title,
		SeoTitle:        p.SeoTitle,
		MetaDescription: p.MetaDescription,
		Slug:            p.Slug,
		LinkTarget:      p.LinkTarget,
		Status:          p.Status,
		Components:      p.GetComponents(),
		Version:         p.Version,
		IsPublished:     p.IsPublished,
		OriginalPageID:  p.OriginalPageID,
		PublishedOn:     p.PublishedOn,
		CreatedOn:       p.CreatedOn,
		ModifiedOn:      p.ModifiedOn,
	}
}

// Create stores a new draft page after validating format and uniqueness.
func (s *Service) Create(ctx context.Context, input PageInput, userID string) (PageDTO, error) {
	if err := s.validate(ctx, input, nil); err != nil {
		return PageDTO{}, err
	}

	page := models.Page{
		Title:           input.Title,
		SeoTitle:        input.SeoTitle,
		MetaDescription: input.MetaDescription,
		Slug:            input.Slug,
		LinkTarget:      input.LinkTarget,
		Status:          models.PageStatusDraft,
		IsPublished:     false,
		Version:         1,
	}
	if userID != "" {
		page.CreatedByID = &userID
	}
	if err := page.SetComponents(input.Components); err != nil {
		return PageDTO{}, err
	}

	if err := s.db.WithContext(ctx).Create(&page).Error; err != nil {
		return PageDTO{}, err
	}
	return toDTO(&page), nil
}

// Update edits a page. Editing a published page creates a new draft row in
// its lineage; editing a draft mutates it in place.
func (s *Service) Update(ctx context.Context, id string, input PageInput, userID string) (PageDTO, error) {
	page, err := s.loadByID(ctx, id)
	if err != nil {
		return PageDTO{}, err
	}

	if err := s.validate(ctx, input, page); err != nil {
		return PageDTO{}, err
	}

	if page.IsPublished {
		draft := models.Page{
			Title:           input.Title,
			SeoTitle:        input.SeoTitle,
			MetaDescription: input.MetaDescription,
			Slug:            input.Slug,
			LinkTarget:      input.LinkTarget,
			Status:          models.PageStatusDraft,
			IsPublished:     false,
			OriginalPageID:  &page.ID,
			Version:         page.Version + 1,
		}
		if userID != "" {
			draft.CreatedByID = &userID
		}
		if err := draft.SetComponents(input.Components); err != nil {
			return PageDTO{}, err
		}

		if err := s.db.WithContext(ctx).Create(&draft).Error; err != nil {
			return PageDTO{}, err
		}
		return toDTO(&draft), nil
	}

	page.Title = input.Title
	page.SeoTitle = input.SeoTitle
	page.MetaDescription = input.MetaDescription
	page.Slug = input.Slug
	page.LinkTarget = input.LinkTarget
	if err := page.SetComponents(input.Components); err != nil {
		return PageDTO{}, err
	}
	page.Touch(userID)

	if err := s.db.WithContext(ctx).Save(page).Error; err != nil {
		return PageDTO{}, err
	}
	return toDTO(page), nil
}

// Publish makes a draft live. A draft belonging to a lineage is folded onto
// its original row and removed; a first-time draft is published in place.
//
// Cached slug/link-target reads are not invalidated here: entries age out on
// their one hour TTL, so published reads can lag a publish by up to an hour.
func (s *Service) Publish(ctx context.Context, id, userID string) (PageDTO, error) {
	page, err := s.loadByID(ctx, id)
	if err != nil {
		return PageDTO{}, err
	}
	if page.Status != models.PageStatusDraft {
		return PageDTO{}, apperrors.NewInvalidState("only draft pages can be published")
	}

	now := time.Now().UTC()
	var published *models.Page

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if page.OriginalPageID != nil {
			var original models.Page
			if err := tx.Scopes(models.NotDeleted).
				First(&original, "id = ?", *page.OriginalPageID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NewNotFound("page", *page.OriginalPageID)
				}
				return err
			}

			original.Title = page.Title
			original.SeoTitle = page.SeoTitle
			original.MetaDescription = page.MetaDescription
			original.Slug = page.Slug
			original.LinkTarget = page.LinkTarget
			original.Components = page.Components
			original.Version = page.Version
			original.Status = models.PageStatusPublished
			original.IsPublished = true
			original.PublishedOn = &now
			if userID != "" {
				original.PublishedByID = &userID
			}
			original.Touch(userID)

			if err := tx.Save(&original).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Page{}, "id = ?", page.ID).Error; err != nil {
				return err
			}
			published = &original
			return nil
		}

		page.Status = models.PageStatusPublished
		page.IsPublished = true
		page.PublishedOn = &now
		if userID != "" {
			page.PublishedByID = &userID
		}
		page.Touch(userID)

		if err := tx.Save(page).Error; err != nil {
			return err
		}
		published = page
		return nil
	})
	if err != nil {
		return PageDTO{}, err
	}

	s.log.Info().Str("page_id", published.ID).Str("slug", published.Slug).
		Int("version", published.Version).Msg("page published")
	return toDTO(published), nil
}

// GetByID returns a page regardless of status.
func (s *Service) GetByID(ctx context.Context, id string) (PageDTO, error) {
	page, err := s.loadByID(ctx, id)
	if err != nil {
		return PageDTO{}, err
	}
	return toDTO(page), nil
}

// GetBySlug looks a page up by slug. Published lookups go through the read
// cache; draft lookups always hit the database.
func (s *Service) GetBySlug(ctx context.Context, slugValue string, includeDrafts bool) (PageDTO, error) {
	if !slug.IsValid(slugValue) {
		return PageDTO{}, apperrors.NewValidation("invalid slug format")
	}
	return s.getCached(ctx, fmt.Sprintf(cacheKeySlug, slugValue), "slug = ?", slugValue, includeDrafts)
}

// GetByLinkTarget looks a page up by its internal link target key. Published
// lookups go through the read cache; draft lookups always hit the database.
func (s *Service) GetByLinkTarget(ctx context.Context, linkTarget string, includeDrafts bool) (PageDTO, error) {
	if !slug.IsValidLinkTarget(linkTarget) {
		return PageDTO{}, apperrors.NewValidation("invalid link target format")
	}
	return s.getCached(ctx, fmt.Sprintf(cacheKeyLinkTarget, linkTarget), "link_target = ?", linkTarget, includeDrafts)
}

func (s *Service) getCached(ctx context.Context, cacheKey, query string, arg any, includeDrafts bool) (PageDTO, error) {
	if !includeDrafts {
		var cached PageDTO
		if err := cache.GetJSON(ctx, s.cache, cacheKey, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, cache.ErrMiss) {
			s.log.Warn().Err(err).Str("key", cacheKey).Msg("cache read failed")
		}
	}

	tx := s.db.WithContext(ctx).Scopes(models.NotDeleted)
	if !includeDrafts {
		tx = tx.Where("status = ?", models.PageStatusPublished)
	}

	var page models.Page
	if err := tx.First(&page, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PageDTO{}, apperrors.NewNotFound("page", fmt.Sprint(arg))
		}
		return PageDTO{}, err
	}

	dto := toDTO(&page)
	if page.Status == models.PageStatusPublished {
		if err := cache.SetJSON(ctx, s.cache, cacheKey, dto, cacheTTL); err != nil {
			s.log.Warn().Err(err).Str("key", cacheKey).Msg("cache write failed")
		}
	}
	return dto, nil
}

// List returns pages matching the filters, published rows first then by
// title. The search term matches title, SEO title, slug and link target
// case-insensitively.
func (s *Service) List(ctx context.Context, input ListInput) (response.PaginatedList[PageDTO], error) {
	if input.PageNumber < 1 {
		input.PageNumber = 1
	}
	if input.PageSize < 1 {
		input.PageSize = 10
	}
	if input.PageSize > 100 {
		return response.PaginatedList[PageDTO]{}, apperrors.NewValidation("page size must not exceed 100")
	}

	tx := s.db.WithContext(ctx).Model(&models.Page{}).Scopes(models.NotDeleted)

	if !input.IncludeDrafts {
		tx = tx.Where("status = ?", models.PageStatusPublished)
	}
	if input.Status != nil {
		tx = tx.Where("status = ?", *input.Status)
	}
	if term := strings.TrimSpace(input.SearchTerm); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		tx = tx.Where(
			"LOWER(title) LIKE ? OR LOWER(COALESCE(seo_title, '')) LIKE ? OR LOWER(slug) LIKE ? OR LOWER(link_target) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return response.PaginatedList[PageDTO]{}, err
	}

	var rows []models.Page
	err := tx.Order("(status <> 'Published'), title COLLATE NOCASE").
		Offset((input.PageNumber - 1) * input.PageSize).
		Limit(input.PageSize).
		Find(&rows).Error
	if err != nil {
		return response.PaginatedList[PageDTO]{}, err
	}

	items := make([]PageDTO, 0, len(rows))
	for i := range rows {
		items = append(items, toDTO(&rows[i]))
	}
	return response.NewPaginatedList(items, count, input.PageNumber, input.PageSize), nil
}

// Delete soft deletes a page and any pending draft in its lineage.
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	page, err := s.loadByID(ctx, id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		page.MarkDeleted(userID)
		if err := tx.Save(page).Error; err != nil {
			return err
		}

		var drafts []models.Page
		if err := tx.Scopes(models.NotDeleted).
			Find(&drafts, "original_page_id = ?", page.ID).Error; err != nil {
			return err
		}
		for i := range drafts {
			drafts[i].MarkDeleted(userID)
			if err := tx.Save(&drafts[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) loadByID(ctx context.Context, id string) (*models.Page, error) {
	var page models.Page
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).First(&page, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("page", id)
	}
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// validate checks format rules and slug/link-target uniqueness. Uniqueness is
// scoped to non-deleted rows outside the page's own lineage, so a pending
// draft may keep the slug of the published row it will replace.
func (s *Service) validate(ctx context.Context, input PageInput, current *models.Page) error {
	var messages []string

	if strings.TrimSpace(input.Title) == "" {
		messages = append(messages, "title is required")
	} else if len(input.Title) > 255 {
		messages = append(messages, "title must not exceed 255 characters")
	}
	if input.SeoTitle != nil && len(*input.SeoTitle) > 255 {
		messages = append(messages, "seo title must not exceed 255 characters")
	}
	if input.MetaDescription != nil && len(*input.MetaDescription) > 500 {
		messages = append(messages, "meta description must not exceed 500 characters")
	}

	if input.Slug == "" || len(input.Slug) > 255 || !slug.IsValid(input.Slug) {
		messages = append(messages, "slug must be lowercase letters, numbers and single hyphens, and cannot start or end with a hyphen")
	}
	if input.LinkTarget == "" || len(input.LinkTarget) > 100 || !slug.IsValidLinkTarget(input.LinkTarget) {
		messages = append(messages, "link target must contain only letters, numbers and underscores")
	}

	for _, c := range input.Components {
		if strings.TrimSpace(c.Type) == "" || strings.TrimSpace(c.ComponentID) == "" || len(c.Configuration) == 0 {
			messages = append(messages, "invalid component configuration")
			break
		}
	}

	if len(messages) > 0 {
		return apperrors.NewValidation(messages...)
	}

	lineage := []string{""}
	if current != nil {
		lineage = []string{current.ID}
		if current.OriginalPageID != nil {
			lineage = append(lineage, *current.OriginalPageID)
		}
	}

	var slugCount int64
	err := s.db.WithContext(ctx).Model(&models.Page{}).Scopes(models.NotDeleted).
		Where("slug = ?", input.Slug).
		Where("id NOT IN ?", lineage).
		Where("COALESCE(original_page_id, '') NOT IN ?", lineage).
		Count(&slugCount).Error
	if err != nil {
		return err
	}
	if slugCount > 0 {
		messages = append(messages, "a page with this slug already exists")
	}

	var targetCount int64
	err = s.db.WithContext(ctx).Model(&models.Page{}).Scopes(models.NotDeleted).
		Where("link_target = ?", input.LinkTarget).
		Where("id NOT IN ?", lineage).
		Where("COALESCE(original_page_id, '') NOT IN ?", lineage).
		Count(&targetCount).Error
	if err != nil {
		return err
	}
	if targetCount > 0 {
		messages = append(messages, "a page with this link target already exists")
	}

	if len(messages) > 0 {
		return apperrors.NewValidation(messages...)
	}
	return nil
}
