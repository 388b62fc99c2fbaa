package jobs

import (
	"context"
	"encoding/xml"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/DLXHub/API/internal/cache"
	"github.com/DLXHub/API/internal/models"
)

const sitemapCacheKey = "sitemap"

// SitemapHandler regenerates the XML sitemap from published content and
// stores it in the cache, where the public sitemap endpoint serves it from.
type SitemapHandler struct {
	db      *gorm.DB
	cache   cache.Cache
	baseURL string
	log     zerolog.Logger
}

func NewSitemapHandler(db *gorm.DB, c cache.Cache, baseURL string, log zerolog.Logger) *SitemapHandler {
	return &SitemapHandler{db: db, cache: c, baseURL: baseURL, log: log}
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (h *SitemapHandler) Execute(ctx context.Context, job *models.Job) error {
	urlSet := sitemapURLSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}

	var movies []models.Movie
	if err := h.db.WithContext(ctx).Scopes(models.NotDeleted).
		Where("slug IS NOT NULL").Find(&movies).Error; err != nil {
		return err
	}
	for i := range movies {
		urlSet.URLs = append(urlSet.URLs, sitemapURL{
			Loc:     h.baseURL + "/movies/" + *movies[i].Slug,
			LastMod: lastMod(&movies[i].BaseEntity),
		})
	}

	var shows []models.TvShow
	if err := h.db.WithContext(ctx).Scopes(models.NotDeleted).
		Where("slug IS NOT NULL").Find(&shows).Error; err != nil {
		return err
	}
	for i := range shows {
		urlSet.URLs = append(urlSet.URLs, sitemapURL{
			Loc:     h.baseURL + "/tv-shows/" + *shows[i].Slug,
			LastMod: lastMod(&shows[i].BaseEntity),
		})
	}

	var pages []models.Page
	if err := h.db.WithContext(ctx).Scopes(models.NotDeleted).
		Where("is_published = ?", true).Find(&pages).Error; err != nil {
		return err
	}
	for i := range pages {
		urlSet.URLs = append(urlSet.URLs, sitemapURL{
			Loc:     h.baseURL + "/pages/" + pages[i].Slug,
			LastMod: lastMod(&pages[i].BaseEntity),
		})
	}

	payload, err := xml.MarshalIndent(urlSet, "", "  ")
	if err != nil {
		return err
	}
	body := xml.Header + string(payload)

	if err := h.cache.Set(ctx, sitemapCacheKey, body, 24*time.Hour); err != nil {
		return err
	}

	h.log.Info().Int("urls", len(urlSet.URLs)).Msg("sitemap generated")

	params := job.GetParameters()
	params["LastGenerationTime"] = time.Now().UTC().Format(time.RFC3339)
	params["UrlCount"] = strconv.Itoa(len(urlSet.URLs))
	return job.SetParameters(params)
}

func lastMod(b *models.BaseEntity) string {
	t := b.CreatedOn
	if b.ModifiedOn != nil {
		t = *b.ModifiedOn
	}
	return t.Format("2006-01-02")
}
