package models

import (
	"encoding/json"
	"time"
)

type PageStatus string

const (
	PageStatusDraft     PageStatus = "Draft"
	PageStatusPublished PageStatus = "Published"
	PageStatusArchived  PageStatus = "Archived"
)

// Page is one content document built from typed components. A published page
// and its at-most-one pending draft (linked via OriginalPageID) form a
// lineage; only the original row of a lineage ever has IsPublished set.
type Page struct {
	BaseEntity
	Title           string     `gorm:"size:255;not null" json:"title"`
	SeoTitle        *string    `gorm:"size:255" json:"seo_title,omitempty"`
	MetaDescription *string    `gorm:"size:500" json:"meta_description,omitempty"`
	Slug            string     `gorm:"size:255;not null;index" json:"slug"`
	LinkTarget      string     `gorm:"size:100;not null;index" json:"link_target"`
	Status          PageStatus `gorm:"size:20;not null;default:'Draft'" json:"status"`

	// Components holds the ordered component list serialized as JSON.
	Components string `gorm:"type:text;not null;default:'[]'" json:"-"`

	Version        int        `gorm:"not null;default:1" json:"version"`
	IsPublished    bool       `gorm:"index;default:false" json:"is_published"`
	OriginalPageID *string    `gorm:"size:36;index" json:"original_page_id,omitempty"`
	PublishedOn    *time.Time `json:"published_on,omitempty"`
	PublishedByID  *string    `gorm:"size:36" json:"published_by_id,omitempty"`
}

// PageComponent is one typed building block on a page.
type PageComponent struct {
	Type          string          `json:"type"`
	Configuration json.RawMessage `json:"configuration"`
	Order         int             `json:"order"`
	ComponentID   string          `json:"component_id"`
}

// GetComponents decodes the component list. A corrupt column yields an empty
// list rather than an error; the write path only ever stores valid JSON.
func (p *Page) GetComponents() []PageComponent {
	var components []PageComponent
	if err := json.Unmarshal([]byte(p.Components), &components); err != nil {
		return []PageComponent{}
	}
	return components
}

// SetComponents encodes and stores the component list.
func (p *Page) SetComponents(components []PageComponent) error {
	if components == nil {
		components = []PageComponent{}
	}
	raw, err := json.Marshal(components)
	if err != nil {
		return err
	}
	p.Components = string(raw)
	return nil
}
