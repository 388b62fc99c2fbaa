package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseEntity carries the identity, audit and soft-delete columns shared by
// every table. IDs are UUID strings assigned on create.
type BaseEntity struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	CreatedOn    time.Time  `json:"created_on"`
	CreatedByID  *string    `gorm:"size:36" json:"created_by_id,omitempty"`
	ModifiedOn   *time.Time `json:"modified_on,omitempty"`
	ModifiedByID *string    `gorm:"size:36" json:"modified_by_id,omitempty"`
	DeletedOn    *time.Time `json:"-"`
	DeletedByID  *string    `gorm:"size:36" json:"-"`
	IsDeleted    bool       `gorm:"index;default:false" json:"-"`
}

// BeforeCreate assigns the UUID and creation timestamp.
func (b *BaseEntity) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedOn.IsZero() {
		b.CreatedOn = time.Now().UTC()
	}
	return nil
}

// Touch records a modification by the given user id (may be empty).
func (b *BaseEntity) Touch(userID string) {
	now := time.Now().UTC()
	b.ModifiedOn = &now
	if userID != "" {
		b.ModifiedByID = &userID
	}
}

// MarkDeleted flags the row as soft deleted.
func (b *BaseEntity) MarkDeleted(userID string) {
	now := time.Now().UTC()
	b.IsDeleted = true
	b.DeletedOn = &now
	if userID != "" {
		b.DeletedByID = &userID
	}
}

// NotDeleted is the soft-delete predicate. It is applied explicitly at each
// call site rather than through a global ORM filter, so the exclusion stays
// visible in every query.
func NotDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}
