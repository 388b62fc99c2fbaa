package models

import "time"

// Collection is a user-owned, ordered list of movies.
type Collection struct {
	BaseEntity
	Name        string  `gorm:"size:255;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
	IsPublic    bool    `gorm:"default:false" json:"is_public"`
	OwnerID     string  `gorm:"size:36;index;not null" json:"owner_id"`
}

// CollectionMovie places one movie in a collection.
type CollectionMovie struct {
	BaseEntity
	CollectionID string    `gorm:"size:36;index:idx_collection_movie,unique;not null" json:"collection_id"`
	MovieID      string    `gorm:"size:36;index:idx_collection_movie,unique;not null" json:"movie_id"`
	Movie        *Movie    `gorm:"foreignKey:MovieID" json:"movie,omitempty"`
	SortOrder    int       `json:"sort_order"`
	Notes        *string   `gorm:"type:text" json:"notes,omitempty"`
	AddedOn      time.Time `json:"added_on"`
}
