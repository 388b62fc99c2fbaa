package models

// Genre is a TMDB genre.
type Genre struct {
	BaseEntity
	TmdbID int    `gorm:"uniqueIndex;not null" json:"tmdb_id"`
	Name   string `gorm:"size:100;not null" json:"name"`
}

// MediaGenre links a movie or TV show to a genre.
type MediaGenre struct {
	BaseEntity
	MediaID   string    `gorm:"size:36;index:idx_media_genre,unique;not null" json:"media_id"`
	MediaType MediaType `gorm:"size:20;index:idx_media_genre,unique;not null" json:"media_type"`
	GenreID   string    `gorm:"size:36;index:idx_media_genre,unique;not null" json:"genre_id"`
	Genre     *Genre    `gorm:"foreignKey:GenreID" json:"genre,omitempty"`
}
