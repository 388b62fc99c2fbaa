package models

// Download references a downloadable release of a movie, show, season or
// episode. Exactly one of the media id columns is set, matching MediaType.
type Download struct {
	BaseEntity
	Title     string    `gorm:"size:255;not null" json:"title"`
	Language  string    `gorm:"size:10;not null" json:"language"`
	Quality   string    `gorm:"size:50;not null" json:"quality"`
	MediaType MediaType `gorm:"size:20;index;not null" json:"media_type"`
	MovieID   *string   `gorm:"size:36;index" json:"movie_id,omitempty"`
	TvShowID  *string   `gorm:"size:36;index" json:"tv_show_id,omitempty"`
	SeasonID  *string   `gorm:"size:36;index" json:"season_id,omitempty"`
	EpisodeID *string   `gorm:"size:36;index" json:"episode_id,omitempty"`
}
