package models

import "time"

type MediaType string

const (
	MediaTypeMovie   MediaType = "Movie"
	MediaTypeTvShow  MediaType = "TvShow"
	MediaTypeSeason  MediaType = "Season"
	MediaTypeEpisode MediaType = "Episode"
)

// Movie is one film imported from TMDB.
type Movie struct {
	BaseEntity
	TmdbID        int        `gorm:"uniqueIndex;not null" json:"tmdb_id"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	OriginalTitle *string    `gorm:"size:255" json:"original_title,omitempty"`
	Slug          *string    `gorm:"size:255;index" json:"slug,omitempty"`
	Overview      *string    `gorm:"type:text" json:"overview,omitempty"`
	PosterPath    *string    `gorm:"size:255" json:"poster_path,omitempty"`
	BackdropPath  *string    `gorm:"size:255" json:"backdrop_path,omitempty"`
	ReleaseDate   *time.Time `json:"release_date,omitempty"`
	Runtime       *int       `json:"runtime,omitempty"`
	VoteAverage   *float64   `json:"vote_average,omitempty"`
	VoteCount     *int       `json:"vote_count,omitempty"`
	Popularity    *float64   `gorm:"index" json:"popularity,omitempty"`
}

// TvShow is one series imported from TMDB.
type TvShow struct {
	BaseEntity
	TmdbID           int        `gorm:"uniqueIndex;not null" json:"tmdb_id"`
	Name             string     `gorm:"size:255;not null" json:"name"`
	OriginalName     *string    `gorm:"size:255" json:"original_name,omitempty"`
	Slug             *string    `gorm:"size:255;index" json:"slug,omitempty"`
	Overview         *string    `gorm:"type:text" json:"overview,omitempty"`
	PosterPath       *string    `gorm:"size:255" json:"poster_path,omitempty"`
	BackdropPath     *string    `gorm:"size:255" json:"backdrop_path,omitempty"`
	FirstAirDate     *time.Time `json:"first_air_date,omitempty"`
	LastAirDate      *time.Time `json:"last_air_date,omitempty"`
	Status           *string    `gorm:"size:50" json:"status,omitempty"`
	NumberOfSeasons  *int       `json:"number_of_seasons,omitempty"`
	NumberOfEpisodes *int       `json:"number_of_episodes,omitempty"`
	InProduction     *bool      `json:"in_production,omitempty"`
	OriginalLanguage *string    `gorm:"size:10" json:"original_language,omitempty"`
	VoteAverage      *float64   `json:"vote_average,omitempty"`
	VoteCount        *int       `json:"vote_count,omitempty"`
	Popularity       *float64   `gorm:"index" json:"popularity,omitempty"`
}

// Season groups the episodes of a TV show.
type Season struct {
	BaseEntity
	TmdbID       int        `gorm:"index;not null" json:"tmdb_id"`
	TvShowID     string     `gorm:"size:36;index;not null" json:"tv_show_id"`
	SeasonNumber int        `gorm:"not null" json:"season_number"`
	Name         *string    `gorm:"size:255" json:"name,omitempty"`
	Overview     *string    `gorm:"type:text" json:"overview,omitempty"`
	PosterPath   *string    `gorm:"size:255" json:"poster_path,omitempty"`
	AirDate      *time.Time `json:"air_date,omitempty"`
	EpisodeCount *int       `json:"episode_count,omitempty"`
}

// Episode is one episode of a season.
type Episode struct {
	BaseEntity
	TmdbID        int        `gorm:"index;not null" json:"tmdb_id"`
	SeasonID      string     `gorm:"size:36;index;not null" json:"season_id"`
	EpisodeNumber int        `gorm:"not null" json:"episode_number"`
	Name          string     `gorm:"size:255;not null" json:"name"`
	Overview      *string    `gorm:"type:text" json:"overview,omitempty"`
	StillPath     *string    `gorm:"size:255" json:"still_path,omitempty"`
	AirDate       *time.Time `json:"air_date,omitempty"`
	Runtime       *int       `json:"runtime,omitempty"`
	VoteAverage   *float64   `json:"vote_average,omitempty"`
	VoteCount     *int       `json:"vote_count,omitempty"`
}
