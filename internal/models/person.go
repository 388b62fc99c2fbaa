package models

import "time"

// Person is an actor or crew member imported from TMDB.
type Person struct {
	BaseEntity
	TmdbID             int        `gorm:"uniqueIndex;not null" json:"tmdb_id"`
	Name               string     `gorm:"size:255;not null" json:"name"`
	Slug               *string    `gorm:"size:255;index" json:"slug,omitempty"`
	Biography          *string    `gorm:"type:text" json:"biography,omitempty"`
	Birthday           *time.Time `json:"birthday,omitempty"`
	Deathday           *time.Time `json:"deathday,omitempty"`
	PlaceOfBirth       *string    `gorm:"size:255" json:"place_of_birth,omitempty"`
	ProfilePath        *string    `gorm:"size:255" json:"profile_path,omitempty"`
	KnownForDepartment *string    `gorm:"size:100" json:"known_for_department,omitempty"`
	Popularity         *float64   `gorm:"index" json:"popularity,omitempty"`
}

// MovieCast links a person to a movie acting credit.
type MovieCast struct {
	BaseEntity
	MovieID   string  `gorm:"size:36;index;not null" json:"movie_id"`
	Movie     *Movie  `gorm:"foreignKey:MovieID" json:"movie,omitempty"`
	PersonID  string  `gorm:"size:36;index;not null" json:"person_id"`
	Person    *Person `gorm:"foreignKey:PersonID" json:"person,omitempty"`
	Character *string `gorm:"size:255" json:"character,omitempty"`
	CastOrder int     `json:"cast_order"`
}

// MovieCrew links a person to a movie crew credit.
type MovieCrew struct {
	BaseEntity
	MovieID    string  `gorm:"size:36;index;not null" json:"movie_id"`
	Movie      *Movie  `gorm:"foreignKey:MovieID" json:"movie,omitempty"`
	PersonID   string  `gorm:"size:36;index;not null" json:"person_id"`
	Person     *Person `gorm:"foreignKey:PersonID" json:"person,omitempty"`
	Department *string `gorm:"size:100" json:"department,omitempty"`
	Job        *string `gorm:"size:100" json:"job,omitempty"`
}

// TvShowCast links a person to a TV show acting credit.
type TvShowCast struct {
	BaseEntity
	TvShowID  string  `gorm:"size:36;index;not null" json:"tv_show_id"`
	TvShow    *TvShow `gorm:"foreignKey:TvShowID" json:"tv_show,omitempty"`
	PersonID  string  `gorm:"size:36;index;not null" json:"person_id"`
	Person    *Person `gorm:"foreignKey:PersonID" json:"person,omitempty"`
	Character *string `gorm:"size:255" json:"character,omitempty"`
	CastOrder int     `json:"cast_order"`
}

// TvShowCrew links a person to a TV show crew credit.
type TvShowCrew struct {
	BaseEntity
	TvShowID   string  `gorm:"size:36;index;not null" json:"tv_show_id"`
	TvShow     *TvShow `gorm:"foreignKey:TvShowID" json:"tv_show,omitempty"`
	PersonID   string  `gorm:"size:36;index;not null" json:"person_id"`
	Person     *Person `gorm:"foreignKey:PersonID" json:"person,omitempty"`
	Department *string `gorm:"size:100" json:"department,omitempty"`
	Job        *string `gorm:"size:100" json:"job,omitempty"`
}
