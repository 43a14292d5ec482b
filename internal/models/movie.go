package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Movie is a catalog entry. Rating, RatingCount and Likes are denormalized
// aggregates over MovieUser rows and are only written by the interaction
// service.
type Movie struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	TMDBID      *int         `gorm:"uniqueIndex" json:"tmdb_id,omitempty"`
	Title       string       `gorm:"size:255;not null;uniqueIndex" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Director    string       `gorm:"size:255" json:"director"`
	Country     string       `gorm:"size:100" json:"country"`
	ReleaseDate *time.Time   `gorm:"type:date" json:"release_date"`
	Rating      float64      `gorm:"not null;default:0" json:"rating"`
	RatingCount int          `gorm:"not null;default:0" json:"rating_count"`
	Likes       int          `gorm:"not null;default:0" json:"likes"`
	Genres      []Genre      `gorm:"many2many:movie_genres;" json:"genres,omitempty"`
	Cast        []CastMember `gorm:"many2many:movie_cast;" json:"cast,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (m *Movie) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type Genre struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
}

func (g *Genre) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

type CastMember struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
}

func (CastMember) TableName() string {
	return "cast_members"
}

func (c *CastMember) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
