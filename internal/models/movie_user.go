package models

import (
	"time"

	"github.com/google/uuid"
)

// MovieUser is the per (movie, user) interaction record. A row exists only
// while at least one of Rating, Liked or Wished is set.
type MovieUser struct {
	MovieID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"movie_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	Rating    *float64  `json:"rating"`
	Liked     bool      `gorm:"not null;default:false" json:"liked"`
	Wished    bool      `gorm:"not null;default:false" json:"wished"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Empty reports whether the record carries no interaction at all.
func (mu *MovieUser) Empty() bool {
	return mu.Rating == nil && !mu.Liked && !mu.Wished
}
