package watchlists

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListType is an admin-curated category such as "Top 10" or "Marathon".
type ListType struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"size:500" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (l *ListType) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

type MovieList struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	ListTypeID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"list_type_id"`
	Name        string         `gorm:"size:150;not null" json:"name"`
	Description string         `gorm:"size:1000" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	ListType    *ListType      `gorm:"foreignKey:ListTypeID" json:"list_type,omitempty"`
	Movies      []models.Movie `gorm:"many2many:movie_list_items;" json:"movies,omitempty"`
}

func (l *MovieList) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
