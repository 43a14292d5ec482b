package apps

import (
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Plugin is a feature module mounted next to the core catalog.
type Plugin interface {
	// ID returns the plugin identifier. It is also the route prefix.
	ID() string

	// Models returns the list of GORM model pointers for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts plugin routes on the given Fiber group.
	// The group has JWT middleware applied.
	RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}

// AdminPlugin extends Plugin with admin-only routes.
type AdminPlugin interface {
	Plugin

	// RegisterAdminRoutes mounts admin-only routes on the given Fiber group.
	// The group has both JWT and Admin middleware applied.
	RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}

// UserDataOwner is implemented by plugins that store per-user rows. It runs
// inside the account deletion transaction.
type UserDataOwner interface {
	DeleteUserData(tx *gorm.DB, userID uuid.UUID) error
}

// MovieDataOwner is implemented by plugins that store rows referencing a
// movie. It runs inside the movie deletion transaction.
type MovieDataOwner interface {
	DeleteMovieData(tx *gorm.DB, movieID uuid.UUID) error
}
