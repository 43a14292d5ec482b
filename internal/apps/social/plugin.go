package social

import (
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Plugin mounts the follow graph, profiles and the activity feed.
type Plugin struct {
	service *FollowService
}

func New(db *gorm.DB) *Plugin {
	return &Plugin{service: NewFollowService(db)}
}

func (p *Plugin) ID() string { return "social" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{&Follow{}}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewFollowHandler(p.service)

	router.Post("/follow/:user_id", handler.Follow)
	router.Delete("/follow/:user_id", handler.Unfollow)
	router.Get("/feed", handler.Feed)
	router.Get("/users/:user_id/followers", handler.Followers)
	router.Get("/users/:user_id/following", handler.Following)
	router.Get("/users/:user_id/profile", handler.Profile)
}

func (p *Plugin) DeleteUserData(tx *gorm.DB, userID uuid.UUID) error {
	return p.service.DeleteUserData(tx, userID)
}
