package threads

import (
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Plugin mounts movie discussion threads and their comments. Thread and
// comment tables are shared models because reports and movie deletion
// reference them.
type Plugin struct {
	service *ThreadService
}

func New(db *gorm.DB, moderationService *services.ModerationService) *Plugin {
	return &Plugin{service: NewThreadService(db, moderationService)}
}

func (p *Plugin) ID() string { return "threads" }

func (p *Plugin) Models() []interface{} { return nil }

func (p *Plugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewThreadHandler(p.service)

	router.Post("/movies/:movie_id", handler.CreateThread)
	router.Get("/movies/:movie_id", handler.ListThreads)
	router.Put("/comments/:comment_id", handler.EditComment)
	router.Delete("/comments/:comment_id", middleware.ResolveAdmin(db, cfg), handler.DeleteComment)
	router.Get("/:thread_id", handler.GetThread)
	router.Get("/:thread_id/comments", handler.ListComments)
	router.Post("/:thread_id/comments", handler.AddComment)
}

func (p *Plugin) DeleteUserData(tx *gorm.DB, userID uuid.UUID) error {
	return p.service.DeleteUserData(tx, userID)
}
