package watchlists

import (
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Plugin mounts user-curated movie lists and the admin list type catalog.
type Plugin struct {
	service *ListService
}

func New(db *gorm.DB) *Plugin {
	return &Plugin{service: NewListService(db)}
}

// Service exposes the list service for startup seeding.
func (p *Plugin) Service() *ListService { return p.service }

func (p *Plugin) ID() string { return "lists" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{
		&ListType{},
		&MovieList{},
	}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewListHandler(p.service)

	router.Get("/types", handler.ListTypes)
	router.Post("/", handler.CreateList)
	router.Get("/users/:user_id", handler.UserLists)
	router.Get("/:list_id", handler.GetList)
	router.Delete("/:list_id", handler.DeleteList)
	router.Post("/:list_id/movies/:movie_id", handler.AddMovie)
	router.Delete("/:list_id/movies/:movie_id", handler.RemoveMovie)
}

func (p *Plugin) RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewListHandler(p.service)

	router.Post("/types", handler.CreateListType)
}

func (p *Plugin) DeleteUserData(tx *gorm.DB, userID uuid.UUID) error {
	return p.service.DeleteUserData(tx, userID)
}

func (p *Plugin) DeleteMovieData(tx *gorm.DB, movieID uuid.UUID) error {
	return p.service.DeleteMovieData(tx, movieID)
}
