package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

// Handlers bundles the core HTTP handlers.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Health      *handlers.HealthHandler
	Webhook     *handlers.WebhookHandler
	Moderation  *handlers.ModerationHandler
	User        *handlers.UserHandler
	Movie       *handlers.MovieHandler
	Interaction *handlers.InteractionHandler
	Import      *handlers.ImportHandler
}

func perIPLimiter(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}

func Setup(app *fiber.App, cfg *config.Config, db *gorm.DB, h Handlers, plugins []apps.Plugin) {
	// A zero limit disables rate limiting.
	if cfg.RateLimitPerMinute > 0 {
		app.Use(perIPLimiter(cfg.RateLimitPerMinute))
	}

	app.Get("/health", h.Health.Check)
	app.Get("/metrics", metrics.Handler())

	auth := app.Group("/auth")
	if cfg.AuthRateLimit > 0 {
		auth.Use(perIPLimiter(cfg.AuthRateLimit))
	}
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)

	jwt := middleware.JWTProtected(cfg)
	auth.Post("/logout", jwt, h.Auth.Logout)
	auth.Delete("/account", jwt, h.Auth.DeleteAccount)

	app.Post("/webhooks/revenuecat", h.Webhook.HandleRevenueCat)

	self := middleware.SelfOrAdmin(db, cfg, "user_id")

	movies := app.Group("/movies", jwt)
	movies.Get("/", h.Movie.ListMovies)
	movies.Get("/liked_rated_and_wished_list/:user_id", h.Interaction.UserLists)
	movies.Post("/rate/:movie_id/:user_id/:rating", self, h.Interaction.Rate)
	movies.Post("/unrate/:movie_id/:user_id", self, h.Interaction.Unrate)
	movies.Post("/like/:movie_id/:user_id", self, h.Interaction.Like)
	movies.Post("/dislike/:movie_id/:user_id", self, h.Interaction.Dislike)
	movies.Post("/wish/:movie_id/:user_id", self, h.Interaction.Wish)
	movies.Post("/nowish/:movie_id/:user_id", self, h.Interaction.NoWish)
	movies.Get("/:movie_id", h.Movie.GetMovie)
	movies.Get("/:movie_id/users/:user_id", h.Interaction.GetMovieUser)

	app.Get("/ratings", jwt, h.Interaction.AllRatings)
	app.Get("/genres", jwt, h.Movie.ListGenres)
	app.Post("/comments/:comment_id/reports", jwt, h.Moderation.CreateReport)

	users := app.Group("/users", jwt)
	users.Get("/", h.User.ListUsers)
	users.Get("/me", h.User.Me)
	users.Put("/me", h.User.UpdateMe)
	users.Get("/me/subscription", h.User.MySubscription)
	users.Get("/:user_id", h.User.GetUser)

	admin := app.Group("/admin", jwt, middleware.AdminRequired(db, cfg))
	admin.Post("/movies", h.Movie.CreateMovie)
	admin.Put("/movies/:movie_id", h.Movie.UpdateMovie)
	admin.Delete("/movies/:movie_id", h.Movie.DeleteMovie)
	admin.Post("/movies/:movie_id/recalculate", h.Movie.RecalculateAggregates)
	admin.Post("/genres", h.Movie.CreateGenre)
	admin.Put("/users/:user_id/flags", h.User.SetFlags)
	admin.Get("/reports", h.Moderation.ListReports)
	admin.Put("/reports/:report_id", h.Moderation.ActionReport)
	admin.Post("/import/movies/:tmdb_id", h.Import.ImportMovie)
	admin.Post("/import/popular", h.Import.ImportPopular)
	admin.Get("/import/search", h.Import.Search)

	for _, p := range plugins {
		p.RegisterRoutes(app.Group("/"+p.ID(), jwt), db, cfg)
		if ap, ok := p.(apps.AdminPlugin); ok {
			ap.RegisterAdminRoutes(admin.Group("/"+p.ID()), db, cfg)
		}
	}
}
