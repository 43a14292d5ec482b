package handlers

import (
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/respond"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// MovieHandler serves the catalog.
type MovieHandler struct {
	movieService       *services.MovieService
	interactionService *services.InteractionService
}

func NewMovieHandler(movieService *services.MovieService, interactionService *services.InteractionService) *MovieHandler {
	return &MovieHandler{movieService: movieService, interactionService: interactionService}
}

// ListMovies handles GET /movies?q=&genre=&sort=
func (h *MovieHandler) ListMovies(c *fiber.Ctx) error {
	limit, offset := respond.Page(c, 20, 100)

	movies, total, err := h.movieService.ListMovies(dto.MovieFilter{
		Query:  c.Query("q"),
		Genre:  c.Query("genre"),
		Sort:   c.Query("sort"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return respond.Error(c, err)
	}

	return c.JSON(fiber.Map{
		"data": movies, "total": total,
		"limit": limit, "offset": offset,
	})
}

// GetMovie handles GET /movies/:movie_id
func (h *MovieHandler) GetMovie(c *fiber.Ctx) error {
	movieID, err := respond.UUIDParam(c, "movie_id")
	if err != nil {
		return respond.Error(c, err)
	}
	movie, err := h.movieService.GetMovie(movieID)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(movie)
}

// CreateMovie handles POST /admin/movies
func (h *MovieHandler) CreateMovie(c *fiber.Ctx) error {
	var req dto.CreateMovieRequest
	if err := respond.Body(c, &req); err != nil {
		return respond.Error(c, err)
	}

	movie, err := h.movieService.CreateMovie(&req)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movie)
}

// UpdateMovie handles PUT /admin/movies/:movie_id
func (h *MovieHandler) UpdateMovie(c *fiber.Ctx) error {
	movieID, err := respond.UUIDParam(c, "movie_id")
	if err != nil {
		return respond.Error(c, err)
	}

	var req dto.UpdateMovieRequest
	if err := respond.Body(c, &req); err != nil {
		return respond.Error(c, err)
	}

	movie, err := h.movieService.UpdateMovie(movieID, &req)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(movie)
}

// DeleteMovie handles DELETE /admin/movies/:movie_id
func (h *MovieHandler) DeleteMovie(c *fiber.Ctx) error {
	movieID, err := respond.UUIDParam(c, "movie_id")
	if err != nil {
		return respond.Error(c, err)
	}
	if err := h.movieService.DeleteMovie(movieID); err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(fiber.Map{"message": "Movie deleted successfully"})
}

// RecalculateAggregates handles POST /admin/movies/:movie_id/recalculate
func (h *MovieHandler) RecalculateAggregates(c *fiber.Ctx) error {
	movieID, err := respond.UUIDParam(c, "movie_id")
	if err != nil {
		return respond.Error(c, err)
	}
	movie, err := h.interactionService.RecalculateAggregates(movieID)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(movie)
}

// ListGenres handles GET /genres
func (h *MovieHandler) ListGenres(c *fiber.Ctx) error {
	genres, err := h.movieService.ListGenres()
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(genres)
}

// CreateGenre handles POST /admin/genres
func (h *MovieHandler) CreateGenre(c *fiber.Ctx) error {
	var req dto.CreateGenreRequest
	if err := respond.Body(c, &req); err != nil {
		return respond.Error(c, err)
	}
	genre, err := h.movieService.CreateGenre(req.Name)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(genre)
}
