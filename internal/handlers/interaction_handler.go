package handlers

import (
	"strconv"

	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/respond"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// InteractionHandler serves ratings, likes and wishes under
// /movies/<action>/:movie_id/:user_id.
type InteractionHandler struct {
	service *services.InteractionService
}

func NewInteractionHandler(service *services.InteractionService) *InteractionHandler {
	return &InteractionHandler{service: service}
}

func movieAndUser(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	movieID, err := respond.UUIDParam(c, "movie_id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	userID, err := respond.UUIDParam(c, "user_id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return movieID, userID, nil
}

// Rate handles POST /movies/rate/:movie_id/:user_id/:rating
func (h *InteractionHandler) Rate(c *fiber.Ctx) error {
	movieID, userID, err := movieAndUser(c)
	if err != nil {
		return respond.Error(c, err)
	}
	rating, err := strconv.ParseFloat(c.Params("rating"), 64)
	if err != nil {
		return respond.Error(c, services.ErrRatingRange)
	}

	resp, err := h.service.Rate(movieID, userID, rating)
	if err != nil {
		return respond.Error(c, err)
	}
	metrics.Interactions.WithLabelValues("rate").Inc()
	return c.JSON(resp)
}

// Unrate handles POST /movies/unrate/:movie_id/:user_id
func (h *InteractionHandler) Unrate(c *fiber.Ctx) error {
	movieID, userID, err := movieAndUser(c)
	if err != nil {
		return respond.Error(c, err)
	}
	resp, err := h.service.Unrate(movieID, userID)
	if err != nil {
		return respond.Error(c, err)
	}
	metrics.Interactions.WithLabelValues("unrate").Inc()
	return c.JSON(resp)
}

// Like handles POST /movies/like/:movie_id/:user_id
func (h *InteractionHandler) Like(c *fiber.Ctx) error {
	movieID, userID, err := movieAndUser(c)
	if err != nil {
		return respond.Error(c, err)
	}
	resp, err := h.service.Like(movieID, userID)
	if err != nil {
		return respond.Error(c, err)
	}
	metrics.Interactions.WithLabelValues("like").Inc()
	return c.JSON(resp)
}

// Dislike handles POST /movies/dislike/:movie_id/:user_id
func (h *InteractionHandler) Dislike(c *fiber.Ctx) error {
	movieID, userID, err := movieAndUser(c)
	if err != nil {
		return respond.Error(c, err)
	}
	resp, err := h.service.Dislike(movieID, userID)
	if err != nil {
		return respond.Error(c, err)
	}
	metrics.Interactions.WithLabelValues("dislike").Inc()
	return c.JSON(resp)
}

// Wish handles POST /movies/wish/:movie_id/:user_id
func (h *InteractionHandler) Wish(c *fiber.Ctx) error {
	movieID, userID, err := movieAndUser(c)
	if err != nil {
		return respond.Error(c, err)
	}
	resp, err := h.service.Wish(movieID, userID)
	if err != nil {
		return respond.Error(c, err)
	}
	metrics.Interactions.WithLabelValues("wish").Inc()
	return c.JSON(resp)
}

// NoWish handles POST /movies/nowish/:movie_id/:user_id
func (h *InteractionHandler) NoWish(c *fiber.Ctx) error {
	movieID, userID, err := movieAndUser(c)
	if err != nil {
		return respond.Error(c, err)
	}
	resp, err := h.service.NoWish(movieID, userID)
	if err != nil {
		return respond.Error(c, err)
	}
	metrics.Interactions.WithLabelValues("nowish").Inc()
	return c.JSON(resp)
}

// GetMovieUser handles GET /movies/:movie_id/users/:user_id
func (h *InteractionHandler) GetMovieUser(c *fiber.Ctx) error {
	movieID, userID, err := movieAndUser(c)
	if err != nil {
		return respond.Error(c, err)
	}
	resp, err := h.service.GetMovieUser(movieID, userID)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(resp)
}

// UserLists handles GET /movies/liked_rated_and_wished_list/:user_id
func (h *InteractionHandler) UserLists(c *fiber.Ctx) error {
	userID, err := respond.UUIDParam(c, "user_id")
	if err != nil {
		return respond.Error(c, err)
	}
	lists, err := h.service.UserLists(userID)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(lists)
}

// AllRatings handles GET /ratings
func (h *InteractionHandler) AllRatings(c *fiber.Ctx) error {
	limit, offset := respond.Page(c, 50, 200)
	feed, err := h.service.AllRatings(limit, offset)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(fiber.Map{"data": feed, "limit": limit, "offset": offset})
}
