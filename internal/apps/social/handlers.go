package social

import (
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/authctx"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/respond"
	"github.com/gofiber/fiber/v2"
)

type FollowHandler struct {
	service *FollowService
}

func NewFollowHandler(service *FollowService) *FollowHandler {
	return &FollowHandler{service: service}
}

// Follow handles POST /social/follow/:user_id
func (h *FollowHandler) Follow(c *fiber.Ctx) error {
	me, err := authctx.GetUserID(c)
	if err != nil {
		return respond.Unauthorized(c)
	}
	target, err := respond.UUIDParam(c, "user_id")
	if err != nil {
		return respond.Error(c, err)
	}
	if err := h.service.Follow(me, target); err != nil {
		return respond.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"following": true})
}

// Unfollow handles DELETE /social/follow/:user_id
func (h *FollowHandler) Unfollow(c *fiber.Ctx) error {
	me, err := authctx.GetUserID(c)
	if err != nil {
		return respond.Unauthorized(c)
	}
	target, err := respond.UUIDParam(c, "user_id")
	if err != nil {
		return respond.Error(c, err)
	}
	if err := h.service.Unfollow(me, target); err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(fiber.Map{"following": false})
}

func (h *FollowHandler) Followers(c *fiber.Ctx) error {
	userID, err := respond.UUIDParam(c, "user_id")
	if err != nil {
		return respond.Error(c, err)
	}
	limit, offset := respond.Page(c, 50, 100)
	users, err := h.service.Followers(userID, limit, offset)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(fiber.Map{"data": users, "limit": limit, "offset": offset})
}

func (h *FollowHandler) Following(c *fiber.Ctx) error {
	userID, err := respond.UUIDParam(c, "user_id")
	if err != nil {
		return respond.Error(c, err)
	}
	limit, offset := respond.Page(c, 50, 100)
	users, err := h.service.Following(userID, limit, offset)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(fiber.Map{"data": users, "limit": limit, "offset": offset})
}

// Profile handles GET /social/users/:user_id/profile
func (h *FollowHandler) Profile(c *fiber.Ctx) error {
	me, err := authctx.GetUserID(c)
	if err != nil {
		return respond.Unauthorized(c)
	}
	userID, err := respond.UUIDParam(c, "user_id")
	if err != nil {
		return respond.Error(c, err)
	}
	profile, err := h.service.Profile(me, userID)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(profile)
}

// Feed handles GET /social/feed
func (h *FollowHandler) Feed(c *fiber.Ctx) error {
	me, err := authctx.GetUserID(c)
	if err != nil {
		return respond.Unauthorized(c)
	}
	limit, offset := respond.Page(c, 20, 100)
	feed, err := h.service.Feed(me, limit, offset)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(fiber.Map{"data": feed, "limit": limit, "offset": offset})
}
