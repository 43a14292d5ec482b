package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/authctx"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/respond"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserHandler struct {
	userService         *services.UserService
	subscriptionService *services.SubscriptionService
}

func NewUserHandler(userService *services.UserService, subscriptionService *services.SubscriptionService) *UserHandler {
	return &UserHandler{userService: userService, subscriptionService: subscriptionService}
}

// ListUsers handles GET /users?q=
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	limit, offset := respond.Page(c, 20, 100)

	users, total, err := h.userService.ListUsers(c.Query("q"), limit, offset)
	if err != nil {
		return respond.Error(c, err)
	}

	data := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		data = append(data, services.ToUserResponse(&users[i]))
	}
	return c.JSON(fiber.Map{
		"data": data, "total": total,
		"limit": limit, "offset": offset,
	})
}

// GetUser handles GET /users/:user_id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	userID, err := respond.UUIDParam(c, "user_id")
	if err != nil {
		return respond.Error(c, err)
	}
	user, err := h.userService.GetUser(userID)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(services.ToUserResponse(user))
}

// Me handles GET /users/me
func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return respond.Unauthorized(c)
	}
	user, err := h.userService.GetUser(userID)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(user)
}

// UpdateMe handles PUT /users/me
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return respond.Unauthorized(c)
	}

	var req dto.UpdateProfileRequest
	if err := respond.Body(c, &req); err != nil {
		return respond.Error(c, err)
	}

	user, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(user)
}

// MySubscription handles GET /users/me/subscription
func (h *UserHandler) MySubscription(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return respond.Unauthorized(c)
	}

	sub, err := h.subscriptionService.GetSubscription(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(fiber.Map{"status": "none", "is_premium": false})
	}
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(fiber.Map{
		"status":             sub.Status,
		"product_id":         sub.ProductID,
		"current_period_end": sub.CurrentPeriodEnd,
		"is_premium":         sub.Status == services.SubscriptionActive,
	})
}

// SetFlags handles PUT /admin/users/:user_id/flags
func (h *UserHandler) SetFlags(c *fiber.Ctx) error {
	userID, err := respond.UUIDParam(c, "user_id")
	if err != nil {
		return respond.Error(c, err)
	}

	var req dto.UserFlagsRequest
	if err := respond.Body(c, &req); err != nil {
		return respond.Error(c, err)
	}

	user, err := h.userService.SetFlags(userID, &req)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(user)
}
