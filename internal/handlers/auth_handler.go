package handlers

import (
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/authctx"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/respond"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := respond.Body(c, &req); err != nil {
		return respond.Error(c, err)
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := respond.Body(c, &req); err != nil {
		return respond.Error(c, err)
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := respond.Body(c, &req); err != nil {
		return respond.Error(c, err)
	}

	resp, err := h.authService.Refresh(&req)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := respond.Body(c, &req); err != nil {
		return respond.Error(c, err)
	}

	if err := h.authService.Logout(&req); err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return respond.Unauthorized(c)
	}

	var req dto.DeleteAccountRequest
	if err := respond.Body(c, &req); err != nil {
		return respond.Error(c, err)
	}

	if err := h.authService.DeleteAccount(userID, req.Password); err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(fiber.Map{"message": "Account deleted successfully"})
}
