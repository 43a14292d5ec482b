package middleware

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/authctx"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminRequired lets a request through when the caller's email is listed in
// ADMIN_EMAILS or the user row has IsAdmin set.
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)

	return func(c *fiber.Ctx) error {
		userID, err := authctx.GetUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if isAdmin(c, db, adminEmails, userID) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

// SelfOrAdmin restricts a route whose path names a user to that user or an
// admin.
func SelfOrAdmin(db *gorm.DB, cfg *config.Config, param string) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)

	return func(c *fiber.Ctx) error {
		userID, err := authctx.GetUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if target, err := uuid.Parse(c.Params(param)); err == nil && target == userID {
			return c.Next()
		}
		if isAdmin(c, db, adminEmails, userID) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "You can only act on your own account",
		})
	}
}

// ResolveAdmin records whether the caller is an admin without rejecting
// anyone. Handlers read the result through authctx.IsAdmin.
func ResolveAdmin(db *gorm.DB, cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)

	return func(c *fiber.Ctx) error {
		if userID, err := authctx.GetUserID(c); err == nil {
			isAdmin(c, db, adminEmails, userID)
		}
		return c.Next()
	}
}

func isAdmin(c *fiber.Ctx, db *gorm.DB, adminEmails []string, userID uuid.UUID) bool {
	if authctx.IsAdmin(c) {
		return true
	}
	admin := contains(adminEmails, strings.ToLower(authctx.GetEmail(c)))
	if !admin {
		var user models.User
		if err := db.Select("is_admin", "is_active").First(&user, "id = ?", userID).Error; err == nil {
			admin = user.IsAdmin && user.IsActive
		}
	}
	authctx.SetAdmin(c, admin)
	return admin
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(p))
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	if val == "" {
		return false
	}
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
