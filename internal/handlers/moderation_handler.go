package handlers

import (
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/authctx"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/respond"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ModerationHandler struct {
	moderationService *services.ModerationService
}

func NewModerationHandler(moderationService *services.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

// CreateReport handles POST /comments/:comment_id/reports
func (h *ModerationHandler) CreateReport(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return respond.Unauthorized(c)
	}
	commentID, err := respond.UUIDParam(c, "comment_id")
	if err != nil {
		return respond.Error(c, err)
	}

	var req dto.CreateReportRequest
	if err := respond.Body(c, &req); err != nil {
		return respond.Error(c, err)
	}

	report, err := h.moderationService.CreateReport(userID, commentID, &req)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// ListReports handles GET /admin/reports
func (h *ModerationHandler) ListReports(c *fiber.Ctx) error {
	limit, offset := respond.Page(c, 20, 100)

	reports, total, err := h.moderationService.ListReports(c.Query("status"), limit, offset)
	if err != nil {
		return respond.Error(c, err)
	}

	return c.JSON(fiber.Map{
		"reports": reports,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// ActionReport handles PUT /admin/reports/:report_id
func (h *ModerationHandler) ActionReport(c *fiber.Ctx) error {
	reportID, err := respond.UUIDParam(c, "report_id")
	if err != nil {
		return respond.Error(c, err)
	}

	var req dto.ActionReportRequest
	if err := respond.Body(c, &req); err != nil {
		return respond.Error(c, err)
	}

	report, err := h.moderationService.ActionReport(reportID, &req)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(report)
}
