package threads

import (
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/authctx"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/respond"
	"github.com/gofiber/fiber/v2"
)

type ThreadHandler struct {
	service *ThreadService
}

func NewThreadHandler(service *ThreadService) *ThreadHandler {
	return &ThreadHandler{service: service}
}

// CreateThread handles POST /threads/movies/:movie_id
func (h *ThreadHandler) CreateThread(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return respond.Unauthorized(c)
	}
	movieID, err := respond.UUIDParam(c, "movie_id")
	if err != nil {
		return respond.Error(c, err)
	}
	var req dto.CreateThreadRequest
	if err := respond.Body(c, &req); err != nil {
		return respond.Error(c, err)
	}

	thread, err := h.service.CreateThread(movieID, userID, &req)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(thread)
}

// ListThreads handles GET /threads/movies/:movie_id
func (h *ThreadHandler) ListThreads(c *fiber.Ctx) error {
	movieID, err := respond.UUIDParam(c, "movie_id")
	if err != nil {
		return respond.Error(c, err)
	}
	limit, offset := respond.Page(c, 20, 100)

	threads, total, err := h.service.ListThreads(movieID, limit, offset)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(fiber.Map{
		"data": threads, "total": total,
		"limit": limit, "offset": offset,
	})
}

func (h *ThreadHandler) GetThread(c *fiber.Ctx) error {
	threadID, err := respond.UUIDParam(c, "thread_id")
	if err != nil {
		return respond.Error(c, err)
	}
	thread, err := h.service.GetThread(threadID)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(thread)
}

// ListComments handles GET /threads/:thread_id/comments
func (h *ThreadHandler) ListComments(c *fiber.Ctx) error {
	threadID, err := respond.UUIDParam(c, "thread_id")
	if err != nil {
		return respond.Error(c, err)
	}
	limit, offset := respond.Page(c, 50, 200)

	comments, total, err := h.service.ListComments(threadID, limit, offset)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(fiber.Map{
		"data": comments, "total": total,
		"limit": limit, "offset": offset,
	})
}

// AddComment handles POST /threads/:thread_id/comments
func (h *ThreadHandler) AddComment(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return respond.Unauthorized(c)
	}
	threadID, err := respond.UUIDParam(c, "thread_id")
	if err != nil {
		return respond.Error(c, err)
	}
	var req dto.CommentRequest
	if err := respond.Body(c, &req); err != nil {
		return respond.Error(c, err)
	}

	comment, err := h.service.AddComment(threadID, userID, req.Content)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// EditComment handles PUT /threads/comments/:comment_id
func (h *ThreadHandler) EditComment(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return respond.Unauthorized(c)
	}
	commentID, err := respond.UUIDParam(c, "comment_id")
	if err != nil {
		return respond.Error(c, err)
	}
	var req dto.CommentRequest
	if err := respond.Body(c, &req); err != nil {
		return respond.Error(c, err)
	}

	comment, err := h.service.EditComment(commentID, userID, req.Content)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment handles DELETE /threads/comments/:comment_id
func (h *ThreadHandler) DeleteComment(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return respond.Unauthorized(c)
	}
	commentID, err := respond.UUIDParam(c, "comment_id")
	if err != nil {
		return respond.Error(c, err)
	}
	if err := h.service.DeleteComment(commentID, userID, authctx.IsAdmin(c)); err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted"})
}
