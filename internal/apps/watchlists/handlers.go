package watchlists

import (
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/authctx"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/respond"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ListHandler struct {
	service *ListService
}

func NewListHandler(service *ListService) *ListHandler {
	return &ListHandler{service: service}
}

func listAndMovie(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	listID, err := respond.UUIDParam(c, "list_id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	movieID, err := respond.UUIDParam(c, "movie_id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return listID, movieID, nil
}

// ListTypes handles GET /lists/types
func (h *ListHandler) ListTypes(c *fiber.Ctx) error {
	types, err := h.service.ListTypes()
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(fiber.Map{"data": types})
}

// CreateListType handles POST /admin/lists/types
func (h *ListHandler) CreateListType(c *fiber.Ctx) error {
	var req dto.CreateListTypeRequest
	if err := respond.Body(c, &req); err != nil {
		return respond.Error(c, err)
	}
	lt, err := h.service.CreateListType(&req)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(lt)
}

// CreateList handles POST /lists
func (h *ListHandler) CreateList(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return respond.Unauthorized(c)
	}
	var req dto.CreateListRequest
	if err := respond.Body(c, &req); err != nil {
		return respond.Error(c, err)
	}
	list, err := h.service.CreateList(userID, &req)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(list)
}

// UserLists handles GET /lists/users/:user_id
func (h *ListHandler) UserLists(c *fiber.Ctx) error {
	userID, err := respond.UUIDParam(c, "user_id")
	if err != nil {
		return respond.Error(c, err)
	}
	lists, err := h.service.UserLists(userID)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(fiber.Map{"data": lists})
}

func (h *ListHandler) GetList(c *fiber.Ctx) error {
	listID, err := respond.UUIDParam(c, "list_id")
	if err != nil {
		return respond.Error(c, err)
	}
	list, err := h.service.GetList(listID)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(list)
}

func (h *ListHandler) DeleteList(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return respond.Unauthorized(c)
	}
	listID, err := respond.UUIDParam(c, "list_id")
	if err != nil {
		return respond.Error(c, err)
	}
	if err := h.service.DeleteList(listID, userID); err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(fiber.Map{"message": "List deleted"})
}

// AddMovie handles POST /lists/:list_id/movies/:movie_id
func (h *ListHandler) AddMovie(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return respond.Unauthorized(c)
	}
	listID, movieID, err := listAndMovie(c)
	if err != nil {
		return respond.Error(c, err)
	}
	list, err := h.service.AddMovie(listID, userID, movieID)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(list)
}

// RemoveMovie handles DELETE /lists/:list_id/movies/:movie_id
func (h *ListHandler) RemoveMovie(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return respond.Unauthorized(c)
	}
	listID, movieID, err := listAndMovie(c)
	if err != nil {
		return respond.Error(c, err)
	}
	if err := h.service.RemoveMovie(listID, userID, movieID); err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(fiber.Map{"message": "Movie removed"})
}
