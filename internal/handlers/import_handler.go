package handlers

import (
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/respond"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/tmdb"
	"github.com/gofiber/fiber/v2"
)

// ImportHandler exposes TMDB imports to admins.
type ImportHandler struct {
	client   *tmdb.Client
	importer *tmdb.Importer
}

func NewImportHandler(client *tmdb.Client, importer *tmdb.Importer) *ImportHandler {
	return &ImportHandler{client: client, importer: importer}
}

// ImportMovie handles POST /admin/import/movies/:tmdb_id
func (h *ImportHandler) ImportMovie(c *fiber.Ctx) error {
	tmdbID, err := strconv.Atoi(c.Params("tmdb_id"))
	if err != nil || tmdbID <= 0 {
		return respond.BadRequest(c, "Invalid tmdb_id")
	}

	movie, err := h.importer.ImportMovie(c.UserContext(), tmdbID)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movie)
}

// ImportPopular handles POST /admin/import/popular?page=N
func (h *ImportHandler) ImportPopular(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	result, err := h.importer.ImportPopular(c.UserContext(), page)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(result)
}

// Search handles GET /admin/import/search?q=
func (h *ImportHandler) Search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return respond.BadRequest(c, "q is required")
	}
	if !h.client.Configured() {
		return respond.Error(c, apperr.Unavailable("Movie import is not configured"))
	}

	page, err := h.client.SearchMovies(c.UserContext(), query, c.QueryInt("page", 1))
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(page)
}
