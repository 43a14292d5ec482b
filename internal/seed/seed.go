// Package seed loads a starter catalog from a JSON file.
package seed

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/apps/watchlists"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/models"
	"github.com/goccy/go-json"
)

// Catalog is the seed file layout.
type Catalog struct {
	Genres    []string                    `json:"genres"`
	ListTypes []dto.CreateListTypeRequest `json:"list_types"`
	Movies    []dto.CreateMovieRequest    `json:"movies"`
}

type CatalogStore interface {
	CreateGenre(name string) (*models.Genre, error)
	CreateMovie(req *dto.CreateMovieRequest) (*models.Movie, error)
}

type ListTypeStore interface {
	CreateListType(req *dto.CreateListTypeRequest) (*watchlists.ListType, error)
}

// Result counts what Apply created and what already existed.
type Result struct {
	Created int
	Skipped int
}

func LoadFromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var catalog Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	for i := range catalog.Movies {
		if err := dto.Validate(&catalog.Movies[i]); err != nil {
			return nil, fmt.Errorf("movie %d (%q): %w", i, catalog.Movies[i].Title, err)
		}
	}
	return &catalog, nil
}

// Apply creates every entry that does not exist yet. Re-applying the same
// catalog is a no-op.
func Apply(catalog *Catalog, store CatalogStore, lists ListTypeStore) (Result, error) {
	var res Result
	tally := func(err error) error {
		switch {
		case err == nil:
			res.Created++
		case apperr.Is(err, apperr.KindConflict):
			res.Skipped++
		default:
			return err
		}
		return nil
	}

	for _, name := range catalog.Genres {
		_, err := store.CreateGenre(name)
		if err := tally(err); err != nil {
			return res, fmt.Errorf("genre %q: %w", name, err)
		}
	}
	for i := range catalog.ListTypes {
		_, err := lists.CreateListType(&catalog.ListTypes[i])
		if err := tally(err); err != nil {
			return res, fmt.Errorf("list type %q: %w", catalog.ListTypes[i].Name, err)
		}
	}
	for i := range catalog.Movies {
		_, err := store.CreateMovie(&catalog.Movies[i])
		if err := tally(err); err != nil {
			return res, fmt.Errorf("movie %q: %w", catalog.Movies[i].Title, err)
		}
	}

	slog.Info("catalog seeded", "created", res.Created, "skipped", res.Skipped)
	return res, nil
}
