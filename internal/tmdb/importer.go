package tmdb

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/models"
	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"
)

const defaultMaxCast = 10

// Source is the subset of the TMDB API the importer reads.
type Source interface {
	GetMovie(ctx context.Context, id int) (*MovieDetails, error)
	GetCredits(ctx context.Context, id int) (*Credits, error)
	PopularMovies(ctx context.Context, page int) (*MoviePage, error)
}

// MovieCreator stores an imported movie in the catalog.
type MovieCreator interface {
	CreateMovie(req *dto.CreateMovieRequest) (*models.Movie, error)
}

type Importer struct {
	source  Source
	movies  MovieCreator
	maxCast int
}

func NewImporter(source Source, movies MovieCreator) *Importer {
	return &Importer{source: source, movies: movies, maxCast: defaultMaxCast}
}

// ImportMovie copies one TMDB movie into the catalog. The imported movie
// starts with no ratings; TMDB vote averages are not carried over.
func (i *Importer) ImportMovie(ctx context.Context, tmdbID int) (*models.Movie, error) {
	details, err := i.source.GetMovie(ctx, tmdbID)
	if err != nil {
		return nil, translate(err)
	}
	credits, err := i.source.GetCredits(ctx, tmdbID)
	if err != nil {
		return nil, translate(err)
	}

	movie, err := i.movies.CreateMovie(i.toRequest(details, credits))
	if err != nil {
		return nil, err
	}
	metrics.MovieImports.WithLabelValues("imported").Inc()
	slog.Info("movie imported", "tmdb_id", tmdbID, "movie_id", movie.ID, "title", movie.Title)
	return movie, nil
}

// ImportPopular imports one page of popular movies. Movies already in the
// catalog, missing upstream or carrying unusable data are skipped.
func (i *Importer) ImportPopular(ctx context.Context, page int) (*dto.ImportResult, error) {
	popular, err := i.source.PopularMovies(ctx, page)
	if err != nil {
		return nil, translate(err)
	}

	result := &dto.ImportResult{Imported: []uuid.UUID{}}
	for _, summary := range popular.Results {
		movie, err := i.ImportMovie(ctx, summary.ID)
		switch {
		case err == nil:
			result.Imported = append(result.Imported, movie.ID)
		case apperr.Is(err, apperr.KindConflict), apperr.Is(err, apperr.KindNotFound), apperr.Is(err, apperr.KindValidation):
			metrics.MovieImports.WithLabelValues("skipped").Inc()
			result.Skipped++
		default:
			return result, err
		}
	}
	return result, nil
}

func (i *Importer) toRequest(details *MovieDetails, credits *Credits) *dto.CreateMovieRequest {
	id := details.ID
	req := &dto.CreateMovieRequest{
		TMDBID:      &id,
		Title:       strings.TrimSpace(details.Title),
		Description: details.Overview,
		ReleaseDate: details.ReleaseDate,
	}
	if req.Title == "" {
		req.Title = strings.TrimSpace(details.OriginalTitle)
	}
	if len(details.ProductionCountries) > 0 {
		req.Country = details.ProductionCountries[0].Name
	}
	for _, g := range details.Genres {
		req.Genres = append(req.Genres, g.Name)
	}

	if credits != nil {
		for _, crew := range credits.Crew {
			if crew.Job == "Director" {
				req.Director = crew.Name
				break
			}
		}
		cast := append([]CastCredit(nil), credits.Cast...)
		sort.SliceStable(cast, func(a, b int) bool { return cast[a].Order < cast[b].Order })
		for j := 0; j < len(cast) && j < i.maxCast; j++ {
			req.Cast = append(req.Cast, cast[j].Name)
		}
	}
	return req
}

func translate(err error) error {
	metrics.MovieImports.WithLabelValues("failed").Inc()
	switch {
	case errors.Is(err, ErrNotFound):
		return apperr.NotFound("Movie not found on TMDB")
	case errors.Is(err, ErrNoAPIKey):
		return apperr.Unavailable("Movie import is not configured")
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return apperr.Unavailable("Movie metadata provider unavailable")
	default:
		return err
	}
}
