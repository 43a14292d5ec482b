package tmdb

import (
	"context"
	"fmt"
	"testing"

	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/testutil"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	movies  map[int]*MovieDetails
	credits map[int]*Credits
	popular *MoviePage
	err     error
}

func (f *fakeSource) GetMovie(_ context.Context, id int) (*MovieDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	m, ok := f.movies[id]
	if !ok {
		return nil, fmt.Errorf("movie %d: %w", id, ErrNotFound)
	}
	return m, nil
}

func (f *fakeSource) GetCredits(_ context.Context, id int) (*Credits, error) {
	if c, ok := f.credits[id]; ok {
		return c, nil
	}
	return &Credits{ID: id}, nil
}

func (f *fakeSource) PopularMovies(_ context.Context, _ int) (*MoviePage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.popular, nil
}

func matrixSource() *fakeSource {
	cast := make([]CastCredit, 0, 12)
	for i := 11; i >= 0; i-- {
		cast = append(cast, CastCredit{Name: fmt.Sprintf("Actor %02d", i), Order: i})
	}
	return &fakeSource{
		movies: map[int]*MovieDetails{
			603: {
				ID: 603, Title: "The Matrix", Overview: "Wake up, Neo.", ReleaseDate: "1999-03-30",
				Genres:              []Genre{{Name: "Action"}, {Name: "Science Fiction"}},
				ProductionCountries: []ProductionCountry{{ISO31661: "US", Name: "United States of America"}},
				VoteAverage:         8.2, VoteCount: 20000,
			},
			604: {ID: 604, Title: "The Matrix Reloaded", ReleaseDate: "2003-05-15"},
		},
		credits: map[int]*Credits{
			603: {
				ID:   603,
				Cast: cast,
				Crew: []CrewCredit{
					{Name: "Bill Pope", Job: "Director of Photography"},
					{Name: "Lana Wachowski", Job: "Director"},
				},
			},
		},
		popular: &MoviePage{Page: 1, Results: []MovieSummary{{ID: 603}, {ID: 604}, {ID: 999}}},
	}
}

func TestImportMovieMapsMetadata(t *testing.T) {
	db := testutil.NewDB(t)
	movies := services.NewMovieService(db)
	importer := NewImporter(matrixSource(), movies)

	movie, err := importer.ImportMovie(context.Background(), 603)
	require.NoError(t, err)

	got, err := movies.GetMovie(movie.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", got.Title)
	assert.Equal(t, "Lana Wachowski", got.Director)
	assert.Equal(t, "United States of America", got.Country)
	require.NotNil(t, got.TMDBID)
	assert.Equal(t, 603, *got.TMDBID)
	assert.Len(t, got.Genres, 2)
	assert.Len(t, got.Cast, 10)
	assert.Equal(t, 0, got.RatingCount)
	assert.Equal(t, 0.0, got.Rating)

	names := map[string]bool{}
	for _, c := range got.Cast {
		names[c.Name] = true
	}
	assert.True(t, names["Actor 00"])
	assert.False(t, names["Actor 10"])

	_, err = importer.ImportMovie(context.Background(), 603)
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = importer.ImportMovie(context.Background(), 1)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestImportPopularSkipsKnownAndMissing(t *testing.T) {
	db := testutil.NewDB(t)
	movies := services.NewMovieService(db)
	importer := NewImporter(matrixSource(), movies)

	_, err := importer.ImportMovie(context.Background(), 603)
	require.NoError(t, err)

	result, err := importer.ImportPopular(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, result.Imported, 1)
	assert.Equal(t, 2, result.Skipped)
}

func TestImportTranslatesUpstreamFailures(t *testing.T) {
	db := testutil.NewDB(t)
	importer := NewImporter(&fakeSource{err: gobreaker.ErrOpenState}, services.NewMovieService(db))

	_, err := importer.ImportPopular(context.Background(), 1)
	assert.Equal(t, 503, apperr.Status(err))

	importer = NewImporter(&fakeSource{err: ErrNoAPIKey}, services.NewMovieService(db))
	_, err = importer.ImportMovie(context.Background(), 603)
	assert.Equal(t, 503, apperr.Status(err))
}
