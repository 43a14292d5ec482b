package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/apps/watchlists"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogJSON = `{
  "genres": ["Crime", "Drama"],
  "list_types": [{"name": "Top 10", "description": "Ten favourites"}],
  "movies": [
    {"title": "Heat", "director": "Michael Mann", "release_date": "1995-12-15",
     "rating": 4.5, "rating_count": 10, "genres": ["Crime", "Thriller"], "cast": ["Al Pacino", "Robert De Niro"]}
  ]
}`

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestApplyIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t, &watchlists.ListType{}, &watchlists.MovieList{})
	movies := services.NewMovieService(db)
	lists := watchlists.NewListService(db)

	catalog, err := LoadFromFile(writeFile(t, catalogJSON))
	require.NoError(t, err)

	res, err := Apply(catalog, movies, lists)
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 4}, res)

	res, err = Apply(catalog, movies, lists)
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 4}, res)

	list, total, err := movies.ListMovies(dto.MovieFilter{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, 4.5, list[0].Rating)
	assert.Equal(t, 10, list[0].RatingCount)

	genres, err := movies.ListGenres()
	require.NoError(t, err)
	assert.Len(t, genres, 3)
}

func TestLoadFromFileRejectsBadInput(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadFromFile(writeFile(t, `{"movies": [`))
	assert.Error(t, err)

	_, err = LoadFromFile(writeFile(t, `{"movies": [{"title": "Bad", "rating": 7}]}`))
	assert.Error(t, err)
}
