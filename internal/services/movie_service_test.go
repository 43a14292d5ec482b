package services

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func titles(movies []models.Movie) []string {
	out := make([]string, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.Title)
	}
	return out
}

func TestCreateMovie(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewMovieService(db)

	movie, err := svc.CreateMovie(&dto.CreateMovieRequest{
		Title:       "Seven Samurai",
		Director:    "Akira Kurosawa",
		Country:     "Japan",
		ReleaseDate: "1954-04-26",
		Rating:      4.5,
		RatingCount: 10,
		Genres:      []string{"Drama", "Action", "drama", " "},
		Cast:        []string{"Toshiro Mifune", "Takashi Shimura"},
	})
	require.NoError(t, err)
	assert.Equal(t, 4.5, movie.Rating)
	assert.Equal(t, 10, movie.RatingCount)

	got, err := svc.GetMovie(movie.ID)
	require.NoError(t, err)
	assert.Len(t, got.Genres, 2)
	assert.Len(t, got.Cast, 2)
	require.NotNil(t, got.ReleaseDate)
	assert.Equal(t, 1954, got.ReleaseDate.Year())

	_, err = svc.CreateMovie(&dto.CreateMovieRequest{Title: "seven samurai"})
	assert.ErrorIs(t, err, ErrTitleTaken)

	// Genres are shared by name.
	_, err = svc.CreateMovie(&dto.CreateMovieRequest{Title: "Ran", Genres: []string{"DRAMA"}})
	require.NoError(t, err)
	genres, err := svc.ListGenres()
	require.NoError(t, err)
	assert.Len(t, genres, 2)
}

func TestCreateMovieZeroCountResetsRating(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewMovieService(db)

	movie, err := svc.CreateMovie(&dto.CreateMovieRequest{Title: "Tampopo", Rating: 3})
	require.NoError(t, err)
	assert.Equal(t, 0.0, movie.Rating)

	_, err = svc.CreateMovie(&dto.CreateMovieRequest{Title: "Bad", ReleaseDate: "26/04/1954"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestListMovies(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewMovieService(db)

	for _, req := range []dto.CreateMovieRequest{
		{Title: "Alien", Director: "Ridley Scott", Rating: 4.2, RatingCount: 3, Genres: []string{"Horror", "Sci-Fi"}},
		{Title: "Blade Runner", Director: "Ridley Scott", Rating: 4.6, RatingCount: 5, Genres: []string{"Sci-Fi"}},
		{Title: "Clueless", Director: "Amy Heckerling", Rating: 3.1, RatingCount: 2, Genres: []string{"Comedy"}},
	} {
		req := req
		_, err := svc.CreateMovie(&req)
		require.NoError(t, err)
	}

	all, total, err := svc.ListMovies(dto.MovieFilter{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, []string{"Alien", "Blade Runner", "Clueless"}, titles(all))

	byRating, _, err := svc.ListMovies(dto.MovieFilter{Sort: "rating", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"Blade Runner", "Alien", "Clueless"}, titles(byRating))

	scott, total, err := svc.ListMovies(dto.MovieFilter{Query: "ridley", Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, scott, 1)

	scifi, _, err := svc.ListMovies(dto.MovieFilter{Genre: "sci-fi", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alien", "Blade Runner"}, titles(scifi))

	_, _, err = svc.ListMovies(dto.MovieFilter{Sort: "random", Limit: 10})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestUpdateMovie(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewMovieService(db)
	movie, err := svc.CreateMovie(&dto.CreateMovieRequest{Title: "Stalker", Genres: []string{"Drama"}})
	require.NoError(t, err)
	_, err = svc.CreateMovie(&dto.CreateMovieRequest{Title: "Solaris"})
	require.NoError(t, err)

	director := "Andrei Tarkovsky"
	updated, err := svc.UpdateMovie(movie.ID, &dto.UpdateMovieRequest{
		Director: &director,
		Genres:   []string{"Sci-Fi", "Mystery"},
	})
	require.NoError(t, err)
	assert.Equal(t, director, updated.Director)
	assert.Len(t, updated.Genres, 2)

	taken := "Solaris"
	_, err = svc.UpdateMovie(movie.ID, &dto.UpdateMovieRequest{Title: &taken})
	assert.ErrorIs(t, err, ErrTitleTaken)

	same := "Stalker"
	_, err = svc.UpdateMovie(movie.ID, &dto.UpdateMovieRequest{Title: &same})
	assert.NoError(t, err)

	_, err = svc.UpdateMovie(uuid.New(), &dto.UpdateMovieRequest{Title: &same})
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestDeleteMovieRemovesDependents(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewMovieService(db)
	interactions := NewInteractionService(db)
	user := testutil.CreateUser(t, db, "u@example.com")

	var hooked uuid.UUID
	svc.OnDeleteMovie(func(tx *gorm.DB, movieID uuid.UUID) error {
		hooked = movieID
		return nil
	})

	movie, err := svc.CreateMovie(&dto.CreateMovieRequest{Title: "Psycho", Genres: []string{"Horror"}})
	require.NoError(t, err)
	_, err = interactions.Rate(movie.ID, user.ID, 5)
	require.NoError(t, err)

	thread := models.Thread{MovieID: movie.ID, UserID: user.ID, Title: "Shower scene"}
	require.NoError(t, db.Create(&thread).Error)
	comment := models.Comment{ThreadID: thread.ID, UserID: user.ID, Content: "classic"}
	require.NoError(t, db.Create(&comment).Error)
	require.NoError(t, db.Create(&models.Report{ReporterID: user.ID, CommentID: comment.ID, Reason: "spoiler", Status: ReportPending}).Error)

	require.NoError(t, svc.DeleteMovie(movie.ID))
	assert.Equal(t, movie.ID, hooked)

	for _, model := range []interface{}{&models.Movie{}, &models.MovieUser{}, &models.Thread{}, &models.Comment{}, &models.Report{}} {
		var n int64
		require.NoError(t, db.Unscoped().Model(model).Count(&n).Error)
		assert.EqualValues(t, 0, n)
	}
	var links int64
	require.NoError(t, db.Table("movie_genres").Count(&links).Error)
	assert.EqualValues(t, 0, links)

	assert.ErrorIs(t, svc.DeleteMovie(movie.ID), ErrMovieNotFound)
}

func TestCreateGenre(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewMovieService(db)

	g, err := svc.CreateGenre("Western")
	require.NoError(t, err)
	assert.Equal(t, "Western", g.Name)

	_, err = svc.CreateGenre("western")
	assert.ErrorIs(t, err, ErrGenreTaken)
}
