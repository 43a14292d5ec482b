package dto

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRegister(t *testing.T) {
	err := Validate(&RegisterRequest{Email: "not-an-email", Password: "password123"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, "email must be a valid email", err.Error())

	err = Validate(&RegisterRequest{Email: "a@b.co", Password: "short"})
	require.Error(t, err)
	assert.Equal(t, "password must be at least 8 characters", err.Error())

	assert.NoError(t, Validate(&RegisterRequest{Email: "a@b.co", Password: "password123"}))
}

func TestValidateCreateMovie(t *testing.T) {
	err := Validate(&CreateMovieRequest{Title: "Heat", Rating: 6})
	require.Error(t, err)
	assert.Equal(t, "rating must be <= 5", err.Error())

	err = Validate(&CreateMovieRequest{Title: "Heat", ReleaseDate: "12/15/1995"})
	require.Error(t, err)
	assert.Equal(t, "release_date must be a date in YYYY-MM-DD format", err.Error())

	assert.NoError(t, Validate(&CreateMovieRequest{Title: "Heat", ReleaseDate: "1995-12-15", Genres: []string{"Crime"}}))
}

func TestValidateActionReport(t *testing.T) {
	err := Validate(&ActionReportRequest{Status: "deleted"})
	require.Error(t, err)
	assert.Equal(t, "status must be one of: reviewed actioned dismissed", err.Error())
}
