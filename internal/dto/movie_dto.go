package dto

import "github.com/google/uuid"

type CreateMovieRequest struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description"`
	Director    string   `json:"director" validate:"max=255"`
	Country     string   `json:"country" validate:"max=100"`
	ReleaseDate string   `json:"release_date" validate:"omitempty,datetime=2006-01-02"`
	Rating      float64  `json:"rating" validate:"gte=0,lte=5"`
	RatingCount int      `json:"rating_count" validate:"gte=0"`
	Genres      []string `json:"genres" validate:"dive,required,max=100"`
	Cast        []string `json:"cast" validate:"dive,required,max=255"`
	TMDBID      *int     `json:"tmdb_id,omitempty"`
}

type UpdateMovieRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description"`
	Director    *string  `json:"director" validate:"omitempty,max=255"`
	Country     *string  `json:"country" validate:"omitempty,max=100"`
	ReleaseDate *string  `json:"release_date" validate:"omitempty,datetime=2006-01-02"`
	Genres      []string `json:"genres" validate:"omitempty,dive,required,max=100"`
	Cast        []string `json:"cast" validate:"omitempty,dive,required,max=255"`
}

type CreateGenreRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// MovieFilter drives catalog listing.
type MovieFilter struct {
	Query  string
	Genre  string
	Sort   string
	Limit  int
	Offset int
}

// MovieUserResponse is the junction record together with the movie aggregates
// it affects.
type MovieUserResponse struct {
	MovieID     uuid.UUID `json:"movie_id"`
	UserID      uuid.UUID `json:"user_id"`
	Rating      *float64  `json:"rating"`
	Liked       bool      `json:"liked"`
	Wished      bool      `json:"wished"`
	MovieRating float64   `json:"movie_rating"`
	RatingCount int       `json:"rating_count"`
	Likes       int       `json:"likes"`
}

type LikeResponse struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

type WishResponse struct {
	Wished bool `json:"wished"`
}

type RatedMovie struct {
	MovieID uuid.UUID `json:"movie_id"`
	Title   string    `json:"title"`
	Rating  float64   `json:"rating"`
}

type UserMovieLists struct {
	LikedMovies  []string     `json:"liked_movies"`
	RatedMovies  []RatedMovie `json:"rated_movies"`
	WishedMovies []string     `json:"wished_movies"`
}

// RatingFeedItem combines a rating with the latest comment on the movie.
type RatingFeedItem struct {
	MovieID     uuid.UUID `json:"movie_id"`
	Title       string    `json:"title"`
	Rating      float64   `json:"rating"`
	UserID      uuid.UUID `json:"user_id"`
	UserName    string    `json:"user_name"`
	Comment     string    `json:"comment,omitempty"`
	CommentedBy string    `json:"commented_by,omitempty"`
	TimeSince   string    `json:"time_since,omitempty"`
}

type ImportResult struct {
	Imported []uuid.UUID `json:"imported"`
	Skipped  int         `json:"skipped"`
}
