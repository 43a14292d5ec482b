package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/humantime"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinRating = 0.0
	MaxRating = 5.0
)

var (
	ErrMovieNotFound = apperr.NotFound("Movie not found")
	ErrUserNotFound  = apperr.NotFound("User not found")
	ErrRatingRange   = apperr.Validation("Rating must be between 0 and 5")
	ErrNoRating      = apperr.NoOp("No rating to remove")
	ErrNotLiked      = apperr.NoOp("User hasn't liked the movie")
	ErrNotWished     = apperr.NoOp("User hasn't wished the movie")
)

// InteractionService mutates MovieUser rows and keeps Movie.Rating,
// Movie.RatingCount and Movie.Likes consistent with them. Every mutation runs
// in one transaction with the movie row locked.
type InteractionService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewInteractionService(db *gorm.DB) *InteractionService {
	return &InteractionService{db: db, now: time.Now}
}

// Rate inserts or replaces the user's rating and updates the running mean.
func (s *InteractionService) Rate(movieID, userID uuid.UUID, rating float64) (*dto.MovieUserResponse, error) {
	if math.IsNaN(rating) || rating < MinRating || rating > MaxRating {
		return nil, ErrRatingRange
	}

	var resp *dto.MovieUserResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		movie, err := lockMovie(tx, movieID)
		if err != nil {
			return err
		}
		if err := requireUser(tx, userID); err != nil {
			return err
		}
		record, exists, err := findRecord(tx, movieID, userID)
		if err != nil {
			return err
		}

		if record.Rating == nil {
			movie.Rating = (movie.Rating*float64(movie.RatingCount) + rating) / float64(movie.RatingCount+1)
			movie.RatingCount++
		} else if movie.RatingCount > 0 {
			movie.Rating += (rating - *record.Rating) / float64(movie.RatingCount)
		} else {
			// Counter drifted below the junction table; restart from this rating.
			movie.Rating, movie.RatingCount = rating, 1
		}
		movie.Rating = clampRating(movie.Rating)
		record.Rating = &rating

		if err := saveRecord(tx, record, exists); err != nil {
			return err
		}
		if err := saveRatingAggregate(tx, movie); err != nil {
			return err
		}
		resp = toResponse(record, movie)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Unrate removes the user's rating and its contribution to the mean.
func (s *InteractionService) Unrate(movieID, userID uuid.UUID) (*dto.MovieUserResponse, error) {
	var resp *dto.MovieUserResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		movie, err := lockMovie(tx, movieID)
		if err != nil {
			return err
		}
		record, exists, err := findRecord(tx, movieID, userID)
		if err != nil {
			return err
		}
		if !exists || record.Rating == nil {
			return ErrNoRating
		}

		removed := *record.Rating
		if movie.RatingCount <= 1 {
			movie.Rating, movie.RatingCount = 0, 0
		} else {
			movie.Rating = clampRating((movie.Rating*float64(movie.RatingCount) - removed) / float64(movie.RatingCount-1))
			movie.RatingCount--
		}
		record.Rating = nil

		if err := saveRecord(tx, record, true); err != nil {
			return err
		}
		if err := saveRatingAggregate(tx, movie); err != nil {
			return err
		}
		resp = toResponse(record, movie)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Like marks the movie as liked. Liking an already liked movie succeeds
// without changing the counter.
func (s *InteractionService) Like(movieID, userID uuid.UUID) (*dto.LikeResponse, error) {
	var resp *dto.LikeResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		movie, err := lockMovie(tx, movieID)
		if err != nil {
			return err
		}
		if err := requireUser(tx, userID); err != nil {
			return err
		}
		record, exists, err := findRecord(tx, movieID, userID)
		if err != nil {
			return err
		}

		if !record.Liked {
			record.Liked = true
			if err := saveRecord(tx, record, exists); err != nil {
				return err
			}
			if err := adjustLikes(tx, movie, 1); err != nil {
				return err
			}
		}
		resp = &dto.LikeResponse{Liked: true, Likes: movie.Likes}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Dislike removes a like.
func (s *InteractionService) Dislike(movieID, userID uuid.UUID) (*dto.LikeResponse, error) {
	var resp *dto.LikeResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		movie, err := lockMovie(tx, movieID)
		if err != nil {
			return err
		}
		record, exists, err := findRecord(tx, movieID, userID)
		if err != nil {
			return err
		}
		if !exists || !record.Liked {
			return ErrNotLiked
		}

		record.Liked = false
		if err := saveRecord(tx, record, true); err != nil {
			return err
		}
		if err := adjustLikes(tx, movie, -1); err != nil {
			return err
		}
		resp = &dto.LikeResponse{Liked: false, Likes: movie.Likes}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Wish adds the movie to the user's wish list. Idempotent like Like.
func (s *InteractionService) Wish(movieID, userID uuid.UUID) (*dto.WishResponse, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := lockMovie(tx, movieID); err != nil {
			return err
		}
		if err := requireUser(tx, userID); err != nil {
			return err
		}
		record, exists, err := findRecord(tx, movieID, userID)
		if err != nil {
			return err
		}
		if record.Wished {
			return nil
		}
		record.Wished = true
		return saveRecord(tx, record, exists)
	})
	if err != nil {
		return nil, err
	}
	return &dto.WishResponse{Wished: true}, nil
}

// NoWish removes the movie from the user's wish list.
func (s *InteractionService) NoWish(movieID, userID uuid.UUID) (*dto.WishResponse, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := lockMovie(tx, movieID); err != nil {
			return err
		}
		record, exists, err := findRecord(tx, movieID, userID)
		if err != nil {
			return err
		}
		if !exists || !record.Wished {
			return ErrNotWished
		}
		record.Wished = false
		return saveRecord(tx, record, true)
	})
	if err != nil {
		return nil, err
	}
	return &dto.WishResponse{Wished: false}, nil
}

// GetMovieUser returns the junction record, or an empty one when the user
// has not interacted with the movie yet.
func (s *InteractionService) GetMovieUser(movieID, userID uuid.UUID) (*dto.MovieUserResponse, error) {
	var movie models.Movie
	if err := s.db.First(&movie, "id = ?", movieID).Error; err != nil {
		return nil, notFoundOr(err, ErrMovieNotFound)
	}
	if err := requireUser(s.db, userID); err != nil {
		return nil, err
	}
	record, _, err := findRecord(s.db, movieID, userID)
	if err != nil {
		return nil, err
	}
	return toResponse(record, &movie), nil
}

// RatedMovies lists (title, rating) for every movie the user rated.
func (s *InteractionService) RatedMovies(userID uuid.UUID) ([]dto.RatedMovie, error) {
	rated := []dto.RatedMovie{}
	err := s.db.Model(&models.MovieUser{}).
		Select("movies.id AS movie_id, movies.title AS title, movie_users.rating AS rating").
		Joins("JOIN movies ON movies.id = movie_users.movie_id").
		Where("movie_users.user_id = ? AND movie_users.rating IS NOT NULL", userID).
		Order("movies.title").
		Scan(&rated).Error
	return rated, err
}

// LikedMovies lists titles of movies the user liked.
func (s *InteractionService) LikedMovies(userID uuid.UUID) ([]string, error) {
	return s.titlesWhere("movie_users.user_id = ? AND movie_users.liked = ?", userID, true)
}

// WishedMovies lists titles of movies the user wished.
func (s *InteractionService) WishedMovies(userID uuid.UUID) ([]string, error) {
	return s.titlesWhere("movie_users.user_id = ? AND movie_users.wished = ?", userID, true)
}

func (s *InteractionService) titlesWhere(query string, args ...interface{}) ([]string, error) {
	titles := []string{}
	err := s.db.Model(&models.MovieUser{}).
		Joins("JOIN movies ON movies.id = movie_users.movie_id").
		Where(query, args...).
		Order("movies.title").
		Pluck("movies.title", &titles).Error
	return titles, err
}

// UserLists bundles liked, rated and wished movies for a user.
func (s *InteractionService) UserLists(userID uuid.UUID) (*dto.UserMovieLists, error) {
	if err := requireUser(s.db, userID); err != nil {
		return nil, err
	}
	liked, err := s.LikedMovies(userID)
	if err != nil {
		return nil, fmt.Errorf("liked movies: %w", err)
	}
	rated, err := s.RatedMovies(userID)
	if err != nil {
		return nil, fmt.Errorf("rated movies: %w", err)
	}
	wished, err := s.WishedMovies(userID)
	if err != nil {
		return nil, fmt.Errorf("wished movies: %w", err)
	}
	return &dto.UserMovieLists{LikedMovies: liked, RatedMovies: rated, WishedMovies: wished}, nil
}

type ratingRow struct {
	MovieID  uuid.UUID
	Title    string
	Rating   float64
	UserID   uuid.UUID
	Email    string
	UserName string
}

// AllRatings builds the ratings feed: every rating, newest first, joined with
// the most recent comment posted on the movie.
func (s *InteractionService) AllRatings(limit, offset int) ([]dto.RatingFeedItem, error) {
	var rows []ratingRow
	err := s.db.Model(&models.MovieUser{}).
		Select("movies.id AS movie_id, movies.title AS title, movie_users.rating AS rating, " +
			"users.id AS user_id, users.email AS email, users.name AS user_name").
		Joins("JOIN movies ON movies.id = movie_users.movie_id").
		Joins("JOIN users ON users.id = movie_users.user_id").
		Where("movie_users.rating IS NOT NULL").
		Order("movie_users.updated_at DESC").
		Limit(limit).Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	movieIDs := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		movieIDs = append(movieIDs, r.MovieID)
	}
	latest, err := s.latestComments(movieIDs)
	if err != nil {
		return nil, err
	}

	now := s.now()
	feed := make([]dto.RatingFeedItem, 0, len(rows))
	for _, r := range rows {
		rater := models.User{Email: r.Email, Name: r.UserName}
		item := dto.RatingFeedItem{
			MovieID:  r.MovieID,
			Title:    r.Title,
			Rating:   r.Rating,
			UserID:   r.UserID,
			UserName: rater.DisplayName(),
		}
		if c, ok := latest[r.MovieID]; ok {
			item.Comment = c.Content
			if c.User != nil {
				item.CommentedBy = c.User.DisplayName()
			}
			item.TimeSince = humantime.Since(c.CreatedAt, now)
		}
		feed = append(feed, item)
	}
	return feed, nil
}

func (s *InteractionService) latestComments(movieIDs []uuid.UUID) (map[uuid.UUID]models.Comment, error) {
	out := make(map[uuid.UUID]models.Comment, len(movieIDs))
	if len(movieIDs) == 0 {
		return out, nil
	}

	var comments []models.Comment
	var threadMovies []struct {
		ID      uuid.UUID
		MovieID uuid.UUID
	}
	if err := s.db.Model(&models.Thread{}).
		Select("id, movie_id").
		Where("movie_id IN ?", movieIDs).
		Scan(&threadMovies).Error; err != nil {
		return nil, err
	}
	if len(threadMovies) == 0 {
		return out, nil
	}
	movieOf := make(map[uuid.UUID]uuid.UUID, len(threadMovies))
	threadIDs := make([]uuid.UUID, 0, len(threadMovies))
	for _, t := range threadMovies {
		movieOf[t.ID] = t.MovieID
		threadIDs = append(threadIDs, t.ID)
	}

	if err := s.db.Preload("User").
		Where("thread_id IN ?", threadIDs).
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	for _, c := range comments {
		movieID := movieOf[c.ThreadID]
		if _, seen := out[movieID]; !seen {
			out[movieID] = c
		}
	}
	return out, nil
}

// RecalculateAggregates recomputes a movie's counters from the junction table.
func (s *InteractionService) RecalculateAggregates(movieID uuid.UUID) (*models.Movie, error) {
	var movie *models.Movie
	err := s.db.Transaction(func(tx *gorm.DB) error {
		m, err := lockMovie(tx, movieID)
		if err != nil {
			return err
		}
		var agg struct {
			Rating      float64
			RatingCount int
		}
		if err := tx.Model(&models.MovieUser{}).
			Select("COALESCE(AVG(rating), 0) AS rating, COUNT(rating) AS rating_count").
			Where("movie_id = ?", movieID).
			Scan(&agg).Error; err != nil {
			return err
		}
		var likes int64
		if err := tx.Model(&models.MovieUser{}).
			Where("movie_id = ? AND liked = ?", movieID, true).
			Count(&likes).Error; err != nil {
			return err
		}

		m.Rating, m.RatingCount, m.Likes = clampRating(agg.Rating), agg.RatingCount, int(likes)
		if err := tx.Model(&models.Movie{}).Where("id = ?", movieID).Updates(map[string]interface{}{
			"rating":       m.Rating,
			"rating_count": m.RatingCount,
			"likes":        m.Likes,
		}).Error; err != nil {
			return err
		}
		movie = m
		return nil
	})
	return movie, err
}

// ForgetUser removes every interaction of a user inside tx, taking each
// rating and like back out of the movie aggregates.
func (s *InteractionService) ForgetUser(tx *gorm.DB, userID uuid.UUID) error {
	var records []models.MovieUser
	if err := tx.Where("user_id = ?", userID).Find(&records).Error; err != nil {
		return err
	}
	for i := range records {
		record := &records[i]
		movie, err := lockMovie(tx, record.MovieID)
		if err != nil {
			if errors.Is(err, ErrMovieNotFound) {
				continue
			}
			return err
		}
		if record.Rating != nil {
			if movie.RatingCount <= 1 {
				movie.Rating, movie.RatingCount = 0, 0
			} else {
				movie.Rating = clampRating((movie.Rating*float64(movie.RatingCount) - *record.Rating) / float64(movie.RatingCount-1))
				movie.RatingCount--
			}
			if err := saveRatingAggregate(tx, movie); err != nil {
				return err
			}
		}
		if record.Liked {
			if err := adjustLikes(tx, movie, -1); err != nil {
				return err
			}
		}
	}
	return tx.Where("user_id = ?", userID).Delete(&models.MovieUser{}).Error
}

// --- helpers shared by the mutations above ---

func lockMovie(tx *gorm.DB, movieID uuid.UUID) (*models.Movie, error) {
	var movie models.Movie
	if err := database.ForUpdate(tx).First(&movie, "id = ?", movieID).Error; err != nil {
		return nil, notFoundOr(err, ErrMovieNotFound)
	}
	return &movie, nil
}

func requireUser(db *gorm.DB, userID uuid.UUID) error {
	var count int64
	if err := db.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}

// findRecord loads the junction row, returning a fresh zero record when absent.
func findRecord(db *gorm.DB, movieID, userID uuid.UUID) (*models.MovieUser, bool, error) {
	var record models.MovieUser
	err := db.Where("movie_id = ? AND user_id = ?", movieID, userID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.MovieUser{MovieID: movieID, UserID: userID}, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &record, true, nil
}

// saveRecord creates, updates or prunes the junction row. Rows with no
// rating, like or wish left are deleted.
func saveRecord(tx *gorm.DB, record *models.MovieUser, exists bool) error {
	switch {
	case record.Empty() && exists:
		return tx.Where("movie_id = ? AND user_id = ?", record.MovieID, record.UserID).
			Delete(&models.MovieUser{}).Error
	case record.Empty():
		return nil
	case exists:
		return tx.Save(record).Error
	default:
		return tx.Create(record).Error
	}
}

func saveRatingAggregate(tx *gorm.DB, movie *models.Movie) error {
	return tx.Model(&models.Movie{}).Where("id = ?", movie.ID).Updates(map[string]interface{}{
		"rating":       movie.Rating,
		"rating_count": movie.RatingCount,
	}).Error
}

func adjustLikes(tx *gorm.DB, movie *models.Movie, delta int) error {
	movie.Likes += delta
	if movie.Likes < 0 {
		movie.Likes = 0
	}
	return tx.Model(&models.Movie{}).Where("id = ?", movie.ID).Update("likes", movie.Likes).Error
}

func clampRating(r float64) float64 {
	return math.Max(MinRating, math.Min(MaxRating, r))
}

func toResponse(record *models.MovieUser, movie *models.Movie) *dto.MovieUserResponse {
	return &dto.MovieUserResponse{
		MovieID:     record.MovieID,
		UserID:      record.UserID,
		Rating:      record.Rating,
		Liked:       record.Liked,
		Wished:      record.Wished,
		MovieRating: movie.Rating,
		RatingCount: movie.RatingCount,
		Likes:       movie.Likes,
	}
}

func notFoundOr(err error, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}
