package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTitleTaken  = apperr.Conflict("Movie with this title already exists")
	ErrTMDBIDTaken = apperr.Conflict("Movie with this TMDB id already exists")
	ErrGenreTaken  = apperr.Conflict("Genre already exists")
)

const releaseDateLayout = "2006-01-02"

var movieSorts = map[string]string{
	"title":        "movies.title ASC",
	"rating":       "movies.rating DESC, movies.rating_count DESC",
	"likes":        "movies.likes DESC",
	"release_date": "movies.release_date DESC",
}

// MovieCleanup removes rows that reference a movie before it is deleted.
type MovieCleanup func(tx *gorm.DB, movieID uuid.UUID) error

// MovieService owns the catalog: movies, genres and cast.
type MovieService struct {
	db       *gorm.DB
	cleanups []MovieCleanup
}

func NewMovieService(db *gorm.DB) *MovieService {
	return &MovieService{db: db}
}

// OnDeleteMovie registers a cleanup step for DeleteMovie.
func (s *MovieService) OnDeleteMovie(fn MovieCleanup) {
	s.cleanups = append(s.cleanups, fn)
}

// CreateMovie adds a catalog entry. Rating and RatingCount seed the
// aggregates; a zero count forces a zero rating.
func (s *MovieService) CreateMovie(req *dto.CreateMovieRequest) (*models.Movie, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperr.Validation("title is required")
	}
	releaseDate, err := parseReleaseDate(req.ReleaseDate)
	if err != nil {
		return nil, err
	}

	movie := models.Movie{
		TMDBID:      req.TMDBID,
		Title:       title,
		Description: req.Description,
		Director:    strings.TrimSpace(req.Director),
		Country:     strings.TrimSpace(req.Country),
		ReleaseDate: releaseDate,
		Rating:      req.Rating,
		RatingCount: req.RatingCount,
	}
	if movie.RatingCount == 0 {
		movie.Rating = 0
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureTitleFree(tx, title, uuid.Nil); err != nil {
			return err
		}
		if req.TMDBID != nil {
			var n int64
			if err := tx.Model(&models.Movie{}).Where("tmdb_id = ?", *req.TMDBID).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return ErrTMDBIDTaken
			}
		}

		genres, err := findOrCreateGenres(tx, req.Genres)
		if err != nil {
			return err
		}
		cast, err := findOrCreateCast(tx, req.Cast)
		if err != nil {
			return err
		}
		movie.Genres = genres
		movie.Cast = cast
		return tx.Create(&movie).Error
	})
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (s *MovieService) GetMovie(movieID uuid.UUID) (*models.Movie, error) {
	var movie models.Movie
	err := s.db.Preload("Genres").Preload("Cast").First(&movie, "id = ?", movieID).Error
	if err != nil {
		return nil, notFoundOr(err, ErrMovieNotFound)
	}
	return &movie, nil
}

// ListMovies searches the catalog by title or director, filters by genre
// name and orders by one of title, rating, likes or release_date.
func (s *MovieService) ListMovies(filter dto.MovieFilter) ([]models.Movie, int64, error) {
	order, ok := movieSorts[filter.Sort]
	if filter.Sort == "" {
		order, ok = movieSorts["title"], true
	}
	if !ok {
		return nil, 0, apperr.Validation("sort must be one of: title rating likes release_date")
	}

	q := s.db.Model(&models.Movie{})
	if query := strings.TrimSpace(filter.Query); query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(movies.title) LIKE ? OR LOWER(movies.director) LIKE ?", like, like)
	}
	if genre := strings.TrimSpace(filter.Genre); genre != "" {
		q = q.Where("movies.id IN (?)", s.db.Table("movie_genres").
			Select("movie_genres.movie_id").
			Joins("JOIN genres ON genres.id = movie_genres.genre_id").
			Where("LOWER(genres.name) = ?", strings.ToLower(genre)))
	}

	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	movies := []models.Movie{}
	err := q.Preload("Genres").
		Order(order).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&movies).Error
	if err != nil {
		return nil, 0, err
	}
	return movies, total, nil
}

// UpdateMovie edits catalog fields. Aggregates are not editable here.
func (s *MovieService) UpdateMovie(movieID uuid.UUID, req *dto.UpdateMovieRequest) (*models.Movie, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var movie models.Movie
		if err := tx.First(&movie, "id = ?", movieID).Error; err != nil {
			return notFoundOr(err, ErrMovieNotFound)
		}

		updates := map[string]interface{}{}
		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			if title == "" {
				return apperr.Validation("title is required")
			}
			if err := ensureTitleFree(tx, title, movieID); err != nil {
				return err
			}
			updates["title"] = title
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.Director != nil {
			updates["director"] = strings.TrimSpace(*req.Director)
		}
		if req.Country != nil {
			updates["country"] = strings.TrimSpace(*req.Country)
		}
		if req.ReleaseDate != nil {
			date, err := parseReleaseDate(*req.ReleaseDate)
			if err != nil {
				return err
			}
			updates["release_date"] = date
		}
		if len(updates) > 0 {
			if err := tx.Model(&movie).Updates(updates).Error; err != nil {
				return err
			}
		}

		if req.Genres != nil {
			genres, err := findOrCreateGenres(tx, req.Genres)
			if err != nil {
				return err
			}
			if err := tx.Model(&movie).Association("Genres").Replace(genres); err != nil {
				return err
			}
		}
		if req.Cast != nil {
			cast, err := findOrCreateCast(tx, req.Cast)
			if err != nil {
				return err
			}
			if err := tx.Model(&movie).Association("Cast").Replace(cast); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetMovie(movieID)
}

// DeleteMovie removes a movie with its interactions, threads and comments.
func (s *MovieService) DeleteMovie(movieID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var movie models.Movie
		if err := tx.First(&movie, "id = ?", movieID).Error; err != nil {
			return notFoundOr(err, ErrMovieNotFound)
		}

		for _, cleanup := range s.cleanups {
			if err := cleanup(tx, movieID); err != nil {
				return err
			}
		}

		threadIDs := tx.Unscoped().Model(&models.Thread{}).Select("id").Where("movie_id = ?", movieID)
		commentIDs := tx.Unscoped().Model(&models.Comment{}).Select("id").Where("thread_id IN (?)", threadIDs)
		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&models.Report{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("thread_id IN (?)", threadIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("movie_id = ?", movieID).Delete(&models.Thread{}).Error; err != nil {
			return err
		}
		if err := tx.Where("movie_id = ?", movieID).Delete(&models.MovieUser{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&movie).Association("Genres").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&movie).Association("Cast").Clear(); err != nil {
			return err
		}
		return tx.Delete(&movie).Error
	})
}

func (s *MovieService) ListGenres() ([]models.Genre, error) {
	genres := []models.Genre{}
	err := s.db.Order("name").Find(&genres).Error
	return genres, err
}

func (s *MovieService) CreateGenre(name string) (*models.Genre, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	var n int64
	if err := s.db.Model(&models.Genre{}).Where("LOWER(name) = ?", strings.ToLower(name)).Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrGenreTaken
	}
	genre := models.Genre{Name: name}
	if err := s.db.Create(&genre).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

func ensureTitleFree(tx *gorm.DB, title string, except uuid.UUID) error {
	q := tx.Model(&models.Movie{}).Where("LOWER(title) = ?", strings.ToLower(title))
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrTitleTaken
	}
	return nil
}

func parseReleaseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(releaseDateLayout, s)
	if err != nil {
		return nil, apperr.Validation("release_date must be a date in YYYY-MM-DD format")
	}
	return &t, nil
}

// uniqueNames trims names and drops blanks and case-insensitive duplicates.
func uniqueNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		key := strings.ToLower(n)
		if n == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}

func findOrCreateGenres(tx *gorm.DB, names []string) ([]models.Genre, error) {
	genres := []models.Genre{}
	for _, name := range uniqueNames(names) {
		var g models.Genre
		err := tx.Where("LOWER(name) = ?", strings.ToLower(name)).Limit(1).Find(&g).Error
		if err != nil {
			return nil, fmt.Errorf("find genre %q: %w", name, err)
		}
		if g.ID == uuid.Nil {
			g = models.Genre{Name: name}
			if err := tx.Create(&g).Error; err != nil {
				return nil, fmt.Errorf("create genre %q: %w", name, err)
			}
		}
		genres = append(genres, g)
	}
	return genres, nil
}

func findOrCreateCast(tx *gorm.DB, names []string) ([]models.CastMember, error) {
	cast := []models.CastMember{}
	for _, name := range uniqueNames(names) {
		var m models.CastMember
		err := tx.Where("LOWER(name) = ?", strings.ToLower(name)).Limit(1).Find(&m).Error
		if err != nil {
			return nil, fmt.Errorf("find cast member %q: %w", name, err)
		}
		if m.ID == uuid.Nil {
			m = models.CastMember{Name: name}
			if err := tx.Create(&m).Error; err != nil {
				return nil, fmt.Errorf("create cast member %q: %w", name, err)
			}
		}
		cast = append(cast, m)
	}
	return cast, nil
}
