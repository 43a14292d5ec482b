// Package testutil provides an in-memory database for package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with the shared schema
// plus any extra models migrated.
func NewDB(t *testing.T, extra ...interface{}) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Every connection to ":memory:" is a separate database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.MigrateShared(db))
	require.NoError(t, database.MigrateModels(db, extra))
	return db
}

// CreateUser inserts an active user with the password "password123".
func CreateUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateMovie inserts a movie with the given aggregate starting point.
func CreateMovie(t *testing.T, db *gorm.DB, title string, rating float64, ratingCount int) *models.Movie {
	t.Helper()

	movie := &models.Movie{
		ID:          uuid.New(),
		Title:       title,
		Rating:      rating,
		RatingCount: ratingCount,
	}
	require.NoError(t, db.Create(movie).Error)
	return movie
}

// TestSecret signs tokens minted by Token.
const TestSecret = "test-secret"

// Token mints an access token for user signed with TestSecret.
func Token(t *testing.T, user *models.User) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(TestSecret))
	require.NoError(t, err)
	return signed
}
