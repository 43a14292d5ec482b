package services

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserProfileAndFlags(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewUserService(db)
	auth := newTestAuthService(db)

	resp, err := auth.Register(&dto.RegisterRequest{Email: "cinephile@example.com", Password: "supersecret"})
	require.NoError(t, err)
	id := resp.User.ID

	name, bio := "  Cinephile ", "Watches everything"
	user, err := svc.UpdateProfile(id, &dto.UpdateProfileRequest{Name: &name, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Cinephile", user.Name)
	assert.Equal(t, bio, user.Bio)

	off, on := false, true
	user, err = svc.SetFlags(id, &dto.UserFlagsRequest{IsActive: &off, IsPremium: &on})
	require.NoError(t, err)
	assert.False(t, user.IsActive)
	assert.True(t, user.IsPremium)

	var live int64
	db.Model(&models.RefreshToken{}).Where("user_id = ? AND revoked = ?", id, false).Count(&live)
	assert.EqualValues(t, 0, live)

	_, err = svc.GetUser(uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListUsers(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewUserService(db)
	testutil.CreateUser(t, db, "anna@example.com")
	testutil.CreateUser(t, db, "bob@example.com")
	testutil.CreateUser(t, db, "annabel@example.com")

	users, total, err := svc.ListUsers("ANNA", 1, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, users, 1)

	users, total, err = svc.ListUsers("", 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, users, 3)
}
