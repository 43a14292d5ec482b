package threads

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*ThreadService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	return NewThreadService(db, services.NewModerationService(db)), db
}

func TestCreateThreadWithFirstComment(t *testing.T) {
	svc, db := newTestService(t)
	user := testutil.CreateUser(t, db, "alice@example.com")
	movie := testutil.CreateMovie(t, db, "Heat", 0, 0)

	thread, err := svc.CreateThread(movie.ID, user.ID, &dto.CreateThreadRequest{
		Title: "  That bank scene ", Content: "Best shootout ever filmed.",
	})
	require.NoError(t, err)
	assert.Equal(t, "That bank scene", thread.Title)

	comments, total, err := svc.ListComments(thread.ID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, comments, 1)
	require.NotNil(t, comments[0].User)
	assert.Equal(t, user.ID, comments[0].User.ID)

	_, err = svc.CreateThread(uuid.New(), user.ID, &dto.CreateThreadRequest{Title: "Lost"})
	assert.ErrorIs(t, err, services.ErrMovieNotFound)

	_, err = svc.CreateThread(movie.ID, user.ID, &dto.CreateThreadRequest{Title: "this is shit"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, "Your comment contains inappropriate language.", err.Error())
}

func TestListThreadsCountsComments(t *testing.T) {
	svc, db := newTestService(t)
	user := testutil.CreateUser(t, db, "alice@example.com")
	heat := testutil.CreateMovie(t, db, "Heat", 0, 0)
	ronin := testutil.CreateMovie(t, db, "Ronin", 0, 0)

	first, err := svc.CreateThread(heat.ID, user.ID, &dto.CreateThreadRequest{Title: "Soundtrack", Content: "Moby at the end"})
	require.NoError(t, err)
	_, err = svc.AddComment(first.ID, user.ID, "Agreed")
	require.NoError(t, err)
	_, err = svc.CreateThread(heat.ID, user.ID, &dto.CreateThreadRequest{Title: "Casting"})
	require.NoError(t, err)
	_, err = svc.CreateThread(ronin.ID, user.ID, &dto.CreateThreadRequest{Title: "Car chase"})
	require.NoError(t, err)

	threads, total, err := svc.ListThreads(heat.ID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, threads, 2)

	counts := map[string]int64{}
	for _, th := range threads {
		counts[th.Title] = th.CommentCount
	}
	assert.EqualValues(t, 2, counts["Soundtrack"])
	assert.EqualValues(t, 0, counts["Casting"])
}

func TestCommentOwnership(t *testing.T) {
	svc, db := newTestService(t)
	alice := testutil.CreateUser(t, db, "alice@example.com")
	bob := testutil.CreateUser(t, db, "bob@example.com")
	movie := testutil.CreateMovie(t, db, "Heat", 0, 0)
	thread, err := svc.CreateThread(movie.ID, alice.ID, &dto.CreateThreadRequest{Title: "Endings"})
	require.NoError(t, err)

	_, err = svc.AddComment(thread.ID, alice.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyComment)
	_, err = svc.AddComment(uuid.New(), alice.ID, "hello")
	assert.ErrorIs(t, err, ErrThreadNotFound)

	comment, err := svc.AddComment(thread.ID, alice.ID, "The airport scene")
	require.NoError(t, err)

	_, err = svc.EditComment(comment.ID, bob.ID, "hijacked")
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	edited, err := svc.EditComment(comment.ID, alice.ID, "The airport scene at night")
	require.NoError(t, err)
	assert.Equal(t, "The airport scene at night", edited.Content)

	assert.True(t, apperr.Is(svc.DeleteComment(comment.ID, bob.ID, false), apperr.KindForbidden))
	require.NoError(t, svc.DeleteComment(comment.ID, bob.ID, true))
	assert.True(t, apperr.Is(svc.DeleteComment(comment.ID, alice.ID, false), apperr.KindNotFound))
}

func TestListCommentsOldestFirst(t *testing.T) {
	svc, db := newTestService(t)
	user := testutil.CreateUser(t, db, "alice@example.com")
	movie := testutil.CreateMovie(t, db, "Heat", 0, 0)
	thread, err := svc.CreateThread(movie.ID, user.ID, &dto.CreateThreadRequest{Title: "Quotes"})
	require.NoError(t, err)

	for _, text := range []string{"first", "second", "third"} {
		_, err := svc.AddComment(thread.ID, user.ID, text)
		require.NoError(t, err)
	}

	page, total, err := svc.ListComments(thread.ID, 2, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "second", page[0].Content)
	assert.Equal(t, "third", page[1].Content)
}

func TestDeleteUserDataRemovesThreadsAndReports(t *testing.T) {
	svc, db := newTestService(t)
	alice := testutil.CreateUser(t, db, "alice@example.com")
	bob := testutil.CreateUser(t, db, "bob@example.com")
	movie := testutil.CreateMovie(t, db, "Heat", 0, 0)

	aliceThread, err := svc.CreateThread(movie.ID, alice.ID, &dto.CreateThreadRequest{Title: "Alice's", Content: "opening"})
	require.NoError(t, err)
	bobReply, err := svc.AddComment(aliceThread.ID, bob.ID, "reply")
	require.NoError(t, err)
	bobThread, err := svc.CreateThread(movie.ID, bob.ID, &dto.CreateThreadRequest{Title: "Bob's"})
	require.NoError(t, err)
	aliceComment, err := svc.AddComment(bobThread.ID, alice.ID, "drive-by")
	require.NoError(t, err)
	keep, err := svc.AddComment(bobThread.ID, bob.ID, "stays")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Report{ReporterID: bob.ID, CommentID: aliceComment.ID, Reason: "rude"}).Error)
	require.NoError(t, db.Create(&models.Report{ReporterID: alice.ID, CommentID: bobReply.ID, Reason: "rude"}).Error)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return svc.DeleteUserData(tx, alice.ID)
	}))

	var comments []models.Comment
	require.NoError(t, db.Unscoped().Find(&comments).Error)
	require.Len(t, comments, 1)
	assert.Equal(t, keep.ID, comments[0].ID)

	var threads int64
	require.NoError(t, db.Unscoped().Model(&models.Thread{}).Count(&threads).Error)
	assert.EqualValues(t, 1, threads)

	var reports int64
	require.NoError(t, db.Model(&models.Report{}).Count(&reports).Error)
	assert.EqualValues(t, 0, reports)
}

func TestDeleteCommentRouteHonorsAdmin(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := &config.Config{JWTSecret: testutil.TestSecret, AdminEmails: "mod@example.com"}
	plugin := New(db, services.NewModerationService(db))

	author := testutil.CreateUser(t, db, "author@example.com")
	stranger := testutil.CreateUser(t, db, "stranger@example.com")
	mod := testutil.CreateUser(t, db, "mod@example.com")
	movie := testutil.CreateMovie(t, db, "Heat", 0, 0)

	app := fiber.New()
	plugin.RegisterRoutes(app.Group("/threads", middleware.JWTProtected(cfg)), db, cfg)

	call := func(method, path, body string, user *models.User) int {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+testutil.Token(t, user))
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusCreated, call("POST", "/threads/movies/"+movie.ID.String(), `{"title":"Heat talk"}`, author))
	assert.Equal(t, fiber.StatusNotFound, call("POST", "/threads/movies/"+uuid.NewString(), `{"title":"Nowhere"}`, author))
	assert.Equal(t, fiber.StatusBadRequest, call("POST", "/threads/movies/"+movie.ID.String(), `{}`, author))

	var thread models.Thread
	require.NoError(t, db.First(&thread).Error)
	assert.Equal(t, fiber.StatusCreated, call("POST", "/threads/"+thread.ID.String()+"/comments", `{"content":"Great film"}`, author))

	var comment models.Comment
	require.NoError(t, db.First(&comment).Error)
	path := "/threads/comments/" + comment.ID.String()
	assert.Equal(t, fiber.StatusForbidden, call("DELETE", path, "", stranger))
	assert.Equal(t, fiber.StatusOK, call("DELETE", path, "", mod))
	assert.Equal(t, fiber.StatusNotFound, call("DELETE", path, "", author))
}
