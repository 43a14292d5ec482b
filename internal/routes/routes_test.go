package routes

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/apps/social"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/apps/threads"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/apps/watchlists"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/testutil"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/tmdb"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServer struct {
	t   *testing.T
	app *fiber.App
	db  *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:        testutil.TestSecret,
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
		AdminEmails:      "admin@example.com",
		CORSOrigins:      "*",
	}

	db := testutil.NewDB(t, &social.Follow{}, &watchlists.ListType{}, &watchlists.MovieList{})
	moderation := services.NewModerationService(db)
	plugins := []apps.Plugin{social.New(db), threads.New(db, moderation), watchlists.New(db)}

	auth := services.NewAuthService(db, cfg)
	movies := services.NewMovieService(db)
	interactions := services.NewInteractionService(db)
	subscriptions := services.NewSubscriptionService(db)
	auth.OnDeleteUser(interactions.ForgetUser)
	for _, p := range plugins {
		if owner, ok := p.(apps.UserDataOwner); ok {
			auth.OnDeleteUser(owner.DeleteUserData)
		}
		if owner, ok := p.(apps.MovieDataOwner); ok {
			movies.OnDeleteMovie(owner.DeleteMovieData)
		}
	}

	client := tmdb.NewClient(tmdb.Config{BaseURL: "http://127.0.0.1:1"})
	h := Handlers{
		Auth:        handlers.NewAuthHandler(auth),
		Health:      handlers.NewHealthHandler(db),
		Webhook:     handlers.NewWebhookHandler(subscriptions, cfg),
		Moderation:  handlers.NewModerationHandler(moderation),
		User:        handlers.NewUserHandler(services.NewUserService(db), subscriptions),
		Movie:       handlers.NewMovieHandler(movies, interactions),
		Interaction: handlers.NewInteractionHandler(interactions),
		Import:      handlers.NewImportHandler(client, tmdb.NewImporter(client, movies)),
	}

	app := fiber.New()
	app.Use(middleware.SecurityHeaders())
	Setup(app, cfg, db, h, plugins)
	return &testServer{t: t, app: app, db: db}
}

// do sends a request and decodes a JSON body into out when out is non-nil.
func (s *testServer) do(method, path, token, body string, out interface{}) int {
	s.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(s.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func path(action string, movie *models.Movie, user *models.User) string {
	return "/movies/" + action + "/" + movie.ID.String() + "/" + user.ID.String()
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	var resp dto.HealthResponse
	assert.Equal(t, fiber.StatusOK, s.do("GET", "/health", "", "", &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ok", resp.DB)
}

func TestRatingRoutes(t *testing.T) {
	s := newTestServer(t)
	user := testutil.CreateUser(t, s.db, "rater@example.com")
	other := testutil.CreateUser(t, s.db, "other@example.com")
	movie := testutil.CreateMovie(t, s.db, "Heat", 4.5, 10)
	token := testutil.Token(t, user)

	assert.Equal(t, fiber.StatusUnauthorized, s.do("POST", path("rate", movie, user)+"/4", "", "", nil))
	assert.Equal(t, fiber.StatusForbidden, s.do("POST", path("rate", movie, other)+"/4", token, "", nil))

	var rec dto.MovieUserResponse
	assert.Equal(t, fiber.StatusOK, s.do("POST", path("rate", movie, user)+"/4", token, "", &rec))
	require.NotNil(t, rec.Rating)
	assert.Equal(t, 4.0, *rec.Rating)
	assert.Equal(t, 11, rec.RatingCount)
	assert.InDelta(t, 49.0/11.0, rec.MovieRating, 1e-9)

	var errResp dto.ErrorResponse
	assert.Equal(t, fiber.StatusBadRequest, s.do("POST", path("rate", movie, user)+"/5.5", token, "", &errResp))
	assert.True(t, errResp.Error)
	assert.Equal(t, fiber.StatusBadRequest, s.do("POST", path("rate", movie, user)+"/abc", token, "", nil))

	missing := &models.Movie{ID: uuid.New()}
	assert.Equal(t, fiber.StatusNotFound, s.do("POST", path("rate", missing, user)+"/3", token, "", nil))

	assert.Equal(t, fiber.StatusOK, s.do("POST", path("unrate", movie, user), token, "", nil))
	errResp = dto.ErrorResponse{}
	assert.Equal(t, fiber.StatusBadRequest, s.do("POST", path("unrate", movie, user), token, "", &errResp))
	assert.Equal(t, "No rating to remove", errResp.Message)
}

func TestLikeAndWishRoutes(t *testing.T) {
	s := newTestServer(t)
	user := testutil.CreateUser(t, s.db, "fan@example.com")
	movie := testutil.CreateMovie(t, s.db, "Alien", 0, 0)
	token := testutil.Token(t, user)

	var errResp dto.ErrorResponse
	assert.Equal(t, fiber.StatusBadRequest, s.do("POST", path("dislike", movie, user), token, "", &errResp))
	assert.Equal(t, "User hasn't liked the movie", errResp.Message)

	var like dto.LikeResponse
	assert.Equal(t, fiber.StatusOK, s.do("POST", path("like", movie, user), token, "", &like))
	assert.True(t, like.Liked)
	assert.Equal(t, 1, like.Likes)

	var wish dto.WishResponse
	assert.Equal(t, fiber.StatusOK, s.do("POST", path("wish", movie, user), token, "", &wish))
	assert.True(t, wish.Wished)

	var lists map[string]json.RawMessage
	assert.Equal(t, fiber.StatusOK, s.do("GET", "/movies/liked_rated_and_wished_list/"+user.ID.String(), token, "", &lists))
	assert.JSONEq(t, `["Alien"]`, string(lists["liked_movies"]))
	assert.JSONEq(t, `["Alien"]`, string(lists["wished_movies"]))
	assert.JSONEq(t, `[]`, string(lists["rated_movies"]))

	assert.Equal(t, fiber.StatusOK, s.do("POST", path("nowish", movie, user), token, "", nil))
	assert.Equal(t, fiber.StatusBadRequest, s.do("POST", path("nowish", movie, user), token, "", nil))

	var rec dto.MovieUserResponse
	assert.Equal(t, fiber.StatusOK, s.do("GET", "/movies/"+movie.ID.String()+"/users/"+user.ID.String(), token, "", &rec))
	assert.True(t, rec.Liked)
	assert.False(t, rec.Wished)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	member := testutil.CreateUser(t, s.db, "member@example.com")
	admin := testutil.CreateUser(t, s.db, "admin@example.com")

	body := `{"title":"Ronin","director":"John Frankenheimer","genres":["Action"]}`
	assert.Equal(t, fiber.StatusForbidden, s.do("POST", "/admin/movies", testutil.Token(t, member), body, nil))

	var movie models.Movie
	assert.Equal(t, fiber.StatusCreated, s.do("POST", "/admin/movies", testutil.Token(t, admin), body, &movie))
	assert.Equal(t, "Ronin", movie.Title)
	assert.Equal(t, fiber.StatusBadRequest, s.do("POST", "/admin/movies", testutil.Token(t, admin), body, nil))

	assert.Equal(t, fiber.StatusCreated, s.do("POST", "/admin/lists/types", testutil.Token(t, admin), `{"name":"Top 10"}`, nil))
	assert.Equal(t, fiber.StatusForbidden, s.do("POST", "/admin/lists/types", testutil.Token(t, member), `{"name":"Top 5"}`, nil))

	assert.Equal(t, fiber.StatusServiceUnavailable, s.do("POST", "/admin/import/movies/603", testutil.Token(t, admin), "", nil))
}

func TestDeleteAccountUnwindsEverything(t *testing.T) {
	s := newTestServer(t)

	var auth dto.AuthResponse
	require.Equal(t, fiber.StatusCreated, s.do("POST", "/auth/register", "",
		`{"email":"Leaver@Example.com","password":"password123","name":"Leaver"}`, &auth))
	assert.Equal(t, "leaver@example.com", auth.User.Email)
	token := auth.AccessToken

	var leaver models.User
	require.NoError(t, s.db.First(&leaver, "email = ?", "leaver@example.com").Error)
	friend := testutil.CreateUser(t, s.db, "friend@example.com")
	movie := testutil.CreateMovie(t, s.db, "Heat", 0, 0)

	require.Equal(t, fiber.StatusOK, s.do("POST", path("rate", movie, &leaver)+"/5", token, "", nil))
	require.Equal(t, fiber.StatusOK, s.do("POST", path("like", movie, &leaver), token, "", nil))
	require.Equal(t, fiber.StatusCreated, s.do("POST", "/social/follow/"+friend.ID.String(), token, "", nil))
	require.Equal(t, fiber.StatusCreated, s.do("POST", "/threads/movies/"+movie.ID.String(), token,
		`{"title":"Thoughts","content":"Great heist film"}`, nil))

	assert.Equal(t, fiber.StatusUnauthorized, s.do("DELETE", "/auth/account", token, `{"password":"wrong-password"}`, nil))
	assert.Equal(t, fiber.StatusOK, s.do("DELETE", "/auth/account", token, `{"password":"password123"}`, nil))

	var reloaded models.Movie
	require.NoError(t, s.db.First(&reloaded, "id = ?", movie.ID).Error)
	assert.Equal(t, 0, reloaded.RatingCount)
	assert.Equal(t, 0.0, reloaded.Rating)
	assert.Equal(t, 0, reloaded.Likes)

	for _, model := range []interface{}{&models.User{}, &models.MovieUser{}, &social.Follow{}, &models.Thread{}, &models.Comment{}} {
		var n int64
		require.NoError(t, s.db.Unscoped().Model(model).Where("1 = 1").Count(&n).Error)
		if _, isUser := model.(*models.User); isUser {
			assert.EqualValues(t, 1, n)
			continue
		}
		assert.EqualValues(t, 0, n, "%T rows left", model)
	}
}
