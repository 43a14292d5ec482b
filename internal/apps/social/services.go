package social

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/humantime"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSelfFollow       = apperr.Validation("You cannot follow yourself")
	ErrAlreadyFollowing = apperr.Conflict("Already following this user")
	ErrNotFollowing     = apperr.NoOp("You are not following this user")
)

// FollowService manages the follow graph and the activity feed built on it.
type FollowService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db, now: time.Now}
}

func (s *FollowService) Follow(followerID, followeeID uuid.UUID) error {
	if followerID == followeeID {
		return ErrSelfFollow
	}
	if err := s.requireUser(followeeID); err != nil {
		return err
	}
	following, err := s.IsFollowing(followerID, followeeID)
	if err != nil {
		return err
	}
	if following {
		return ErrAlreadyFollowing
	}
	return s.db.Create(&Follow{FollowerID: followerID, FolloweeID: followeeID}).Error
}

func (s *FollowService) Unfollow(followerID, followeeID uuid.UUID) error {
	result := s.db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).Delete(&Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFollowing
	}
	return nil
}

func (s *FollowService) IsFollowing(followerID, followeeID uuid.UUID) (bool, error) {
	var n int64
	err := s.db.Model(&Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&n).Error
	return n > 0, err
}

// Followers lists users following userID, newest first.
func (s *FollowService) Followers(userID uuid.UUID, limit, offset int) ([]dto.UserResponse, error) {
	return s.listEdge(userID, "follows.follower_id", "follows.followee_id", limit, offset)
}

// Following lists users that userID follows, newest first.
func (s *FollowService) Following(userID uuid.UUID, limit, offset int) ([]dto.UserResponse, error) {
	return s.listEdge(userID, "follows.followee_id", "follows.follower_id", limit, offset)
}

func (s *FollowService) listEdge(userID uuid.UUID, joinCol, whereCol string, limit, offset int) ([]dto.UserResponse, error) {
	if err := s.requireUser(userID); err != nil {
		return nil, err
	}
	var users []models.User
	err := s.db.Model(&models.User{}).
		Joins("JOIN follows ON users.id = "+joinCol).
		Where(whereCol+" = ?", userID).
		Order("follows.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, services.ToUserResponse(&users[i]))
	}
	return out, nil
}

// Profile summarizes a user for viewerID.
func (s *FollowService) Profile(viewerID, userID uuid.UUID) (*dto.ProfileResponse, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, services.ErrUserNotFound
		}
		return nil, err
	}

	profile := &dto.ProfileResponse{User: services.ToUserResponse(&user), Bio: user.Bio}
	counts := []struct {
		dst   *int64
		model interface{}
		query string
		args  []interface{}
	}{
		{&profile.Followers, &Follow{}, "followee_id = ?", []interface{}{userID}},
		{&profile.Following, &Follow{}, "follower_id = ?", []interface{}{userID}},
		{&profile.RatedCount, &models.MovieUser{}, "user_id = ? AND rating IS NOT NULL", []interface{}{userID}},
		{&profile.LikedCount, &models.MovieUser{}, "user_id = ? AND liked = ?", []interface{}{userID, true}},
		{&profile.WishedCount, &models.MovieUser{}, "user_id = ? AND wished = ?", []interface{}{userID, true}},
	}
	for _, c := range counts {
		if err := s.db.Model(c.model).Where(c.query, c.args...).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	if viewerID != userID {
		following, err := s.IsFollowing(viewerID, userID)
		if err != nil {
			return nil, err
		}
		profile.IsFollowedByMe = following
	}
	return profile, nil
}

type activityRow struct {
	UserID    uuid.UUID
	Email     string
	Name      string
	MovieID   uuid.UUID
	Title     string
	Rating    *float64
	Liked     bool
	UpdatedAt time.Time
}

// Feed returns recent ratings and likes by users that userID follows.
func (s *FollowService) Feed(userID uuid.UUID, limit, offset int) ([]dto.ActivityItem, error) {
	followees := s.db.Model(&Follow{}).Select("followee_id").Where("follower_id = ?", userID)

	var rows []activityRow
	err := s.db.Model(&models.MovieUser{}).
		Select("users.id AS user_id, users.email AS email, users.name AS name, "+
			"movies.id AS movie_id, movies.title AS title, "+
			"movie_users.rating AS rating, movie_users.liked AS liked, movie_users.updated_at AS updated_at").
		Joins("JOIN users ON users.id = movie_users.user_id").
		Joins("JOIN movies ON movies.id = movie_users.movie_id").
		Where("movie_users.user_id IN (?)", followees).
		Where("(movie_users.rating IS NOT NULL OR movie_users.liked = ?)", true).
		Order("movie_users.updated_at DESC").
		Limit(limit).Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	now := s.now()
	feed := make([]dto.ActivityItem, 0, len(rows))
	for _, r := range rows {
		u := models.User{Email: r.Email, Name: r.Name}
		feed = append(feed, dto.ActivityItem{
			UserID:   r.UserID,
			UserName: u.DisplayName(),
			MovieID:  r.MovieID,
			Title:    r.Title,
			Rating:   r.Rating,
			Liked:    r.Liked,
			When:     humantime.Since(r.UpdatedAt, now),
		})
	}
	return feed, nil
}

// DeleteUserData drops every follow edge touching userID.
func (s *FollowService) DeleteUserData(tx *gorm.DB, userID uuid.UUID) error {
	return tx.Where("follower_id = ? OR followee_id = ?", userID, userID).Delete(&Follow{}).Error
}

func (s *FollowService) requireUser(userID uuid.UUID) error {
	var n int64
	if err := s.db.Model(&models.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return services.ErrUserNotFound
	}
	return nil
}
