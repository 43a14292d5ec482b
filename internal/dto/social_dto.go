package dto

import "github.com/google/uuid"

type CreateThreadRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"omitempty,max=5000"`
}

type CommentRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

type CreateReportRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type ActionReportRequest struct {
	Status    string `json:"status" validate:"required,oneof=reviewed actioned dismissed"`
	AdminNote string `json:"admin_note" validate:"max=1000"`
}

type CreateListTypeRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type CreateListRequest struct {
	ListTypeID  uuid.UUID `json:"list_type_id" validate:"required"`
	Name        string    `json:"name" validate:"required,max=150"`
	Description string    `json:"description" validate:"max=1000"`
}

type ProfileResponse struct {
	User           UserResponse `json:"user"`
	Bio            string       `json:"bio"`
	Followers      int64        `json:"followers"`
	Following      int64        `json:"following"`
	RatedCount     int64        `json:"rated_count"`
	LikedCount     int64        `json:"liked_count"`
	WishedCount    int64        `json:"wished_count"`
	IsFollowedByMe bool         `json:"is_followed_by_me"`
}

type ActivityItem struct {
	UserID   uuid.UUID `json:"user_id"`
	UserName string    `json:"user_name"`
	MovieID  uuid.UUID `json:"movie_id"`
	Title    string    `json:"title"`
	Rating   *float64  `json:"rating"`
	Liked    bool      `json:"liked"`
	When     string    `json:"when"`
}
