package threads

import (
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrThreadNotFound   = apperr.NotFound("Thread not found")
	ErrNotCommentAuthor = apperr.Forbidden("You can only change your own comments")
	ErrEmptyComment     = apperr.Validation("Comment cannot be empty")
)

// ThreadSummary is a thread with its comment count and last activity.
type ThreadSummary struct {
	ID           uuid.UUID `json:"id"`
	MovieID      uuid.UUID `json:"movie_id"`
	UserID       uuid.UUID `json:"user_id"`
	Title        string    `json:"title"`
	CommentCount int64     `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type ThreadService struct {
	db         *gorm.DB
	moderation *services.ModerationService
}

func NewThreadService(db *gorm.DB, moderation *services.ModerationService) *ThreadService {
	return &ThreadService{db: db, moderation: moderation}
}

// CreateThread opens a discussion on a movie. Non-empty content becomes the
// first comment.
func (s *ThreadService) CreateThread(movieID, userID uuid.UUID, req *dto.CreateThreadRequest) (*models.Thread, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" {
		return nil, apperr.Validation("Title is required")
	}
	if err := s.moderation.CheckContent(title); err != nil {
		return nil, err
	}
	if content != "" {
		if err := s.moderation.CheckContent(content); err != nil {
			return nil, err
		}
	}

	var n int64
	if err := s.db.Model(&models.Movie{}).Where("id = ?", movieID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, services.ErrMovieNotFound
	}

	thread := &models.Thread{MovieID: movieID, UserID: userID, Title: title}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(thread).Error; err != nil {
			return err
		}
		if content == "" {
			return nil
		}
		return tx.Create(&models.Comment{ThreadID: thread.ID, UserID: userID, Content: content}).Error
	})
	if err != nil {
		return nil, err
	}
	return thread, nil
}

// ListThreads returns a movie's threads, most recent first.
func (s *ThreadService) ListThreads(movieID uuid.UUID, limit, offset int) ([]ThreadSummary, int64, error) {
	var total int64
	q := s.db.Model(&models.Thread{}).Where("movie_id = ?", movieID)
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var threads []models.Thread
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&threads).Error; err != nil {
		return nil, 0, err
	}

	out := make([]ThreadSummary, 0, len(threads))
	for _, t := range threads {
		var count int64
		if err := s.db.Model(&models.Comment{}).Where("thread_id = ?", t.ID).Count(&count).Error; err != nil {
			return nil, 0, err
		}
		out = append(out, ThreadSummary{
			ID: t.ID, MovieID: t.MovieID, UserID: t.UserID, Title: t.Title,
			CommentCount: count, CreatedAt: t.CreatedAt,
		})
	}
	return out, total, nil
}

func (s *ThreadService) GetThread(threadID uuid.UUID) (*models.Thread, error) {
	var thread models.Thread
	if err := s.db.First(&thread, "id = ?", threadID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrThreadNotFound
		}
		return nil, err
	}
	return &thread, nil
}

func (s *ThreadService) AddComment(threadID, userID uuid.UUID, content string) (*models.Comment, error) {
	content, err := s.checkComment(content)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetThread(threadID); err != nil {
		return nil, err
	}

	comment := &models.Comment{ThreadID: threadID, UserID: userID, Content: content}
	if err := s.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// EditComment replaces the content of the caller's own comment.
func (s *ThreadService) EditComment(commentID, userID uuid.UUID, content string) (*models.Comment, error) {
	content, err := s.checkComment(content)
	if err != nil {
		return nil, err
	}
	comment, err := s.findComment(commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, ErrNotCommentAuthor
	}
	comment.Content = content
	if err := s.db.Model(comment).Update("content", content).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment soft-deletes a comment. Admins may delete any comment.
func (s *ThreadService) DeleteComment(commentID, userID uuid.UUID, isAdmin bool) error {
	comment, err := s.findComment(commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID && !isAdmin {
		return ErrNotCommentAuthor
	}
	return s.db.Delete(comment).Error
}

// ListComments pages through a thread oldest first.
func (s *ThreadService) ListComments(threadID uuid.UUID, limit, offset int) ([]models.Comment, int64, error) {
	if _, err := s.GetThread(threadID); err != nil {
		return nil, 0, err
	}

	var total int64
	q := s.db.Model(&models.Comment{}).Where("thread_id = ?", threadID)
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	comments := []models.Comment{}
	err := q.Preload("User").
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	return comments, total, err
}

// DeleteUserData removes the user's threads with all their comments, the
// user's comments elsewhere and every report on those comments.
func (s *ThreadService) DeleteUserData(tx *gorm.DB, userID uuid.UUID) error {
	threadIDs := tx.Unscoped().Model(&models.Thread{}).Select("id").Where("user_id = ?", userID)
	commentIDs := tx.Unscoped().Model(&models.Comment{}).Select("id").
		Where("user_id = ? OR thread_id IN (?)", userID, threadIDs)

	if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&models.Report{}).Error; err != nil {
		return err
	}
	if err := tx.Unscoped().Where("user_id = ? OR thread_id IN (?)", userID, threadIDs).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Where("user_id = ?", userID).Delete(&models.Thread{}).Error
}

func (s *ThreadService) checkComment(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyComment
	}
	if err := s.moderation.CheckContent(content); err != nil {
		return "", err
	}
	return content, nil
}

func (s *ThreadService) findComment(commentID uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.First(&comment, "id = ?", commentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, services.ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}
