package services

import (
	"errors"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
	SubscriptionExpired   = "expired"
)

// SubscriptionService applies RevenueCat events to subscriptions and the
// user's premium flag.
type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// HandleWebhookEvent processes one event. Unknown event types and events for
// unknown users are ignored so RevenueCat does not retry them.
func (s *SubscriptionService) HandleWebhookEvent(event *dto.RevenueCatEvent) error {
	var status string
	switch event.Type {
	case "INITIAL_PURCHASE", "RENEWAL", "UNCANCELLATION":
		status = SubscriptionActive
	case "CANCELLATION":
		status = SubscriptionCancelled
	case "EXPIRATION":
		status = SubscriptionExpired
	default:
		return nil
	}

	userID, err := uuid.Parse(event.AppUserID)
	if err != nil {
		slog.Warn("webhook for non-uuid app user", "app_user_id", event.AppUserID, "event_type", event.Type)
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				slog.Warn("webhook for unknown user", "user_id", userID, "event_type", event.Type)
				return nil
			}
			return err
		}

		var sub models.Subscription
		err := tx.Where("user_id = ?", userID).First(&sub).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		sub.UserID = userID
		sub.Status = status
		if event.ProductID != "" {
			sub.ProductID = event.ProductID
		}
		if event.PurchasedAtMs > 0 {
			sub.CurrentPeriodStart = msToTime(event.PurchasedAtMs)
		}
		if event.ExpirationAtMs > 0 {
			sub.CurrentPeriodEnd = msToTime(event.ExpirationAtMs)
		}
		if err := tx.Save(&sub).Error; err != nil {
			return err
		}

		return tx.Model(&user).Update("is_premium", status == SubscriptionActive).Error
	})
}

func (s *SubscriptionService) GetSubscription(userID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.db.Where("user_id = ?", userID).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func msToTime(ms int64) time.Time {
	return time.Unix(ms/1000, (ms%1000)*int64(time.Millisecond))
}
