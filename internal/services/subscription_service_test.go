package services

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookTogglesPremium(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewSubscriptionService(db)
	user := testutil.CreateUser(t, db, "premium@example.com")

	isPremium := func() bool {
		var u models.User
		require.NoError(t, db.First(&u, "id = ?", user.ID).Error)
		return u.IsPremium
	}

	require.NoError(t, svc.HandleWebhookEvent(&dto.RevenueCatEvent{
		Type:           "INITIAL_PURCHASE",
		AppUserID:      user.ID.String(),
		ProductID:      "movieclub_monthly",
		PurchasedAtMs:  1700000000000,
		ExpirationAtMs: 1702592000000,
	}))
	assert.True(t, isPremium())

	sub, err := svc.GetSubscription(user.ID)
	require.NoError(t, err)
	assert.Equal(t, SubscriptionActive, sub.Status)
	assert.Equal(t, "movieclub_monthly", sub.ProductID)
	assert.EqualValues(t, 1702592000, sub.CurrentPeriodEnd.Unix())

	require.NoError(t, svc.HandleWebhookEvent(&dto.RevenueCatEvent{Type: "EXPIRATION", AppUserID: user.ID.String()}))
	assert.False(t, isPremium())

	sub, err = svc.GetSubscription(user.ID)
	require.NoError(t, err)
	assert.Equal(t, SubscriptionExpired, sub.Status)
	assert.Equal(t, "movieclub_monthly", sub.ProductID)

	var n int64
	db.Model(&models.Subscription{}).Count(&n)
	assert.EqualValues(t, 1, n)
}

func TestWebhookIgnoresUnknownInput(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewSubscriptionService(db)

	assert.NoError(t, svc.HandleWebhookEvent(&dto.RevenueCatEvent{Type: "TEST", AppUserID: "x"}))
	assert.NoError(t, svc.HandleWebhookEvent(&dto.RevenueCatEvent{Type: "RENEWAL", AppUserID: "not-a-uuid"}))
	assert.NoError(t, svc.HandleWebhookEvent(&dto.RevenueCatEvent{Type: "RENEWAL", AppUserID: "6f1c1f4e-8a3d-4c55-9f0e-3c2a1b0d9e87"}))

	var n int64
	db.Model(&models.Subscription{}).Count(&n)
	assert.EqualValues(t, 0, n)
}
