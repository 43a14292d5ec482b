package logging

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/models"
	"gorm.io/gorm"
)

// PurgeOlderThan deletes system logs recorded before now minus retention.
func PurgeOlderThan(db *gorm.DB, retention time.Duration, now time.Time) (int64, error) {
	result := db.Where("timestamp < ?", now.Add(-retention)).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}

// StartCleanup runs a daily goroutine that deletes system logs older than
// retentionDays until done is closed.
func StartCleanup(db *gorm.DB, retentionDays int, done <-chan struct{}) {
	retention := time.Duration(retentionDays) * 24 * time.Hour
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				deleted, err := PurgeOlderThan(db, retention, time.Now())
				if err != nil {
					slog.Error("log cleanup failed", "error", err)
				} else if deleted > 0 {
					slog.Info("log cleanup completed", "deleted", deleted)
				}
			case <-done:
				return
			}
		}
	}()
}
