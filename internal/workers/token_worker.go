package workers

import (
	"context"
	"time"

	"bootcamp_backend/internal/logger"
	"bootcamp_backend/internal/models"

	"gorm.io/gorm"
)

// TokenWorker clears password reset tokens whose window has passed, so
// stale hashes do not accumulate in the users table.
type TokenWorker struct {
	db       *gorm.DB
	interval time.Duration
}

func NewTokenWorker(db *gorm.DB) *TokenWorker {
	return &TokenWorker{db: db, interval: time.Hour}
}

// Start launches the background sweep.
func (w *TokenWorker) Start(ctx context.Context) {
	go w.sweepExpiredResetTokens(ctx)
}

func (w *TokenWorker) sweepExpiredResetTokens(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("token worker stopped")
			return
		case <-ticker.C:
			result := w.db.Model(&models.User{}).
				Where("reset_password_token <> '' AND reset_password_expire < ?", time.Now()).
				Updates(map[string]interface{}{
					"reset_password_token":  "",
					"reset_password_expire": nil,
				})
			if result.Error != nil {
				logger.WithError(result.Error).Error("failed to sweep expired reset tokens")
			} else if result.RowsAffected > 0 {
				logger.Info("cleared expired reset tokens", "count", result.RowsAffected)
			}
		}
	}
}
