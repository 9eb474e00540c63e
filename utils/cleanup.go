package utils

import (
	"time"

	"github.com/buckai/buckai-server/config"
	"github.com/buckai/buckai-server/models"
)

// StartChallengeCleaner launches a background goroutine that periodically
// deletes expired daily challenge rows. It is best-effort and logs failures.
func StartChallengeCleaner(interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		for {
			// Sleep first to avoid racing immediately at startup
			time.Sleep(interval)
			db := config.DB()
			if db == nil {
				continue
			}
			res := db.Where("expires_at <= ?", time.Now().Add(-24*time.Hour)).
				Limit(500).Delete(&models.DailyChallenge{})
			if res.Error != nil {
				Sugar.Warnw("challenge cleaner delete failed", "error", res.Error)
				continue
			}
			if res.RowsAffected > 0 {
				Sugar.Infow("challenge cleaner removed expired rows", "count", res.RowsAffected)
			}
		}
	}()
}
