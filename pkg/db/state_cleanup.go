package db

import (
	"context"
	"time"

	"github.com/smith3v/tg-lingo-courses/pkg/logger"
)

const StateCleanupInterval = time.Hour

// CleanupExpiredQuizStates drops abandoned quizzes. Submitted results live in
// the user blob and are never touched here.
func CleanupExpiredQuizStates(now time.Time) (int64, error) {
	if DB == nil {
		return 0, nil
	}
	res := DB.Where("expires_at <= ?", now).Delete(&QuizState{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func StartStateCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = StateCleanupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := CleanupExpiredQuizStates(time.Now().UTC())
			if err != nil {
				logger.Error("failed to cleanup expired quiz states", "error", err)
				continue
			}
			if deleted > 0 {
				logger.Debug("cleaned up expired quiz states", "deleted", deleted)
			}
		}
	}
}
