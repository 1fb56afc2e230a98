package quizflow

import (
	"errors"
	"time"

	"github.com/smith3v/tg-lingo-courses/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LoadState returns the unexpired quiz in progress for a chat, or nil.
func LoadState(chatID int64, now time.Time) (*db.QuizState, error) {
	if db.DB == nil {
		return nil, nil
	}
	var state db.QuizState
	err := db.DB.
		Where("chat_id = ? AND expires_at > ?", chatID, now).
		First(&state).Error
	if err == nil {
		return &state, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return nil, err
}

// UpsertState stores the state and pushes its expiry ttl past the last
// activity.
func UpsertState(state *db.QuizState, ttl time.Duration) error {
	if state == nil || db.DB == nil {
		return nil
	}
	if state.LastActivityAt.IsZero() {
		state.LastActivityAt = time.Now().UTC()
	}
	state.ExpiresAt = state.LastActivityAt.Add(ttl)

	row := *state
	row.ID = 0
	return db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}},
		UpdateAll: true,
	}).Create(&row).Error
}

func DeleteState(chatID int64) error {
	if db.DB == nil {
		return nil
	}
	return db.DB.Where("chat_id = ?", chatID).Delete(&db.QuizState{}).Error
}

// AdvanceState moves the quiz to the next question only while token is still
// the current one. It reports false when another answer got there first.
func AdvanceState(chatID int64, token string, next *db.QuizState, ttl time.Duration) (bool, error) {
	if db.DB == nil {
		return false, nil
	}
	res := db.DB.Model(&db.QuizState{}).
		Where("chat_id = ? AND current_token = ?", chatID, token).
		Updates(map[string]any{
			"answers":          next.Answers,
			"current_index":    next.CurrentIndex,
			"current_token":    next.CurrentToken,
			"last_activity_at": next.LastActivityAt,
			"expires_at":       next.LastActivityAt.Add(ttl),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FinishState removes the quiz only while token is still the current one, so a
// quiz is submitted at most once.
func FinishState(chatID int64, token string) (bool, error) {
	if db.DB == nil {
		return false, nil
	}
	res := db.DB.Where("chat_id = ? AND current_token = ?", chatID, token).Delete(&db.QuizState{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
