// pkg/db/models.go
package db

import (
	"time"

	"gorm.io/datatypes"
)

// StorageEntry is one string value under a key inside a storage scope. A scope
// plays the role of one browser's local storage; the bot uses the chat ID.
type StorageEntry struct {
	ID        uint      `gorm:"primaryKey"`
	Scope     int64     `gorm:"not null;uniqueIndex:idx_storage_scope_key"`
	Key       string    `gorm:"column:entry_key;size:128;not null;uniqueIndex:idx_storage_scope_key"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// QuizState holds a quiz that a chat has started but not submitted yet.
type QuizState struct {
	ID               uint           `gorm:"primaryKey"`
	ChatID           int64          `gorm:"not null;uniqueIndex"`
	CourseID         string         `gorm:"not null"`
	QuizID           string         `gorm:"not null"`
	Answers          datatypes.JSON `gorm:"not null"`
	CurrentIndex     int            `gorm:"not null;default:0"`
	CurrentToken     string         `gorm:"not null;default:''"`
	CurrentMessageID int            `gorm:"not null;default:0"`
	LastActivityAt   time.Time      `gorm:"not null"`
	ExpiresAt        time.Time      `gorm:"not null;index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
