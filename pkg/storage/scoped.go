package storage

import (
	"errors"
	"time"

	"github.com/smith3v/tg-lingo-courses/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Scoped is a database-backed Storage isolated to one scope. Two Scoped values
// with the same scope see the same entries, and writes are last-write-wins.
type Scoped struct {
	scope int64
	now   func() time.Time
}

func ForScope(scope int64) *Scoped {
	return &Scoped{scope: scope, now: time.Now}
}

func (s *Scoped) GetItem(key string) (string, bool, error) {
	if db.DB == nil {
		return "", false, ErrNoDatabase
	}
	var entry db.StorageEntry
	err := db.DB.Where("scope = ? AND entry_key = ?", s.scope, key).First(&entry).Error
	if err == nil {
		return entry.Value, true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	return "", false, err
}

func (s *Scoped) SetItem(key, value string) error {
	if db.DB == nil {
		return ErrNoDatabase
	}
	entry := db.StorageEntry{
		Scope:     s.scope,
		Key:       key,
		Value:     value,
		UpdatedAt: s.now().UTC(),
	}
	return db.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "scope"},
			{Name: "entry_key"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (s *Scoped) RemoveItem(key string) error {
	if db.DB == nil {
		return ErrNoDatabase
	}
	return db.DB.Where("scope = ? AND entry_key = ?", s.scope, key).
		Delete(&db.StorageEntry{}).Error
}
