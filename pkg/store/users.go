// Package store keeps account records and the active session as JSON blobs in a
// storage.Storage, under the keys the web client used.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/smith3v/tg-lingo-courses/pkg/storage"
)

const (
	UsersKey   = "ll_users_v2"
	SessionKey = "ll_session_v2"

	DefaultDailyMinutes = 20
)

var ErrCorrupt = errors.New("stored data is corrupt")

// CorruptionError reports a blob that could not be used as stored. Dropped
// names entries that were not accounts at all; Repaired names accounts that
// were kept after their invalid fields were fixed or stripped.
type CorruptionError struct {
	Key      string
	Dropped  []string
	Repaired []string
	Err      error
}

func (e *CorruptionError) Error() string {
	var parts []string
	if len(e.Dropped) > 0 {
		parts = append(parts, "dropped "+strings.Join(e.Dropped, ", "))
	}
	if len(e.Repaired) > 0 {
		parts = append(parts, "repaired "+strings.Join(e.Repaired, ", "))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Key, strings.Join(parts, "; "), e.Err)
}

func (e *CorruptionError) Unwrap() []error {
	return []error{ErrCorrupt, e.Err}
}

type Profile struct {
	Name     string `json:"name"`
	Language string `json:"language"`
	Daily    int    `json:"daily" validate:"gte=0"`
}

type QuizResult struct {
	CourseID string `json:"courseId" validate:"required"`
	QuizID   string `json:"quizId" validate:"required"`
	ScorePct int    `json:"scorePct" validate:"gte=0,lte=100"`
	TS       int64  `json:"ts" validate:"gte=0"`
}

type UserRecord struct {
	Password string              `json:"password" validate:"required"`
	Profile  Profile             `json:"profile"`
	Enrolled []string            `json:"enrolled" validate:"dive,required"`
	Progress map[string][]string `json:"progress" validate:"dive,keys,required,endkeys,dive,required"`
	Quizzes  []QuizResult        `json:"quizzes" validate:"dive"`
	Speaking []json.RawMessage   `json:"speaking"`
}

// NewUserRecord returns a record with the default profile and empty
// collections.
func NewUserRecord(password string) *UserRecord {
	record := &UserRecord{Password: password}
	record.normalize()
	return record
}

func (r *UserRecord) normalize() {
	if r.Enrolled == nil {
		r.Enrolled = []string{}
	}
	if r.Progress == nil {
		r.Progress = map[string][]string{}
	}
	if r.Quizzes == nil {
		r.Quizzes = []QuizResult{}
	}
	if r.Speaking == nil {
		r.Speaking = []json.RawMessage{}
	}
	if r.Profile.Daily == 0 {
		r.Profile.Daily = DefaultDailyMinutes
	}
}

// repair strips or corrects the fields that fail validation so the account
// itself survives. Quiz attempts without ids are dropped; scores are clamped.
func (r *UserRecord) repair() {
	if r.Profile.Daily < 0 {
		r.Profile.Daily = DefaultDailyMinutes
	}
	r.Enrolled = slices.DeleteFunc(r.Enrolled, func(id string) bool { return id == "" })
	for courseID, lessons := range r.Progress {
		if courseID == "" {
			delete(r.Progress, courseID)
			continue
		}
		r.Progress[courseID] = slices.DeleteFunc(lessons, func(id string) bool { return id == "" })
	}
	r.Quizzes = slices.DeleteFunc(r.Quizzes, func(q QuizResult) bool {
		return q.CourseID == "" || q.QuizID == ""
	})
	for i := range r.Quizzes {
		r.Quizzes[i].ScorePct = ClampScore(r.Quizzes[i].ScorePct)
		if r.Quizzes[i].TS < 0 {
			r.Quizzes[i].TS = 0
		}
	}
}

// ClampScore limits a quiz percentage to 0..100.
func ClampScore(pct int) int {
	return min(max(pct, 0), 100)
}

// Users maps an account identifier to its record.
type Users map[string]*UserRecord

type UserStore struct {
	kv       storage.Storage
	validate *validator.Validate
}

func NewUserStore(kv storage.Storage) *UserStore {
	return &UserStore{kv: kv, validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Load never returns a nil map. A missing blob is an empty store; an
// unreadable one is an empty store plus a *CorruptionError. Accounts with
// invalid fields are repaired and kept, and reported the same way.
func (s *UserStore) Load() (Users, error) {
	raw, ok, err := s.kv.GetItem(UsersKey)
	if err != nil {
		return Users{}, fmt.Errorf("failed to read users: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return Users{}, nil
	}

	var decoded map[string]*UserRecord
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return Users{}, &CorruptionError{Key: UsersKey, Err: err}
	}

	users := make(Users, len(decoded))
	var dropped, repaired []string
	var firstErr error
	for id, record := range decoded {
		if record == nil || strings.TrimSpace(id) == "" {
			dropped = append(dropped, fmt.Sprintf("%q", id))
			continue
		}
		if err := s.validate.Struct(record); err != nil {
			record.repair()
			repaired = append(repaired, fmt.Sprintf("%q", id))
			if firstErr == nil {
				firstErr = err
			}
		}
		record.normalize()
		users[id] = record
	}
	if len(dropped) == 0 && len(repaired) == 0 {
		return users, nil
	}
	sort.Strings(dropped)
	sort.Strings(repaired)
	if firstErr == nil {
		firstErr = errors.New("empty identifier or record")
	}
	return users, &CorruptionError{Key: UsersKey, Dropped: dropped, Repaired: repaired, Err: firstErr}
}

// Save replaces the whole blob.
func (s *UserStore) Save(users Users) error {
	if users == nil {
		users = Users{}
	}
	encoded, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}
	if err := s.kv.SetItem(UsersKey, string(encoded)); err != nil {
		return fmt.Errorf("failed to write users: %w", err)
	}
	return nil
}
