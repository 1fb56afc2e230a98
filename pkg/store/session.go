package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/smith3v/tg-lingo-courses/pkg/storage"
)

// Session marks which account is signed in. TS is unix milliseconds; sessions
// never expire on their own.
type Session struct {
	ID string `json:"id"`
	TS int64  `json:"ts"`
}

type SessionStore struct {
	kv  storage.Storage
	now func() time.Time
}

func NewSessionStore(kv storage.Storage) *SessionStore {
	return &SessionStore{kv: kv, now: time.Now}
}

// Get returns nil when nobody is signed in. An unreadable entry also yields nil,
// together with a *CorruptionError.
func (s *SessionStore) Get() (*Session, error) {
	raw, ok, err := s.kv.GetItem(SessionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" || raw == "null" {
		return nil, nil
	}
	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, &CorruptionError{Key: SessionKey, Err: err}
	}
	if session.ID == "" {
		return nil, &CorruptionError{Key: SessionKey, Err: fmt.Errorf("session without account id")}
	}
	return &session, nil
}

func (s *SessionStore) Set(accountID string) (*Session, error) {
	session := &Session{ID: accountID, TS: s.now().UnixMilli()}
	encoded, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.kv.SetItem(SessionKey, string(encoded)); err != nil {
		return nil, fmt.Errorf("failed to write session: %w", err)
	}
	return session, nil
}

func (s *SessionStore) Clear() error {
	if err := s.kv.RemoveItem(SessionKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
