// Package verification keeps the one-time code challenge each chat is waiting
// to confirm between /signup and /verify.
package verification

import (
	"context"
	"sync"
	"time"

	"github.com/smith3v/tg-lingo-courses/pkg/account"
)

const SweepInterval = time.Minute

type Manager struct {
	mu      sync.Mutex
	pending map[int64]account.Challenge
	now     func() time.Time
}

func NewManager(now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{
		pending: make(map[int64]account.Challenge),
		now:     now,
	}
}

var DefaultManager = NewManager(nil)

func ResetDefaultManager(now func() time.Time) {
	DefaultManager = NewManager(now)
}

// Put replaces whatever challenge the chat had.
func (m *Manager) Put(chatID int64, challenge account.Challenge) {
	if m == nil || chatID == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[chatID] = challenge
}

// Get does not consume the challenge, so a mistyped code can be retried. Expiry
// is left to account.Service.VerifyOTP.
func (m *Manager) Get(chatID int64) (account.Challenge, bool) {
	if m == nil || chatID == 0 {
		return account.Challenge{}, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	challenge, ok := m.pending[chatID]
	return challenge, ok
}

func (m *Manager) Remove(chatID int64) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, chatID)
}

func (m *Manager) SweepExpired(now time.Time) int {
	if m == nil {
		return 0
	}
	if now.IsZero() {
		now = m.now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for chatID, challenge := range m.pending {
		if challenge.Expired(now) {
			delete(m.pending, chatID)
			removed++
		}
	}
	return removed
}

func (m *Manager) StartSweeper(ctx context.Context) {
	if m == nil || ctx == nil {
		return
	}
	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.SweepExpired(m.now())
		}
	}
}
