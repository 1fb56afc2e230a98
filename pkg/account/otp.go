package account

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultCodeTTL = 10 * time.Minute

	minCode = 1000
	maxCode = 9999
)

// Challenge is a pending one-time code for one account. It is handed back to
// the caller rather than held by the service, so several challenges can be in
// flight at once.
type Challenge struct {
	ID        string
	AccountID string
	Code      string
	ExpiresAt time.Time
}

func (c Challenge) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

func randomCode() string {
	return fmt.Sprintf("%04d", minCode+rand.Intn(maxCode-minCode+1))
}

// SendOTP issues a simulated code. Delivery is up to the caller.
func (s *Service) SendOTP(identifier string) Challenge {
	return Challenge{
		ID:        uuid.NewString(),
		AccountID: identifier,
		Code:      s.code(),
		ExpiresAt: s.now().Add(s.codeTTL),
	}
}

// VerifyOTP checks the code against the challenge and signs the account in.
func (s *Service) VerifyOTP(challenge Challenge, code string) error {
	if challenge.Expired(s.now()) {
		return ErrChallengeExpired
	}
	if strings.TrimSpace(code) != challenge.Code {
		return ErrWrongCode
	}
	users, err := s.loadUsers()
	if err != nil {
		return err
	}
	if _, ok := users[challenge.AccountID]; !ok {
		return ErrAccountNotFound
	}
	return s.setSession(challenge.AccountID)
}
