package account

import "errors"

var (
	ErrMissingFields      = errors.New("fill required fields")
	ErrAccountExists      = errors.New("account exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSignInRequired     = errors.New("sign in first")
	ErrWrongCode          = errors.New("wrong verification code")
	ErrChallengeExpired   = errors.New("verification code expired")
)
