package domain

import "time"

// Grant is one active refresh token session. Refresh holds the token's
// fingerprint, never the token itself.
type Grant struct {
	ID        int64
	Refresh   string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// TokenPair is what login and refresh hand back to the caller.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
