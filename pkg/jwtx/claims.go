package jwtx

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Default token lifetimes, overridable through configuration.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Claims is the payload shared by access and refresh tokens. Refresh tokens
// carry only the registered claims; access tokens add the numeric user id
// and the isAuth capability flag.
type Claims struct {
	jwt.RegisteredClaims

	// UserID is a pointer so an absent claim can be told apart from zero.
	UserID *NumericID `json:"user_id,omitempty"`

	// IsAuth marks a token issued after a successful credential check.
	IsAuth bool `json:"isAuth,omitempty"`
}

// Email returns the subject claim.
func (c *Claims) Email() string {
	return c.Subject
}

// UserIDClaim projects the user_id claim, failing with ErrMissingClaim when
// the token does not carry one.
func (c *Claims) UserIDClaim() (int64, error) {
	if c == nil || c.UserID == nil {
		return 0, ErrMissingClaim
	}
	return int64(*c.UserID), nil
}

// NumericID is written as a JSON number. Decoding also accepts a quoted
// decimal, which is how tokens minted before the Go rewrite carry user_id.
type NumericID int64

func (n *NumericID) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		if v != float64(int64(v)) {
			return fmt.Errorf("jwtx: user_id %v is not an integer", v)
		}
		*n = NumericID(v)
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("jwtx: user_id %q: %w", v, err)
		}
		*n = NumericID(id)
	default:
		return fmt.Errorf("jwtx: user_id has unsupported type %T", raw)
	}
	return nil
}

// IsExpired reports whether claims have expired at now. A token without an
// exp claim is always expired.
func IsExpired(c *Claims, now time.Time) bool {
	if c == nil || c.ExpiresAt == nil {
		return true
	}
	return now.After(c.ExpiresAt.Time)
}

func newRegisteredClaims(email string, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}
}
