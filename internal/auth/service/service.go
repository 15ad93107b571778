package service

import (
	"errors"
	"sync"

	"github.com/aussiebroadwan/gatekeep/internal/auth/metrics"
	"github.com/aussiebroadwan/gatekeep/internal/auth/store"
	"github.com/aussiebroadwan/gatekeep/pkg/cryptox"
	"github.com/aussiebroadwan/gatekeep/pkg/jwtx"
)

var (
	ErrAlreadyExists = errors.New("already_exists")

	// ErrNotFound covers both an unknown username and a wrong password so
	// callers cannot enumerate accounts.
	ErrNotFound = errors.New("not_found")

	ErrUnauthorized = errors.New("unauthorized")

	// ErrBadRequest is a refresh token with a valid signature that no grant
	// holds any more: already rotated, logged out, or never issued here.
	ErrBadRequest = errors.New("bad_request")
)

// AuthService implements signup, login, token refresh and logout on top of
// a Store and a token Codec. It holds no per-request state.
type AuthService struct {
	Store   store.Store
	Codec   *jwtx.Codec
	Metrics *metrics.Metrics // optional
}

var dummyDigest = sync.OnceValue(func() string {
	h, err := cryptox.HashPassword("gatekeep-dummy-password")
	if err != nil {
		return ""
	}
	return h
})

// burnVerify spends one password verification so that an unknown username
// costs the same as a wrong password.
func burnVerify(password string) {
	_ = cryptox.VerifyPassword(password, dummyDigest())
}
