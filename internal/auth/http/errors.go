package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/gatekeep/internal/auth/service"
	"github.com/aussiebroadwan/gatekeep/pkg/authsdk"
	"github.com/aussiebroadwan/gatekeep/pkg/slogx"
)

// writeServiceError maps a service error onto its API error. notFound is
// what ErrNotFound means for the calling endpoint.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFound *authsdk.APIError) {
	switch {
	case errors.Is(err, service.ErrAlreadyExists):
		authsdk.ErrUserExists.WriteError(w)
	case errors.Is(err, service.ErrNotFound):
		notFound.WriteError(w)
	case errors.Is(err, service.ErrUnauthorized):
		writeInvalidToken(w)
	case errors.Is(err, service.ErrBadRequest):
		authsdk.ErrRefreshNotFound.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
	}
}

func writeInvalidToken(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	authsdk.ErrInvalidToken.WriteError(w)
}
