package http

import (
	"net/http"

	"github.com/aussiebroadwan/gatekeep/internal/auth/service"
	"github.com/aussiebroadwan/gatekeep/pkg/authsdk"
	"github.com/aussiebroadwan/gatekeep/pkg/httpx"
)

// RefreshHandler serves GET /refresh. The refresh token comes from the
// cookie only and is single-use: a successful call replaces the cookie.
type RefreshHandler struct {
	AuthService *service.AuthService
	Cookie      refreshCookie
}

// ServeHTTP godoc
//
//	@Summary		Rotate the refresh token
//	@Description	Exchanges the refresh_token cookie for a new access token and a new refresh token.
//	@Description	The presented refresh token stops working immediately.
//	@Tags			Auth
//	@Produce		json
//	@Success		200				{object}	authsdk.TokenPair	"access_token, refresh_token"
//	@Failure		400				{object}	authsdk.APIError	"Refresh token not found (already used or logged out)"
//	@Failure		401				{object}	authsdk.APIError	"Missing, invalid or expired refresh token"
//	@Header			200				{string}	Set-Cookie			"refresh_token (HttpOnly)"
//	@Router			/refresh [get].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := h.Cookie.fromRequest(r)
	if token == "" {
		writeInvalidToken(w)
		return
	}

	pair, err := h.AuthService.Refresh(r.Context(), token)
	if err != nil {
		writeServiceError(w, r, err, authsdk.ErrUserNotFound)
		return
	}

	h.Cookie.Set(w, pair.RefreshToken)
	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenPair{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}
