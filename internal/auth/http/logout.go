package http

import (
	"net/http"

	"github.com/aussiebroadwan/gatekeep/internal/auth/service"
	"github.com/aussiebroadwan/gatekeep/pkg/authsdk"
	"github.com/aussiebroadwan/gatekeep/pkg/httpx"
)

// LogoutHandler serves POST /logout. The access token in the body names the
// caller; the grant behind the refresh_token cookie is revoked if it is
// theirs. Revoking an unknown or already revoked grant still succeeds.
type LogoutHandler struct {
	AuthService *service.AuthService
	Cookie      refreshCookie
}

// ServeHTTP godoc
//
//	@Summary		Log out
//	@Description	Revokes the refresh grant held in the refresh_token cookie and clears the cookie.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.LogoutRequest	true	"access_token"
//	@Success		200		{object}	authsdk.MessageResponse	"success"
//	@Failure		400		{object}	authsdk.APIError		"Malformed body"
//	@Failure		401		{object}	authsdk.APIError		"Missing, invalid or expired access token"
//	@Failure		404		{object}	authsdk.APIError		"User does not exist"
//	@Router			/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LogoutRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.AccessToken == "" {
		writeInvalidToken(w)
		return
	}

	if err := h.AuthService.Logout(r.Context(), req.AccessToken, h.Cookie.fromRequest(r)); err != nil {
		writeServiceError(w, r, err, authsdk.ErrUserNotFound)
		return
	}

	h.Cookie.Clear(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "success"})
}
