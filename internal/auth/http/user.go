package http

import (
	"net/http"

	"github.com/aussiebroadwan/gatekeep/internal/auth/service"
	"github.com/aussiebroadwan/gatekeep/pkg/authsdk"
	"github.com/aussiebroadwan/gatekeep/pkg/httpx"
)

type UserHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP handles the current user endpoint.
//
//	@Summary		Get the authenticated user
//	@Description	Returns the user the bearer access token was issued for.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.UserResponse	"id, username, email"
//	@Failure		401	{object}	authsdk.APIError		"Missing, invalid or expired access token"
//	@Failure		404	{object}	authsdk.APIError		"User does not exist"
//	@Router			/user [get].
func (h *UserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token, ok := httpx.BearerToken(r)
	if !ok {
		writeInvalidToken(w)
		return
	}

	user, err := h.AuthService.GetAuthenticatedUser(r.Context(), token)
	if err != nil {
		writeServiceError(w, r, err, authsdk.ErrUserNotFound)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}
