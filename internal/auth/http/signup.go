package http

import (
	"net/http"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/aussiebroadwan/gatekeep/internal/auth/service"
	"github.com/aussiebroadwan/gatekeep/pkg/authsdk"
	"github.com/aussiebroadwan/gatekeep/pkg/httpx"
)

const (
	minPasswordLen = 5
	maxPasswordLen = 24
	maxUsernameLen = 64
)

type SignupHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Create an account
//	@Description	Registers a user. Emails and usernames are unique.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.SignupRequest	true	"username, email, password (5-24 chars)"
//	@Success		200		{object}	authsdk.UserResponse	"id, username, email"
//	@Failure		400		{object}	authsdk.APIError		"User with this email already exist"
//	@Failure		422		{object}	authsdk.APIError		"Validation failed, see fields"
//	@Failure		429		{object}	authsdk.APIError		"Rate limited"
//	@Router			/signup [post].
func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.SignupRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if fields := validateSignup(req); len(fields) > 0 {
		authsdk.ErrValidation.WithFields(fields).WriteError(w)
		return
	}

	user, err := h.AuthService.Signup(r.Context(), req.Username, req.Email, req.Password)
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

func validateSignup(req authsdk.SignupRequest) map[string]string {
	fields := map[string]string{}

	if n := utf8.RuneCountInString(req.Username); n == 0 || n > maxUsernameLen {
		fields["username"] = "must be between 1 and 64 characters"
	}

	if addr, err := mail.ParseAddress(req.Email); err != nil || addr.Address != req.Email {
		fields["email"] = "must be a valid email address"
	}

	if n := utf8.RuneCountInString(req.Password); n < minPasswordLen || n > maxPasswordLen {
		fields["password"] = "must be between 5 and 24 characters"
	}

	return fields
}
