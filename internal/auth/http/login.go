package http

import (
	"mime"
	"net/http"

	"github.com/aussiebroadwan/gatekeep/internal/auth/service"
	"github.com/aussiebroadwan/gatekeep/pkg/authsdk"
	"github.com/aussiebroadwan/gatekeep/pkg/httpx"
)

type LoginHandler struct {
	AuthService *service.AuthService
	Cookie      refreshCookie
}

// ServeHTTP godoc
//
//	@Summary		Log in
//	@Description	Checks username and password, returns a token pair and sets the refresh_token cookie.
//	@Description	An unknown username and a wrong password get the same response.
//	@Tags			Auth
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			username	formData	string					true	"Username"
//	@Param			password	formData	string					true	"Password"
//	@Success		200			{object}	authsdk.LoginResponse	"user, access_token, refresh_token"
//	@Failure		400			{object}	authsdk.APIError		"Malformed form body"
//	@Failure		404			{object}	authsdk.APIError		"Incorrect username or password"
//	@Failure		429			{object}	authsdk.APIError		"Rate limited"
//	@Header			200			{string}	Set-Cookie				"refresh_token (HttpOnly)"
//	@Router			/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// 1. Ensure the right content-type
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mt != "application/x-www-form-urlencoded" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	// 2. Parse the form body
	r.Body = http.MaxBytesReader(w, r.Body, httpx.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")

	fields := map[string]string{}
	if username == "" {
		fields["username"] = "required"
	}
	if password == "" {
		fields["password"] = "required"
	}
	if len(fields) > 0 {
		authsdk.ErrValidation.WithFields(fields).WriteError(w)
		return
	}

	// 3. Authenticate and open a grant
	res, err := h.AuthService.Login(r.Context(), username, password)
	if err != nil {
		writeServiceError(w, r, err, authsdk.ErrBadCredentials)
		return
	}

	h.Cookie.Set(w, res.Tokens.RefreshToken)
	httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{
		User: authsdk.UserResponse{
			ID:       res.User.ID,
			Username: res.User.Username,
			Email:    res.User.Email,
		},
		TokenPair: authsdk.TokenPair{
			AccessToken:  res.Tokens.AccessToken,
			RefreshToken: res.Tokens.RefreshToken,
		},
	})
}
