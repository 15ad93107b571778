package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/gatekeep/pkg/authsdk"
)

// refreshCookie writes the refresh_token cookie.
type refreshCookie struct {
	Secure bool
	MaxAge time.Duration
}

func (c refreshCookie) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     authsdk.RefreshCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c refreshCookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     authsdk.RefreshCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// fromRequest returns the refresh token cookie value, or "".
func (refreshCookie) fromRequest(r *http.Request) string {
	c, err := r.Cookie(authsdk.RefreshCookie)
	if err != nil {
		return ""
	}
	return c.Value
}
