package authsdk

// RefreshCookie is the name of the cookie carrying the refresh token.
const RefreshCookie = "refresh_token"

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	Username string `json:"username" example:"alice"`
	Email    string `json:"email" example:"a@x.com"`
	Password string `json:"password" example:"secret1" minLength:"5" maxLength:"24"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID       int64  `json:"id" example:"1"`
	Username string `json:"username" example:"alice"`
	Email    string `json:"email" example:"a@x.com"`
}

// TokenPair is returned by GET /refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResponse is returned by POST /login.
type LoginResponse struct {
	User UserResponse `json:"user"`
	TokenPair
}

// LogoutRequest is the body of POST /logout.
type LogoutRequest struct {
	AccessToken string `json:"access_token"`
}

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Message string `json:"message" example:"success"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks lists per-dependency readiness, /readyz only.
type HealthChecks struct {
	Database string `json:"database"`
}
