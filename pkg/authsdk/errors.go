package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/gatekeep/pkg/httpx"
)

// Error codes carried in the "error" field of every failure response.
const (
	ErrorCodeInvalidRequest   = "invalid_request"
	ErrorCodeValidation       = "validation_error"
	ErrorCodeAlreadyExists    = "already_exists"
	ErrorCodeNotFound         = "not_found"
	ErrorCodeInvalidToken     = "invalid_token"
	ErrorCodeInvalidGrant     = "invalid_grant"
	ErrorCodeRateLimited      = "rate_limit_exceeded"
	ErrorCodeServerError      = "server_error"
	ErrorCodeMethodNotAllowed = "method_not_allowed"
)

// APIError is a failure response. The server writes these and the client
// returns them.
type APIError struct {
	StatusCode  int               `json:"-"`
	Code        string            `json:"error"`
	Description string            `json:"error_description"`
	Fields      map[string]string `json:"fields,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Description)
}

// WriteError writes e as the response.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, httpx.ErrorBody{
		Error:       e.Code,
		Description: e.Description,
		Fields:      e.Fields,
	})
}

// WithFields returns a copy of e carrying per-field validation messages.
func (e *APIError) WithFields(fields map[string]string) *APIError {
	cp := *e
	cp.Fields = fields
	return &cp
}

var (
	// ErrInvalidRequest covers unparsable bodies and wrong content types.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrValidation is returned when a signup body fails field checks.
	ErrValidation = &APIError{
		StatusCode:  http.StatusUnprocessableEntity,
		Code:        ErrorCodeValidation,
		Description: "request validation failed",
	}

	// ErrUserExists is returned by signup when the email is taken.
	ErrUserExists = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeAlreadyExists,
		Description: "User with this email already exist",
	}

	// ErrBadCredentials is returned by login for an unknown username and
	// for a wrong password alike.
	ErrBadCredentials = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "Incorrect username or password",
	}

	// ErrUserNotFound is returned when a valid access token names a user
	// that no longer exists.
	ErrUserNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "User does not exist",
	}

	// ErrInvalidToken is returned for a missing, forged, malformed or
	// expired token.
	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "the token is missing, invalid or expired",
	}

	// ErrRefreshNotFound is returned when a correctly signed refresh token
	// has no active grant: it was already rotated or logged out.
	ErrRefreshNotFound = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidGrant,
		Description: "Refresh token not found",
	}

	ErrMethodNotAllowed = &APIError{
		StatusCode:  http.StatusMethodNotAllowed,
		Code:        ErrorCodeMethodNotAllowed,
		Description: "method not allowed",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// parseErrorResponse turns a non-2xx response body into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var eb httpx.ErrorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        eb.Error,
			Description: eb.Description,
			Fields:      eb.Fields,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
