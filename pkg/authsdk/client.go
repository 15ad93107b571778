package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SDKClient talks to the gatekeep service.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a client with a 10 second timeout.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Signup registers a new user.
func (c *SDKClient) Signup(ctx context.Context, req SignupRequest) (*UserResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/signup", bytes.NewReader(body),
		map[string]string{"Content-Type": "application/json"})
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a token pair. The refresh token is taken
// from the body; the server sets the same value as a cookie.
func (c *SDKClient) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	form := url.Values{
		"username": {username},
		"password": {password},
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/login", strings.NewReader(form.Encode()),
		map[string]string{"Content-Type": "application/x-www-form-urlencoded"})
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	if ck := refreshCookie(resp); ck != nil && ck.Value != out.RefreshToken {
		return nil, fmt.Errorf("refresh cookie does not match response body")
	}
	return &out, nil
}

// GetUser returns the user the access token was issued to.
func (c *SDKClient) GetUser(ctx context.Context, accessToken string) (*UserResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/user", nil,
		map[string]string{"Authorization": "Bearer " + accessToken})
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// Refresh rotates refreshToken. The old value is dead once this returns
// successfully.
func (c *SDKClient) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var cookies []*http.Cookie
	if refreshToken != "" {
		cookies = append(cookies, &http.Cookie{Name: RefreshCookie, Value: refreshToken})
	}

	resp, err := c.doRequest(ctx, http.MethodGet, "/refresh", nil, nil, cookies...)
	if err != nil {
		return nil, err
	}

	var pair TokenPair
	if err := decodeJSON(resp, &pair, http.StatusOK); err != nil {
		return nil, err
	}
	return &pair, nil
}

// Logout revokes refreshToken on behalf of the access token's user.
func (c *SDKClient) Logout(ctx context.Context, accessToken, refreshToken string) error {
	body, err := json.Marshal(LogoutRequest{AccessToken: accessToken})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	var cookies []*http.Cookie
	if refreshToken != "" {
		cookies = append(cookies, &http.Cookie{Name: RefreshCookie, Value: refreshToken})
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/logout", bytes.NewReader(body),
		map[string]string{"Content-Type": "application/json"}, cookies...)
	if err != nil {
		return err
	}

	var msg MessageResponse
	return decodeJSON(resp, &msg, http.StatusOK)
}
