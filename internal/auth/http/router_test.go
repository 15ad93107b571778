package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	authhttp "github.com/aussiebroadwan/gatekeep/internal/auth/http"
	"github.com/aussiebroadwan/gatekeep/internal/auth/metrics"
	"github.com/aussiebroadwan/gatekeep/internal/auth/service"
	"github.com/aussiebroadwan/gatekeep/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/gatekeep/pkg/authsdk"
	"github.com/aussiebroadwan/gatekeep/pkg/httpx"
	"github.com/aussiebroadwan/gatekeep/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	srv    *httptest.Server
	client *authsdk.SDKClient
	svc    *service.AuthService
}

func codecAt(t *testing.T, now func() time.Time) *jwtx.Codec {
	t.Helper()
	c, err := jwtx.NewCodec(jwtx.Config{
		AccessSecret:  []byte("access-secret-for-tests"),
		RefreshSecret: []byte("refresh-secret-for-tests"),
		Algorithm:     "HS256",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
		Now:           now,
	})
	require.NoError(t, err)
	return c
}

func generous() httpx.Limits {
	l := httpx.RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000}
	return httpx.Limits{Strict: l, Moderate: l, Lenient: l}
}

func newEnv(t *testing.T, limits httpx.Limits) *testEnv {
	t.Helper()
	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations(context.Background()))

	m := metrics.New()
	svc := &service.AuthService{Store: st, Codec: codecAt(t, nil), Metrics: m}

	router := authhttp.NewRouter(svc, st, m, nil, authhttp.Options{
		BuildVersion: "test",
		Limits:       limits,
	})
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, client: authsdk.NewSDKClient(srv.URL), svc: svc}
}

func requireAPIError(t *testing.T, err error, status int, code string) *authsdk.APIError {
	t.Helper()
	var apiErr *authsdk.APIError
	require.True(t, errors.As(err, &apiErr), "expected *authsdk.APIError, got %v", err)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
	return apiErr
}

func signup(t *testing.T, env *testEnv) *authsdk.UserResponse {
	t.Helper()
	u, err := env.client.Signup(context.Background(), authsdk.SignupRequest{
		Username: "alice",
		Email:    "a@x.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	return u
}

func TestFullFlow(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t, generous())

	u := signup(t, env)
	require.Positive(t, u.ID)
	require.Equal(t, "alice", u.Username)
	require.Equal(t, "a@x.com", u.Email)

	login, err := env.client.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	require.Equal(t, u.ID, login.User.ID)
	require.NotEmpty(t, login.AccessToken)
	require.NotEmpty(t, login.RefreshToken)

	me, err := env.client.GetUser(ctx, login.AccessToken)
	require.NoError(t, err)
	require.Equal(t, *u, *me)

	pair, err := env.client.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, login.RefreshToken, pair.RefreshToken)

	_, err = env.client.Refresh(ctx, login.RefreshToken)
	apiErr := requireAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeInvalidGrant)
	require.Equal(t, "Refresh token not found", apiErr.Description)

	require.NoError(t, env.client.Logout(ctx, pair.AccessToken, pair.RefreshToken))

	_, err = env.client.Refresh(ctx, pair.RefreshToken)
	requireAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeInvalidGrant)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	env := newEnv(t, generous())
	signup(t, env)

	_, err := env.client.Signup(context.Background(), authsdk.SignupRequest{
		Username: "alice2",
		Email:    "a@x.com",
		Password: "secret2",
	})
	apiErr := requireAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeAlreadyExists)
	require.Equal(t, "User with this email already exist", apiErr.Description)
}

func TestSignup_Validation(t *testing.T) {
	env := newEnv(t, generous())

	tests := []struct {
		name  string
		req   authsdk.SignupRequest
		field string
	}{
		{"short password", authsdk.SignupRequest{Username: "a", Email: "a@x.com", Password: "1234"}, "password"},
		{"long password", authsdk.SignupRequest{Username: "a", Email: "a@x.com", Password: strings.Repeat("p", 25)}, "password"},
		{"bad email", authsdk.SignupRequest{Username: "a", Email: "not-an-email", Password: "secret1"}, "email"},
		{"display name email", authsdk.SignupRequest{Username: "a", Email: "Alice <a@x.com>", Password: "secret1"}, "email"},
		{"empty username", authsdk.SignupRequest{Username: "  ", Email: "a@x.com", Password: "secret1"}, "username"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.client.Signup(context.Background(), tt.req)
			apiErr := requireAPIError(t, err, http.StatusUnprocessableEntity, authsdk.ErrorCodeValidation)
			require.Contains(t, apiErr.Fields, tt.field)
		})
	}
}

func TestSignup_UnknownFieldRejected(t *testing.T) {
	env := newEnv(t, generous())

	resp, err := http.Post(env.srv.URL+"/signup", "application/json",
		strings.NewReader(`{"username":"a","email":"a@x.com","password":"secret1","admin":true}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_Failures(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t, generous())
	signup(t, env)

	_, errWrong := env.client.Login(ctx, "alice", "wrong")
	_, errUnknown := env.client.Login(ctx, "bob", "secret1")

	a := requireAPIError(t, errWrong, http.StatusNotFound, authsdk.ErrorCodeNotFound)
	b := requireAPIError(t, errUnknown, http.StatusNotFound, authsdk.ErrorCodeNotFound)
	require.Equal(t, "Incorrect username or password", a.Description)
	require.Equal(t, a.Description, b.Description)
}

func TestLogin_RequiresForm(t *testing.T) {
	env := newEnv(t, generous())
	signup(t, env)

	resp, err := http.Post(env.srv.URL+"/login", "application/json",
		strings.NewReader(`{"username":"alice","password":"secret1"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_SetsRefreshCookie(t *testing.T) {
	env := newEnv(t, generous())
	signup(t, env)

	form := url.Values{"username": {"alice"}, "password": {"secret1"}}
	resp, err := http.PostForm(env.srv.URL+"/login", form)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

	var body authsdk.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == authsdk.RefreshCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	require.Equal(t, body.RefreshToken, cookie.Value)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, "/", cookie.Path)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	require.Equal(t, int((24 * time.Hour).Seconds()), cookie.MaxAge)
}

func TestGetUser_Unauthorized(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t, generous())
	u := signup(t, env)

	resp, err := http.Get(env.srv.URL + "/user")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Contains(t, resp.Header.Get("WWW-Authenticate"), "invalid_token")

	past := codecAt(t, func() time.Time { return time.Now().Add(-time.Hour) })
	expired, err := past.EncodeAccess(u.Email, u.ID)
	require.NoError(t, err)

	_, err = env.client.GetUser(ctx, expired)
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken)

	_, err = env.client.GetUser(ctx, "garbage")
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken)
}

func TestGetUser_DeletedUser(t *testing.T) {
	env := newEnv(t, generous())

	tok, err := env.svc.Codec.EncodeAccess("ghost@x.com", 999)
	require.NoError(t, err)

	_, err = env.client.GetUser(context.Background(), tok)
	apiErr := requireAPIError(t, err, http.StatusNotFound, authsdk.ErrorCodeNotFound)
	require.Equal(t, "User does not exist", apiErr.Description)
}

func TestRefresh_Rejections(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t, generous())
	u := signup(t, env)

	_, err := env.client.Refresh(ctx, "")
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken)

	unseen, _, err := env.svc.Codec.EncodeRefresh(u.Email)
	require.NoError(t, err)
	_, err = env.client.Refresh(ctx, unseen)
	requireAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeInvalidGrant)

	_, err = env.client.Refresh(ctx, "garbage")
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken)
}

func TestLogout_ClearsCookie(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t, generous())
	signup(t, env)

	login, err := env.client.Login(ctx, "alice", "secret1")
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, env.srv.URL+"/logout",
		strings.NewReader(`{"access_token":"`+login.AccessToken+`"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: authsdk.RefreshCookie, Value: login.RefreshToken})

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var msg authsdk.MessageResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&msg))
	require.Equal(t, "success", msg.Message)

	var cleared bool
	for _, c := range resp.Cookies() {
		if c.Name == authsdk.RefreshCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	require.True(t, cleared)

	// No cookie at all is still a successful logout.
	require.NoError(t, env.client.Logout(ctx, login.AccessToken, ""))

	err = env.client.Logout(ctx, "garbage", login.RefreshToken)
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken)
}

func TestSystemEndpoints(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t, generous())

	live, err := env.client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := env.client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)

	resp, err := http.Get(env.srv.URL + "/connection")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	require.JSONEq(t, `"OK"`, string(body))

	signup(t, env)
	_, err = env.client.Login(ctx, "alice", "secret1")
	require.NoError(t, err)

	resp, err = http.Get(env.srv.URL + "/metrics")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	require.Contains(t, string(body), `gatekeep_tokens_issued_total{kind="access"} 1`)
	require.Contains(t, string(body), `gatekeep_http_request_duration_seconds_count{route="POST /login",status="200"} 1`)
}

func TestRequestIDEchoed(t *testing.T) {
	env := newEnv(t, generous())

	req, err := http.NewRequest(http.MethodGet, env.srv.URL+"/livez", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "trace-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, "trace-123", resp.Header.Get("X-Request-ID"))
}

func TestRateLimit_Signup(t *testing.T) {
	strict := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Hour, Burst: 1}
	limits := generous()
	limits.Strict = strict
	env := newEnv(t, limits)

	signup(t, env)

	_, err := env.client.Signup(context.Background(), authsdk.SignupRequest{
		Username: "bob",
		Email:    "b@x.com",
		Password: "secret2",
	})
	requireAPIError(t, err, http.StatusTooManyRequests, authsdk.ErrorCodeRateLimited)
}
