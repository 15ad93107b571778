package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/gatekeep/pkg/httpx"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func serve(h http.Handler, target, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIPKeyExtractor(t *testing.T) {
	t.Run("extracts from RemoteAddr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		require.Equal(t, "192.168.1.1", httpx.IPKeyExtractor(req))
	})

	t.Run("prefers X-Forwarded-For", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Forwarded-For", "203.0.113.1, 192.168.1.1")
		require.Equal(t, "203.0.113.1", httpx.IPKeyExtractor(req))
	})

	t.Run("uses X-Real-IP if X-Forwarded-For absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Real-IP", "203.0.113.2")
		require.Equal(t, "203.0.113.2", httpx.IPKeyExtractor(req))
	})
}

func TestFormFieldKeyExtractor(t *testing.T) {
	form := url.Values{"username": {"bob"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	require.Equal(t, "bob", httpx.FormFieldKeyExtractor("username")(req))
	// the body is consumed but the parsed form stays available downstream
	require.Equal(t, "bob", req.PostFormValue("username"))

	empty := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Empty(t, httpx.FormFieldKeyExtractor("username")(empty))
}

func TestCompositeKeyExtractor(t *testing.T) {
	extract := httpx.CompositeKeyExtractor(":", httpx.IPKeyExtractor, httpx.FormFieldKeyExtractor("username"))

	req := httptest.NewRequest(http.MethodGet, "/?username=alice", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	require.Equal(t, "192.168.1.1:alice", extract(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	require.Equal(t, "192.168.1.1", extract(req))
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("blocks requests over limit", func(t *testing.T) {
		h := httpx.RateLimitByIP(httpx.RateLimitConfig{RequestsPerWindow: 3, Window: time.Minute, Burst: 3})(okHandler)

		for i := range 3 {
			require.Equal(t, http.StatusOK, serve(h, "/", "192.168.1.1:1").Code, "request %d", i+1)
		}

		rec := serve(h, "/", "192.168.1.1:1")
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.NotEmpty(t, rec.Header().Get("Retry-After"))
		require.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
		require.Equal(t, "1m0s", rec.Header().Get("X-RateLimit-Window"))
		require.Contains(t, rec.Body.String(), "rate_limit_exceeded")
		require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

		// other clients keep their own bucket
		require.Equal(t, http.StatusOK, serve(h, "/", "192.168.1.2:1").Code)
	})

	t.Run("allows request when key extractor returns empty", func(t *testing.T) {
		h := httpx.RateLimitMiddleware(
			httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1},
			func(*http.Request) string { return "" },
		)(okHandler)

		for range 3 {
			require.Equal(t, http.StatusOK, serve(h, "/", "192.168.1.1:1").Code)
		}
	})

	t.Run("ip and form field", func(t *testing.T) {
		h := httpx.RateLimitByIPAndFormField(httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}, "username")(okHandler)

		for range 2 {
			require.Equal(t, http.StatusOK, serve(h, "/?username=alice", "192.168.1.1:1").Code)
		}
		require.Equal(t, http.StatusTooManyRequests, serve(h, "/?username=alice", "192.168.1.1:1").Code)
		require.Equal(t, http.StatusOK, serve(h, "/?username=bob", "192.168.1.1:1").Code)
	})
}

func TestDefaultLimits(t *testing.T) {
	l := httpx.DefaultLimits()
	for name, cfg := range map[string]httpx.RateLimitConfig{"strict": l.Strict, "moderate": l.Moderate, "lenient": l.Lenient} {
		require.Positive(t, cfg.RequestsPerWindow, name)
		require.Positive(t, cfg.Window, name)
		require.Positive(t, cfg.Burst, name)
	}
	require.Less(t, l.Strict.RequestsPerWindow, l.Moderate.RequestsPerWindow)
	require.Less(t, l.Moderate.RequestsPerWindow, l.Lenient.RequestsPerWindow)
}

func TestLimitsFromEnv(t *testing.T) {
	env := map[string]string{
		"RATELIMIT_STRICT_REQUESTS":   "50",
		"RATELIMIT_STRICT_WINDOW_SEC": "120",
		"RATELIMIT_MODERATE_BURST":    "7",
		"RATELIMIT_LENIENT_REQUESTS":  "-4",
		"RATELIMIT_LENIENT_BURST":     "lots",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	base := httpx.DefaultLimits()
	got := httpx.LimitsFromEnv(base, lookup)

	require.Equal(t, 50, got.Strict.RequestsPerWindow)
	require.Equal(t, 120*time.Second, got.Strict.Window)
	require.Equal(t, base.Strict.Burst, got.Strict.Burst)
	require.Equal(t, 7, got.Moderate.Burst)
	require.Equal(t, base.Lenient, got.Lenient, "invalid values are ignored")
}

func BenchmarkRateLimitMiddleware(b *testing.B) {
	h := httpx.RateLimitByIP(httpx.RateLimitConfig{RequestsPerWindow: 1000000, Window: time.Minute, Burst: 1000})(okHandler)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:12345"

	for b.Loop() {
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
}
