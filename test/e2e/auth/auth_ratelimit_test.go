package auth_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/gatekeep/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestRateLimitLoginEndpoint verifies that /login is rate limited per
// IP and username. The strict profile allows 5 requests per minute.
func TestRateLimitLoginEndpoint(t *testing.T) {
	client := setupAuthContainerWithDefaultRateLimits(t)

	for i := range 5 {
		_, err := client.Login(t.Context(), "wronguser", "wrongpass")
		assertAPIError(t, err, http.StatusNotFound, "Should not be rate limited yet (request %d)", i+1)
	}

	_, err := client.Login(t.Context(), "wronguser", "wrongpass")
	apiErr := assertAPIError(t, err, http.StatusTooManyRequests, "Should be rate limited after 5 requests")
	require.Equal(t, authsdk.ErrorCodeRateLimited, apiErr.Code)

	// A different username gets its own bucket.
	_, err = client.Login(t.Context(), "otheruser", "wrongpass")
	assertAPIError(t, err, http.StatusNotFound)
}
