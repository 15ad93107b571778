/*
Package authsdk is the Go client for the gatekeep authentication service.

It wraps the five session endpoints and the health probes:

	client := authsdk.NewSDKClient("http://localhost:8080")

	user, err := client.Signup(ctx, authsdk.SignupRequest{
		Username: "alice",
		Email:    "a@x.com",
		Password: "secret1",
	})

	login, err := client.Login(ctx, "alice", "secret1")
	me, err := client.GetUser(ctx, login.AccessToken)

	// Refresh tokens are single use. Keep the pair returned here and drop
	// the old one.
	pair, err := client.Refresh(ctx, login.RefreshToken)

	err = client.Logout(ctx, pair.AccessToken, pair.RefreshToken)

The refresh token travels in the refresh_token cookie as the server expects;
callers pass and receive it as a plain string.

# Errors

Every non-2xx response is returned as *APIError. Use errors.As to inspect
the status code and error code:

	var apiErr *authsdk.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest {
		// refresh token already used or revoked: log in again
	}

The same APIError values are used by the server to write responses, so the
codes in this package are the complete set the service emits.
*/
package authsdk
