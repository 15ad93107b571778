package auth_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aussiebroadwan/gatekeep/pkg/authsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestPostgresBackend runs the service against Postgres. The two
// containers talk over the default bridge network.
func TestPostgresBackend(t *testing.T) {
	ctx := context.Background()

	pg, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("gatekeep"),
		tcpostgres.WithUsername("gatekeep"),
		tcpostgres.WithPassword("gatekeep"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(pg) })

	ip, err := pg.ContainerIP(ctx)
	require.NoError(t, err)

	env := relaxedLimits(baseEnv())
	env["AUTH_DATABASE_DRIVER"] = "postgres"
	env["AUTH_DATABASE_URL"] = fmt.Sprintf("postgres://gatekeep:gatekeep@%s:5432/gatekeep?sslmode=disable", ip)

	client := authsdk.NewSDKClient(startService(t, env))
	login := signupAndLogin(t, client)

	pair, err := client.Refresh(t.Context(), login.RefreshToken)
	require.NoError(t, err)

	_, err = client.Refresh(t.Context(), login.RefreshToken)
	require.Error(t, err)

	require.NoError(t, client.Logout(t.Context(), pair.AccessToken, pair.RefreshToken))
}
