package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/gatekeep/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeep/internal/auth/store"
	"github.com/aussiebroadwan/gatekeep/internal/auth/store/drivers/postgres"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupStore(t *testing.T) *postgres.Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
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
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	st, err := postgres.NewStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations(ctx))
	require.NoError(t, st.ApplyMigrations(ctx))
	return st
}

func TestPostgresStore(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	u, err := st.Users().CreateUser(ctx, domain.User{
		Username:     "alice",
		Email:        "a@x.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.Positive(t, u.ID)

	_, err = st.Users().CreateUser(ctx, domain.User{
		Username:     "alice2",
		Email:        "a@x.com",
		PasswordHash: "hash",
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	g, err := st.Grants().CreateGrant(ctx, domain.Grant{
		Refresh:   "r1",
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	got, err := st.Grants().GetGrantByRefresh(ctx, "r1")
	require.NoError(t, err)
	require.Equal(t, g.ID, got.ID)
	require.Equal(t, u.ID, got.UserID)

	require.NoError(t, st.Grants().RotateGrant(ctx, g.ID, "r1", "r2", time.Now().Add(time.Hour)))
	require.ErrorIs(t, st.Grants().RotateGrant(ctx, g.ID, "r1", "r3", time.Now().Add(time.Hour)), store.ErrNotFound)

	_, err = st.Grants().GetGrantByRefresh(ctx, "r1")
	require.ErrorIs(t, err, store.ErrNotFound)

	deleted, err := st.Grants().DeleteGrant(ctx, "r2", u.ID+1)
	require.NoError(t, err)
	require.False(t, deleted)

	deleted, err = st.Grants().DeleteGrant(ctx, "r2", u.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	_, err = st.Grants().CreateGrant(ctx, domain.Grant{
		Refresh:   "old",
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)
	n, err := st.Grants().DeleteExpiredGrants(ctx, time.Now())
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestPostgresStore_ConcurrentRotate(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	u, err := st.Users().CreateUser(ctx, domain.User{
		Username:     "bob",
		Email:        "b@x.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)

	g, err := st.Grants().CreateGrant(ctx, domain.Grant{
		Refresh:   "seed",
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	const n = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			next := "next-" + string(rune('a'+i))
			err := st.WithTx(ctx, func(tx store.Tx) error {
				return tx.Grants().RotateGrant(ctx, g.ID, "seed", next, time.Now().Add(time.Hour))
			})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, wins)
}
