package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/gatekeep/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeep/internal/auth/store"
)

type grantsRepo struct {
	q *queries
}

func (r *grantsRepo) CreateGrant(ctx context.Context, g domain.Grant) (domain.Grant, error) {
	err := r.q.db.QueryRowContext(ctx,
		`INSERT INTO tokens (refresh, user_id, expires_at)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		g.Refresh, g.UserID, g.ExpiresAt,
	).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Grant{}, store.ErrConflict
		}
		return domain.Grant{}, fmt.Errorf("postgres: create grant: %w", err)
	}
	return g, nil
}

func (r *grantsRepo) GetGrantByRefresh(ctx context.Context, refresh string) (domain.Grant, error) {
	var g domain.Grant
	err := r.q.db.QueryRowContext(ctx,
		`SELECT id, refresh, user_id, expires_at, created_at FROM tokens WHERE refresh = $1`,
		refresh,
	).Scan(&g.ID, &g.Refresh, &g.UserID, &g.ExpiresAt, &g.CreatedAt)
	if err != nil {
		return domain.Grant{}, mapNotFound(err)
	}
	return g, nil
}

// RotateGrant relies on row locking: a concurrent rotation of the same row
// blocks on the first, then re-evaluates refresh = $4 and matches nothing.
func (r *grantsRepo) RotateGrant(
	ctx context.Context,
	id int64,
	oldRefresh, newRefresh string,
	expiresAt time.Time,
) error {
	res, err := r.q.db.ExecContext(ctx,
		`UPDATE tokens SET refresh = $1, expires_at = $2 WHERE id = $3 AND refresh = $4`,
		newRefresh, expiresAt, id, oldRefresh,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrConflict
		}
		return fmt.Errorf("postgres: rotate grant: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("postgres: rotate grant: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *grantsRepo) DeleteGrant(ctx context.Context, refresh string, userID int64) (bool, error) {
	res, err := r.q.db.ExecContext(ctx,
		`DELETE FROM tokens WHERE refresh = $1 AND user_id = $2`,
		refresh, userID,
	)
	if err != nil {
		return false, fmt.Errorf("postgres: delete grant: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("postgres: delete grant: %w", err)
	}
	return n > 0, nil
}

func (r *grantsRepo) DeleteExpiredGrants(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.q.db.ExecContext(ctx, `DELETE FROM tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("postgres: delete expired grants: %w", err)
	}
	return res.RowsAffected()
}
