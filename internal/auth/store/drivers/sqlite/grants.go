package sqlite

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
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}

	err := r.q.db.QueryRowContext(ctx,
		`INSERT INTO tokens (refresh, user_id, expires_at, created_at)
		 VALUES (?, ?, ?, ?)
		 RETURNING id`,
		g.Refresh, g.UserID, toUnix(g.ExpiresAt), toUnix(g.CreatedAt),
	).Scan(&g.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Grant{}, store.ErrConflict
		}
		return domain.Grant{}, fmt.Errorf("sqlite: create grant: %w", err)
	}

	g.ExpiresAt = fromUnix(toUnix(g.ExpiresAt))
	g.CreatedAt = fromUnix(toUnix(g.CreatedAt))
	return g, nil
}

func (r *grantsRepo) GetGrantByRefresh(ctx context.Context, refresh string) (domain.Grant, error) {
	var (
		g                domain.Grant
		expires, created int64
	)
	err := r.q.db.QueryRowContext(ctx,
		`SELECT id, refresh, user_id, expires_at, created_at FROM tokens WHERE refresh = ?`,
		refresh,
	).Scan(&g.ID, &g.Refresh, &g.UserID, &expires, &created)
	if err != nil {
		return domain.Grant{}, mapNotFound(err)
	}
	g.ExpiresAt = fromUnix(expires)
	g.CreatedAt = fromUnix(created)
	return g, nil
}

func (r *grantsRepo) RotateGrant(
	ctx context.Context,
	id int64,
	oldRefresh, newRefresh string,
	expiresAt time.Time,
) error {
	res, err := r.q.db.ExecContext(ctx,
		`UPDATE tokens SET refresh = ?, expires_at = ? WHERE id = ? AND refresh = ?`,
		newRefresh, toUnix(expiresAt), id, oldRefresh,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrConflict
		}
		return fmt.Errorf("sqlite: rotate grant: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rotate grant: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *grantsRepo) DeleteGrant(ctx context.Context, refresh string, userID int64) (bool, error) {
	res, err := r.q.db.ExecContext(ctx,
		`DELETE FROM tokens WHERE refresh = ? AND user_id = ?`,
		refresh, userID,
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: delete grant: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: delete grant: %w", err)
	}
	return n > 0, nil
}

func (r *grantsRepo) DeleteExpiredGrants(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.q.db.ExecContext(ctx, `DELETE FROM tokens WHERE expires_at < ?`, toUnix(now))
	if err != nil {
		return 0, fmt.Errorf("sqlite: delete expired grants: %w", err)
	}
	return res.RowsAffected()
}
