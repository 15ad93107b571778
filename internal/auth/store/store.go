package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/gatekeep/internal/auth/domain"
)

var (
	ErrNotFound = errors.New("store: not found")

	// ErrAlreadyExists reports a unique violation on users.
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict reports a unique violation on a grant's refresh value.
	ErrConflict = errors.New("store: conflict")
)

// Store is the root data access interface implemented by the sqlite and
// postgres drivers. Repositories hang off it so a transaction can hand out
// the same repositories bound to the tx.
type Store interface {
	Users() Users
	Grants() Grants

	ApplyMigrations(ctx context.Context) error

	// Tx starts a read/write transaction. The caller MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store. Nested transactions are not supported.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts u and returns it with ID and timestamps filled.
	// Fails with ErrAlreadyExists when the username or email is taken.
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)

	GetUserByID(ctx context.Context, id int64) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
}

type Grants interface {
	// CreateGrant inserts g and returns it with ID filled. Fails with
	// ErrConflict when g.Refresh already exists.
	CreateGrant(ctx context.Context, g domain.Grant) (domain.Grant, error)

	GetGrantByRefresh(ctx context.Context, refresh string) (domain.Grant, error)

	// RotateGrant swaps the refresh value of grant id from oldRefresh to
	// newRefresh in one conditional update. When the row no longer holds
	// oldRefresh (another rotation or a logout won) it returns ErrNotFound.
	RotateGrant(ctx context.Context, id int64, oldRefresh, newRefresh string, expiresAt time.Time) error

	// DeleteGrant removes the grant holding refresh if it belongs to userID.
	// It reports whether a row was deleted; absence is not an error.
	DeleteGrant(ctx context.Context, refresh string, userID int64) (bool, error)

	// DeleteExpiredGrants removes grants whose refresh token expired before now.
	DeleteExpiredGrants(ctx context.Context, now time.Time) (int64, error)
}
