package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/gradecalc/internal/domain"
)

// SessionStore defines the interface for calculator session persistence.
// A session is stored together with both of its row lists; every method
// reads or writes the whole aggregate.
type SessionStore interface {
	// Create inserts a new session and its two row lists.
	// Returns ErrInvalidEntity if the session fails domain validation and
	// ErrSessionExists if the ID is already taken.
	Create(ctx context.Context, session *domain.Session) error

	// Get retrieves a session by ID.
	// Returns ErrSessionNotFound if the session does not exist.
	// A persisted row list that cannot be decoded is replaced by the
	// default list rather than reported as an error.
	Get(ctx context.Context, id uuid.UUID) (*domain.Session, error)

	// GetForUpdate is Get that also locks the session until the surrounding
	// transaction ends, on backends that support row locks. It must be
	// called on a store obtained from WithTx.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Session, error)

	// Save writes both row lists, their states and results, and bumps the
	// session's updated_at. Returns ErrSessionNotFound if the session is gone.
	Save(ctx context.Context, session *domain.Session) error

	// Delete removes a session and its row lists.
	// Returns ErrSessionNotFound if the session does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteStale removes every session last updated before cutoff and
	// reports how many were removed.
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)

	// WithTx returns a new SessionStore instance that uses the provided transaction.
	//
	// Example usage:
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//       txStore := sessionStore.WithTx(tx)
	//       s, err := txStore.GetForUpdate(ctx, id)
	//       ...
	//       return txStore.Save(ctx, s)
	//   })
	WithTx(tx *sql.Tx) SessionStore
}
