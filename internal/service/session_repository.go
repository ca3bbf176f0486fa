package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/gradecalc/internal/domain"
	"github.com/phrazzld/gradecalc/internal/store"
)

// SessionRepository defines the repository interface for the service layer.
// It mirrors store.SessionStore and adds access to the connection
// transactions are started on.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sql.Tx) SessionRepository

	// DB returns the underlying database connection
	DB() *sql.DB
}

// NewSessionRepositoryAdapter creates a new adapter that allows a
// store.SessionStore to be used where a SessionRepository is expected.
func NewSessionRepositoryAdapter(sessionStore store.SessionStore, db *sql.DB) SessionRepository {
	return &sessionRepositoryAdapter{
		sessionStore: sessionStore,
		db:           db,
	}
}

// sessionRepositoryAdapter adapts a store.SessionStore to the SessionRepository interface
type sessionRepositoryAdapter struct {
	sessionStore store.SessionStore
	db           *sql.DB
}

// Create implements SessionRepository.Create
func (a *sessionRepositoryAdapter) Create(ctx context.Context, session *domain.Session) error {
	return a.sessionStore.Create(ctx, session)
}

// Get implements SessionRepository.Get
func (a *sessionRepositoryAdapter) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	return a.sessionStore.Get(ctx, id)
}

// GetForUpdate implements SessionRepository.GetForUpdate
func (a *sessionRepositoryAdapter) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	return a.sessionStore.GetForUpdate(ctx, id)
}

// Save implements SessionRepository.Save
func (a *sessionRepositoryAdapter) Save(ctx context.Context, session *domain.Session) error {
	return a.sessionStore.Save(ctx, session)
}

// Delete implements SessionRepository.Delete
func (a *sessionRepositoryAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	return a.sessionStore.Delete(ctx, id)
}

// DeleteStale implements SessionRepository.DeleteStale
func (a *sessionRepositoryAdapter) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	return a.sessionStore.DeleteStale(ctx, cutoff)
}

// WithTx implements SessionRepository.WithTx
func (a *sessionRepositoryAdapter) WithTx(tx *sql.Tx) SessionRepository {
	return &sessionRepositoryAdapter{
		sessionStore: a.sessionStore.WithTx(tx),
		db:           a.db,
	}
}

// DB implements SessionRepository.DB
func (a *sessionRepositoryAdapter) DB() *sql.DB {
	return a.db
}
