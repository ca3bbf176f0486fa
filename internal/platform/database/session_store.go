package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/gradecalc/internal/domain"
	"github.com/phrazzld/gradecalc/internal/platform/logger"
	"github.com/phrazzld/gradecalc/internal/store"
)

// SessionStore implements the store.SessionStore interface on top of any
// supported SQL backend.
type SessionStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

// NewSessionStore creates a SessionStore. It accepts a database connection or
// transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewSessionStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *SessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "session_store")),
	}
}

// Ensure SessionStore implements store.SessionStore interface
var _ store.SessionStore = (*SessionStore)(nil)

// rowListRecord is one persisted calculator.
type rowListRecord struct {
	key    domain.ListKey
	rows   []byte
	state  domain.CalcState
	result sql.NullString
}

// Create implements store.SessionStore.Create
func (s *SessionStore) Create(ctx context.Context, session *domain.Session) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during create",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx,
		s.dialect.Rebind(`INSERT INTO sessions (id, created_at, updated_at) VALUES (?, ?, ?)`),
		session.ID.String(), toMillis(session.CreatedAt), toMillis(session.UpdatedAt),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("session already exists", slog.String("session_id", session.ID.String()))
			return fmt.Errorf("%w: %s", store.ErrSessionExists, session.ID)
		}
		log.Error("failed to create session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return MapError(err)
	}

	if err := s.upsertLists(ctx, session); err != nil {
		return err
	}

	log.Info("session created", slog.String("session_id", session.ID.String()))
	return nil
}

// Get implements store.SessionStore.Get
func (s *SessionStore) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	return s.get(ctx, id, false)
}

// GetForUpdate implements store.SessionStore.GetForUpdate
func (s *SessionStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	return s.get(ctx, id, true)
}

func (s *SessionStore) get(ctx context.Context, id uuid.UUID, lock bool) (*domain.Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := s.dialect.Rebind(`SELECT created_at, updated_at FROM sessions WHERE id = ?`)
	if lock {
		query = s.dialect.ForUpdate(query)
	}

	var createdAt, updatedAt int64
	err := s.db.QueryRowContext(ctx, query, id.String()).Scan(&createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("session not found", slog.String("session_id", id.String()))
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to get session",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return nil, MapError(err)
	}

	session := &domain.Session{
		ID:        id,
		Subjects:  domain.SubjectList{Rows: domain.DefaultGradeRows(), State: domain.StateIdle},
		Terms:     domain.TermList{Rows: domain.DefaultTermRows(), State: domain.StateIdle},
		CreatedAt: fromMillis(createdAt),
		UpdatedAt: fromMillis(updatedAt),
	}

	records, err := s.loadLists(ctx, id)
	if err != nil {
		log.Error("failed to load row lists",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return nil, err
	}

	for _, rec := range records {
		switch rec.key {
		case domain.SubjectListKey:
			rows, fellBack := domain.DecodeGradeRows(rec.rows)
			session.Subjects.Rows = rows
			if !fellBack {
				session.Subjects.State, session.Subjects.Result = decodeOutcome(rec)
			} else {
				log.Warn("stored subject list unreadable, using default",
					slog.String("session_id", id.String()))
			}
		case domain.TermListKey:
			rows, fellBack := domain.DecodeTermRows(rec.rows)
			session.Terms.Rows = rows
			if !fellBack {
				session.Terms.State, session.Terms.Result = decodeOutcome(rec)
			} else {
				log.Warn("stored term list unreadable, using default",
					slog.String("session_id", id.String()))
			}
		}
	}

	return session, nil
}

func (s *SessionStore) loadLists(ctx context.Context, id uuid.UUID) ([]rowListRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		s.dialect.Rebind(`SELECT list_key, rows_json, state, result_json FROM row_lists WHERE session_id = ?`),
		id.String(),
	)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var out []rowListRecord
	for rows.Next() {
		var (
			rec      rowListRecord
			key      string
			rowsJSON string
			state    string
		)
		if err := rows.Scan(&key, &rowsJSON, &state, &rec.result); err != nil {
			return nil, MapError(err)
		}
		rec.key = domain.ListKey(key)
		rec.rows = []byte(rowsJSON)
		rec.state = domain.CalcState(state)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return out, nil
}

// decodeOutcome restores a calculator's state and last result. The result
// survives edits, so it is kept in either state; a presented calculator
// without a readable result is demoted to idle.
func decodeOutcome(rec rowListRecord) (domain.CalcState, *domain.Result) {
	var res *domain.Result
	if rec.result.Valid {
		var r domain.Result
		if err := json.Unmarshal([]byte(rec.result.String), &r); err == nil {
			res = &r
		}
	}
	if rec.state == domain.StatePresented && res != nil {
		return domain.StatePresented, res
	}
	return domain.StateIdle, res
}

// Save implements store.SessionStore.Save
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during save",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	result, err := s.db.ExecContext(ctx,
		s.dialect.Rebind(`UPDATE sessions SET updated_at = ? WHERE id = ?`),
		toMillis(session.UpdatedAt), session.ID.String(),
	)
	if err != nil {
		log.Error("failed to update session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrSessionNotFound); err != nil {
		return err
	}

	if err := s.upsertLists(ctx, session); err != nil {
		return err
	}

	log.Debug("session saved",
		slog.String("session_id", session.ID.String()),
		slog.String("subjects_state", string(session.Subjects.State)),
		slog.String("terms_state", string(session.Terms.State)))
	return nil
}

func (s *SessionStore) upsertLists(ctx context.Context, session *domain.Session) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	subjectRows, err := json.Marshal(session.Subjects.Rows)
	if err != nil {
		return fmt.Errorf("failed to encode subject rows: %w", err)
	}
	termRows, err := json.Marshal(session.Terms.Rows)
	if err != nil {
		return fmt.Errorf("failed to encode term rows: %w", err)
	}
	subjectResult, err := encodeResult(session.Subjects.Result)
	if err != nil {
		return err
	}
	termResult, err := encodeResult(session.Terms.Result)
	if err != nil {
		return err
	}

	query := s.dialect.Rebind(`
		INSERT INTO row_lists (session_id, list_key, rows_json, state, result_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (session_id, list_key) DO UPDATE SET
			rows_json = excluded.rows_json,
			state = excluded.state,
			result_json = excluded.result_json,
			updated_at = excluded.updated_at
	`)

	updatedAt := toMillis(session.UpdatedAt)
	lists := []rowListRecord{
		{key: domain.SubjectListKey, rows: subjectRows, state: session.Subjects.State, result: subjectResult},
		{key: domain.TermListKey, rows: termRows, state: session.Terms.State, result: termResult},
	}
	for _, l := range lists {
		_, err := s.db.ExecContext(ctx, query,
			session.ID.String(), string(l.key), string(l.rows), string(l.state), l.result, updatedAt,
		)
		if err != nil {
			log.Error("failed to write row list",
				slog.String("error", err.Error()),
				slog.String("session_id", session.ID.String()),
				slog.String("list", string(l.key)))
			return MapError(err)
		}
	}
	return nil
}

func encodeResult(r *domain.Result) (sql.NullString, error) {
	if r == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode result: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

// Delete implements store.SessionStore.Delete
func (s *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Row lists go first; SQLite only cascades when foreign keys are enabled
	// on the connection.
	if _, err := s.db.ExecContext(ctx,
		s.dialect.Rebind(`DELETE FROM row_lists WHERE session_id = ?`), id.String(),
	); err != nil {
		log.Error("failed to delete row lists",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return MapError(err)
	}

	result, err := s.db.ExecContext(ctx,
		s.dialect.Rebind(`DELETE FROM sessions WHERE id = ?`), id.String(),
	)
	if err != nil {
		log.Error("failed to delete session",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrSessionNotFound); err != nil {
		return err
	}

	log.Info("session deleted", slog.String("session_id", id.String()))
	return nil
}

// DeleteStale implements store.SessionStore.DeleteStale
func (s *SessionStore) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	ms := toMillis(cutoff)

	if _, err := s.db.ExecContext(ctx, s.dialect.Rebind(
		`DELETE FROM row_lists WHERE session_id IN (SELECT id FROM sessions WHERE updated_at < ?)`,
	), ms); err != nil {
		log.Error("failed to delete stale row lists", slog.String("error", err.Error()))
		return 0, MapError(err)
	}

	result, err := s.db.ExecContext(ctx,
		s.dialect.Rebind(`DELETE FROM sessions WHERE updated_at < ?`), ms,
	)
	if err != nil {
		log.Error("failed to delete stale sessions", slog.String("error", err.Error()))
		return 0, MapError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// WithTx implements store.SessionStore.WithTx
func (s *SessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &SessionStore{
		db:      tx,
		dialect: s.dialect,
		logger:  s.logger,
	}
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
