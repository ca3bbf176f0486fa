package database_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/gradecalc/internal/domain"
	"github.com/phrazzld/gradecalc/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_CreateAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newMemoryStore(t)

	session := domain.NewSession()
	require.NoError(t, s.Create(ctx, session))

	got, err := s.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, session.Subjects.Rows, got.Subjects.Rows)
	assert.Equal(t, session.Terms.Rows, got.Terms.Rows)
	assert.Equal(t, domain.StateIdle, got.Subjects.State)
	assert.Nil(t, got.Subjects.Result)
	assert.WithinDuration(t, session.CreatedAt, got.CreatedAt, time.Millisecond)
}

func TestSessionStore_CreateDuplicate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newMemoryStore(t)

	session := domain.NewSession()
	require.NoError(t, s.Create(ctx, session))

	err := s.Create(ctx, session)
	assert.ErrorIs(t, err, store.ErrSessionExists)
	assert.True(t, store.IsDuplicateError(err))
}

func TestSessionStore_CreateInvalid(t *testing.T) {
	t.Parallel()
	s, _ := newMemoryStore(t)

	session := domain.NewSession()
	session.Subjects.Rows = nil

	err := s.Create(context.Background(), session)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.ErrorIs(t, err, domain.ErrRowsEmpty)
}

func TestSessionStore_GetMissing(t *testing.T) {
	t.Parallel()
	s, _ := newMemoryStore(t)

	_, err := s.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
	assert.True(t, store.IsNotFoundError(err))
}

func TestSessionStore_SaveRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newMemoryStore(t)

	session := domain.NewSession()
	require.NoError(t, s.Create(ctx, session))

	session.Subjects.Rows = []domain.GradeRow{
		{ID: "1", Name: "Maths", Grade: "A", Credits: 4},
		{ID: "2", Name: "Physics", Grade: "B+", Credits: 3.5},
	}
	session.Subjects.State = domain.StatePresented
	session.Subjects.Result = &domain.Result{
		Value:      8.5714,
		Rounded:    8.57,
		ComputedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	session.Terms.Rows = []domain.TermRow{{ID: "t1", Name: "Semester 1", GPA: 9.1, Credits: 22}}
	session.Touch()

	require.NoError(t, s.Save(ctx, session))

	got, err := s.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.Subjects.Rows, got.Subjects.Rows)
	assert.Equal(t, domain.StatePresented, got.Subjects.State)
	require.NotNil(t, got.Subjects.Result)
	assert.Equal(t, 8.57, got.Subjects.Result.Rounded)
	assert.True(t, session.Subjects.Result.ComputedAt.Equal(got.Subjects.Result.ComputedAt))
	assert.Equal(t, session.Terms.Rows, got.Terms.Rows)
	assert.Equal(t, domain.StateIdle, got.Terms.State)
	assert.WithinDuration(t, session.UpdatedAt, got.UpdatedAt, time.Millisecond)
}

func TestSessionStore_SaveMissing(t *testing.T) {
	t.Parallel()
	s, _ := newMemoryStore(t)

	err := s.Save(context.Background(), domain.NewSession())
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestSessionStore_CorruptRowsFallBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, db := newMemoryStore(t)

	session := domain.NewSession()
	session.Terms.Rows = []domain.TermRow{{ID: "t1", Name: "Semester 1", GPA: 8, Credits: 20}}
	session.Terms.State = domain.StatePresented
	session.Terms.Result = &domain.Result{Value: 8, Rounded: 8, Band: domain.BandVeryGood}
	require.NoError(t, s.Create(ctx, session))

	_, err := db.Exec(`UPDATE row_lists SET rows_json = '{"not":"a list"}' WHERE session_id = ? AND list_key = ?`,
		session.ID.String(), string(domain.TermListKey))
	require.NoError(t, err)

	got, err := s.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTermRows(), got.Terms.Rows)
	assert.Equal(t, domain.StateIdle, got.Terms.State)
	assert.Nil(t, got.Terms.Result, "a result cannot outlive the rows it was computed from")
}

func TestSessionStore_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, db := newMemoryStore(t)

	session := domain.NewSession()
	require.NoError(t, s.Create(ctx, session))
	require.NoError(t, s.Delete(ctx, session.ID))

	_, err := s.Get(ctx, session.ID)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM row_lists`).Scan(&n))
	assert.Zero(t, n)

	assert.ErrorIs(t, s.Delete(ctx, session.ID), store.ErrSessionNotFound)
}

func TestSessionStore_DeleteStale(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newMemoryStore(t)

	old := domain.NewSession()
	old.CreatedAt = time.Now().Add(-48 * time.Hour)
	old.UpdatedAt = old.CreatedAt
	require.NoError(t, s.Create(ctx, old))

	fresh := domain.NewSession()
	require.NoError(t, s.Create(ctx, fresh))

	n, err := s.DeleteStale(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.Get(ctx, old.ID)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
	_, err = s.Get(ctx, fresh.ID)
	assert.NoError(t, err)
}

func TestSessionStore_WithTxRollsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, db := newMemoryStore(t)

	session := domain.NewSession()
	rollback := assert.AnError

	err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.WithTx(tx)
		if err := txStore.Create(ctx, session); err != nil {
			return err
		}
		if _, err := txStore.GetForUpdate(ctx, session.ID); err != nil {
			return err
		}
		return rollback
	})
	require.ErrorIs(t, err, rollback)

	_, err = s.Get(ctx, session.ID)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestSessionStore_IdleKeepsLastResult(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newMemoryStore(t)

	session := domain.NewSession()
	session.Subjects.State = domain.StateIdle
	session.Subjects.Result = &domain.Result{Value: 7.2, Rounded: 7.2}
	require.NoError(t, s.Create(ctx, session))

	got, err := s.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateIdle, got.Subjects.State)
	require.NotNil(t, got.Subjects.Result)
	assert.Equal(t, 7.2, got.Subjects.Result.Rounded)
}
