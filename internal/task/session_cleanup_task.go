package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// SessionPurger removes sessions older than a given age.
// service.CalculatorService satisfies it.
type SessionPurger interface {
	PurgeStaleSessions(ctx context.Context, maxAge time.Duration) (int64, error)
}

// SessionCleanupTask deletes sessions that have not been updated within MaxAge
type SessionCleanupTask struct {
	purger SessionPurger
	maxAge time.Duration
	logger *slog.Logger
}

// NewSessionCleanupTask creates a cleanup task for the given purger
func NewSessionCleanupTask(purger SessionPurger, maxAge time.Duration, logger *slog.Logger) (*SessionCleanupTask, error) {
	if purger == nil {
		return nil, errors.New("purger cannot be nil")
	}
	if maxAge <= 0 {
		return nil, fmt.Errorf("max age must be positive, got %s", maxAge)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionCleanupTask{
		purger: purger,
		maxAge: maxAge,
		logger: logger.With("task_type", TaskTypeSessionCleanup),
	}, nil
}

// Type implements Task
func (t *SessionCleanupTask) Type() string {
	return TaskTypeSessionCleanup
}

// Execute implements Task
func (t *SessionCleanupTask) Execute(ctx context.Context) error {
	removed, err := t.purger.PurgeStaleSessions(ctx, t.maxAge)
	if err != nil {
		return fmt.Errorf("failed to purge stale sessions: %w", err)
	}

	t.logger.Debug("session cleanup finished",
		"removed", removed,
		"max_age", t.maxAge.String())
	return nil
}
