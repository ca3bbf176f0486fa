package task

import (
	"context"
)

// Task type constants
const (
	// TaskTypeSessionCleanup identifies the stale session sweep
	TaskTypeSessionCleanup = "session_cleanup"
)

// Task represents a unit of background work run on a schedule
type Task interface {
	// Type returns the task type identifier
	Type() string

	// Execute runs the task logic. The context is cancelled when the
	// runner stops.
	Execute(ctx context.Context) error
}
