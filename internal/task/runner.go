package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrRunnerStarted is returned when a runner is started twice or a task is
// scheduled on a running runner.
var ErrRunnerStarted = errors.New("task runner already started")

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	// RunOnStart executes every scheduled task once as soon as the runner
	// starts instead of waiting for the first tick
	RunOnStart bool
}

// DefaultTaskRunnerConfig returns a TaskRunnerConfig with reasonable defaults
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		RunOnStart: true,
	}
}

type scheduledTask struct {
	task     Task
	interval time.Duration
}

// TaskRunner runs scheduled tasks on their own tickers until stopped
type TaskRunner struct {
	mu         sync.Mutex
	tasks      []scheduledTask
	started    bool
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     TaskRunnerConfig
	logger     *slog.Logger
	errHandler func(task Task, err error)
}

// NewTaskRunner creates a new TaskRunner
func NewTaskRunner(config TaskRunnerConfig, logger *slog.Logger) *TaskRunner {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "task_runner")

	ctx, cancel := context.WithCancel(context.Background())

	return &TaskRunner{
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger,
		errHandler: func(task Task, err error) {
			// Default error handler just logs the error
			logger.Error("task execution failed",
				"task_type", task.Type(),
				"error", err)
		},
	}
}

// SetErrorHandler allows setting a custom error handler function
func (r *TaskRunner) SetErrorHandler(handler func(task Task, err error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errHandler = handler
}

// Schedule registers task to run every interval once the runner starts
func (r *TaskRunner) Schedule(task Task, interval time.Duration) error {
	if task == nil {
		return errors.New("task cannot be nil")
	}
	if interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", interval)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return ErrRunnerStarted
	}
	r.tasks = append(r.tasks, scheduledTask{task: task, interval: interval})
	return nil
}

// Start launches one goroutine per scheduled task
func (r *TaskRunner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return ErrRunnerStarted
	}
	r.started = true

	for _, s := range r.tasks {
		r.wg.Add(1)
		go r.loop(s)
	}

	r.logger.Info("task runner started", "task_count", len(r.tasks))
	return nil
}

// Stop cancels running tasks and waits for every loop to exit
func (r *TaskRunner) Stop() {
	r.cancelFunc()
	r.wg.Wait()
	r.logger.Info("task runner stopped")
}

// loop runs one task on its ticker. A tick that arrives while the task is
// still executing is dropped by the ticker, so runs never overlap.
func (r *TaskRunner) loop(s scheduledTask) {
	defer r.wg.Done()

	logger := r.logger.With("task_type", s.task.Type(), "interval", s.interval.String())
	logger.Debug("starting task loop")

	if r.config.RunOnStart {
		r.execute(s.task, logger)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			logger.Debug("stopping task loop")
			return

		case <-ticker.C:
			r.execute(s.task, logger)
		}
	}
}

// execute handles a single run of a task
func (r *TaskRunner) execute(task Task, logger *slog.Logger) {
	if r.ctx.Err() != nil {
		return
	}

	started := time.Now()
	err := task.Execute(r.ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) && r.ctx.Err() != nil {
			logger.Debug("task interrupted by shutdown")
			return
		}
		r.mu.Lock()
		handler := r.errHandler
		r.mu.Unlock()
		handler(task, err)
		return
	}

	logger.Debug("task completed", "duration", time.Since(started).String())
}
