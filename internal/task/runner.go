package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/spelldeck-api/internal/config"
	"github.com/phrazzld/spelldeck-api/internal/redact"
)

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int
}

// DefaultTaskRunnerConfig returns a TaskRunnerConfig with reasonable defaults
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount: 2,
		QueueSize:   100,
	}
}

// RunnerConfigFrom converts the task section of the application config.
func RunnerConfigFrom(cfg config.TaskConfig) TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount: cfg.WorkerCount,
		QueueSize:   cfg.QueueSize,
	}
}

// TaskRunner manages background task processing: a bounded queue drained by
// a worker pool.
type TaskRunner struct {
	queue  *TaskQueue
	pool   *WorkerPool
	config TaskRunnerConfig
	logger *slog.Logger
}

// NewTaskRunner creates a new TaskRunner. Tasks that fail are logged; call
// SetErrorHandler before Start to react to failures.
func NewTaskRunner(config TaskRunnerConfig, logger *slog.Logger) *TaskRunner {
	logger = logger.With("component", "task_runner")
	queue := NewTaskQueue(config.QueueSize, logger)
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: config.WorkerCount}, logger)

	r := &TaskRunner{
		queue:  queue,
		pool:   pool,
		config: config,
		logger: logger,
	}
	pool.SetErrorHandler(func(task Task, err error) {
		logger.Error("task execution failed",
			"task_id", task.ID(),
			"task_type", task.Type(),
			"error", redact.Error(err))
	})
	return r
}

// SetErrorHandler allows setting a custom error handler function
func (r *TaskRunner) SetErrorHandler(handler func(task Task, err error)) {
	r.pool.SetErrorHandler(handler)
}

// Submit adds a task to the queue without blocking. It returns ErrQueueFull
// when the queue is at capacity and ErrQueueClosed after Stop.
func (r *TaskRunner) Submit(ctx context.Context, task Task) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("submit task: %w", err)
	}
	if err := r.queue.Enqueue(task); err != nil {
		return fmt.Errorf("submit task %s: %w", task.ID(), err)
	}
	return nil
}

// Start begins processing tasks.
func (r *TaskRunner) Start() error {
	r.pool.Start()
	return nil
}

// Stop cancels running tasks, waits for the workers, and closes the queue.
func (r *TaskRunner) Stop() {
	r.pool.Stop()
	r.queue.Close()
	if n := r.queue.Len(); n > 0 {
		r.logger.Warn("task runner stopped with queued tasks", "queued", n)
	}
}

// FailJobOnError returns an error handler that marks the job of a failed
// JobTask as failed with the (redacted) error text. Jobs that already
// reached a terminal state are left unchanged by the recorder.
func FailJobOnError(jobs JobRecorder, logger *slog.Logger) func(Task, error) {
	return func(task Task, err error) {
		logger.Error("task execution failed",
			"task_id", task.ID(),
			"task_type", task.Type(),
			"error", redact.Error(err))

		jt, ok := task.(JobTask)
		if !ok {
			return
		}
		jobs.Fail(jt.JobID(), redact.Error(err))
	}
}
