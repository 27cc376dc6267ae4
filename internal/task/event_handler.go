package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/spelldeck-api/internal/events"
)

// TaskFactory creates a task for a batch request.
type TaskFactory interface {
	CreateTask(req events.BatchRequest) (Task, error)
}

// Submitter accepts tasks for background execution.
type Submitter interface {
	Submit(ctx context.Context, task Task) error
}

// TaskFactoryEventHandler implements the events.EventHandler interface
// to turn batch request events into submitted tasks.
type TaskFactoryEventHandler struct {
	taskFactory TaskFactory
	taskRunner  Submitter
	logger      *slog.Logger
}

// NewTaskFactoryEventHandler creates a new event handler that uses the given task factory
// to create tasks, and submits them to the provided task runner.
func NewTaskFactoryEventHandler(
	taskFactory TaskFactory,
	taskRunner Submitter,
	logger *slog.Logger,
) *TaskFactoryEventHandler {
	return &TaskFactoryEventHandler{
		taskFactory: taskFactory,
		taskRunner:  taskRunner,
		logger:      logger.With("component", "task_factory_event_handler"),
	}
}

// HandleEvent processes events by creating and submitting tasks.
// Events of other types are ignored. Submission errors, including
// ErrQueueFull, are returned wrapped so the emitter's caller can react.
func (h *TaskFactoryEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.BatchRequested {
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}

	req, err := event.BatchRequest()
	if err != nil {
		h.logger.Error("invalid batch request event", "error", err, "event_id", event.ID)
		return err
	}

	task, err := h.taskFactory.CreateTask(req)
	if err != nil {
		h.logger.Error("failed to create task",
			"error", err,
			"job_id", req.JobID,
			"event_id", event.ID)
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.taskRunner.Submit(ctx, task); err != nil {
		h.logger.Warn("failed to submit task",
			"error", err,
			"task_id", task.ID(),
			"job_id", req.JobID,
			"event_id", event.ID)
		return fmt.Errorf("failed to submit task: %w", err)
	}

	h.logger.Info("task created and submitted",
		"task_id", task.ID(),
		"job_id", req.JobID,
		"event_id", event.ID)
	return nil
}

// Ensure TaskFactoryEventHandler implements events.EventHandler
var _ events.EventHandler = (*TaskFactoryEventHandler)(nil)
