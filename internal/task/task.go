package task

import (
	"context"

	"github.com/google/uuid"
)

// TaskStatus is the lifecycle state of a background task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task type constants
const (
	// TaskTypeWordBatch represents the task type for turning an uploaded
	// word list into slide decks
	TaskTypeWordBatch = "word_batch"
)

// Task is a unit of background work run by the worker pool.
type Task interface {
	ID() uuid.UUID
	Type() string

	// Payload is a JSON description of the task for logs. It must not
	// carry credentials.
	Payload() []byte

	Status() TaskStatus

	// Execute runs the task; ctx is cancelled when the runner stops.
	Execute(ctx context.Context) error
}

// JobTask is a Task that drives a job of the job manager.
type JobTask interface {
	Task

	// JobID returns the id of the job the task reports to
	JobID() string
}

// TaskQueueReader is the consuming side of a task queue.
type TaskQueueReader interface {
	GetChannel() <-chan Task
}

// TaskQueueWriter is the producing side of a task queue. Enqueue never
// blocks; a full queue is reported as ErrQueueFull.
type TaskQueueWriter interface {
	Enqueue(task Task) error
	Close()
}

// JobRecorder is the subset of the job manager a batch reports to.
type JobRecorder interface {
	SetTotalItems(id string, n int)
	RecordOutcome(id, word, filename, errMsg string)
	Fail(id, message string)
}
