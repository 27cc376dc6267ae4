package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/spelldeck-api/internal/artifact"
	"github.com/phrazzld/spelldeck-api/internal/generation"
	"github.com/phrazzld/spelldeck-api/internal/ingest"
	"github.com/phrazzld/spelldeck-api/internal/redact"
)

// Common errors
var (
	ErrNilJobRecorder = errors.New("job recorder cannot be nil")
	ErrNilJobDirs     = errors.New("job directory provider cannot be nil")
	ErrNilProcessor   = errors.New("item processor cannot be nil")
	ErrNilLogger      = errors.New("logger cannot be nil")
	ErrEmptyJobID     = errors.New("job ID cannot be empty")
	ErrBatchAborted   = errors.New("batch aborted")
)

// JobDirs provides the output directory of a job.
type JobDirs interface {
	EnsureJobDir(jobID string) (string, error)
}

// WordProcessor processes a single word of a batch.
type WordProcessor interface {
	Process(ctx context.Context, word, jobDir string) ItemOutcome
}

// WordReader parses the uploaded input into words.
type WordReader func(path string) ([]string, error)

// batchPayload is the loggable description of a batch task. The credential
// is deliberately absent.
type batchPayload struct {
	JobID    string `json:"job_id"`
	Input    string `json:"input"`
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
}

// BatchTask implements the Task interface for processing one uploaded word
// list into decks, one word at a time.
type BatchTask struct {
	id        uuid.UUID
	jobID     string
	upload    *artifact.Upload
	options   generation.Options
	jobs      JobRecorder
	dirs      JobDirs
	processor WordProcessor
	readWords WordReader
	logger    *slog.Logger

	mu     sync.Mutex
	status TaskStatus
}

var _ JobTask = (*BatchTask)(nil)

// NewBatchTask creates a task for jobID reading the staged upload. The upload
// is removed when the task finishes.
func NewBatchTask(
	jobID string,
	upload *artifact.Upload,
	opts generation.Options,
	jobs JobRecorder,
	dirs JobDirs,
	processor WordProcessor,
	logger *slog.Logger,
) (*BatchTask, error) {
	if jobs == nil {
		return nil, ErrNilJobRecorder
	}
	if dirs == nil {
		return nil, ErrNilJobDirs
	}
	if processor == nil {
		return nil, ErrNilProcessor
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if jobID == "" {
		return nil, ErrEmptyJobID
	}
	if upload == nil {
		upload = &artifact.Upload{}
	}

	return &BatchTask{
		id:        uuid.New(),
		jobID:     jobID,
		upload:    upload,
		options:   opts,
		jobs:      jobs,
		dirs:      dirs,
		processor: processor,
		readWords: ingest.ReadWords,
		logger:    logger.With("task_type", TaskTypeWordBatch, "job_id", jobID),
		status:    TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *BatchTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *BatchTask) Type() string {
	return TaskTypeWordBatch
}

// JobID returns the job the task reports to.
func (t *BatchTask) JobID() string {
	return t.jobID
}

// Payload returns the task description as JSON.
func (t *BatchTask) Payload() []byte {
	data, err := json.Marshal(batchPayload{
		JobID:    t.jobID,
		Input:    t.upload.Path,
		Provider: t.options.Provider.String(),
		Model:    t.options.Model,
	})
	if err != nil {
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}
	return data
}

// Status returns the current task status
func (t *BatchTask) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *BatchTask) setStatus(s TaskStatus) {
	t.mu.Lock()
	t.status = s
	t.mu.Unlock()
}

// Execute parses the input, records the total and processes every word in
// file order. Input problems fail the job and return nil: the failure has
// been recorded and there is nothing left for the runner to do. A panic is
// recovered, fails the job with the panic message, and is returned as
// ErrBatchAborted.
func (t *BatchTask) Execute(ctx context.Context) (err error) {
	t.setStatus(TaskStatusProcessing)
	t.logger.InfoContext(ctx, "starting word batch")

	defer t.upload.Remove()
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprint(r)
			t.logger.ErrorContext(ctx, "word batch panicked", "panic", msg)
			t.jobs.Fail(t.jobID, msg)
			err = fmt.Errorf("%w: %s", ErrBatchAborted, msg)
		}
		if err != nil {
			t.setStatus(TaskStatusFailed)
		} else if t.Status() == TaskStatusProcessing {
			t.setStatus(TaskStatusCompleted)
		}
	}()

	jobDir, err := t.dirs.EnsureJobDir(t.jobID)
	if err != nil {
		t.logger.ErrorContext(ctx, "failed to prepare output directory", "error", redact.Error(err))
		t.fail("failed to prepare output directory")
		return nil
	}

	words, err := t.readWords(t.upload.Path)
	if err != nil {
		msg := inputErrorMessage(err)
		t.logger.WarnContext(ctx, "input rejected", "error", msg)
		t.fail(msg)
		return nil
	}
	if len(words) == 0 {
		t.fail(ingest.ErrNoWords.Error())
		return nil
	}

	t.jobs.SetTotalItems(t.jobID, len(words))
	t.logger.InfoContext(ctx, "processing words", "total_items", len(words))

	failed := 0
	for i, word := range words {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w after %d of %d words: %w", ErrBatchAborted, i, len(words), err)
		}
		outcome := t.processor.Process(ctx, word, jobDir)
		if outcome.Error != "" {
			failed++
		}
		t.jobs.RecordOutcome(t.jobID, outcome.Word, outcome.Filename, outcome.Error)
	}

	t.logger.InfoContext(ctx, "word batch finished",
		"total_items", len(words),
		"failed_items", failed)
	return nil
}

func (t *BatchTask) fail(msg string) {
	t.jobs.Fail(t.jobID, msg)
	t.setStatus(TaskStatusFailed)
}

// inputErrorMessage returns the client-facing text for an ingestion error.
func inputErrorMessage(err error) string {
	switch {
	case errors.Is(err, ingest.ErrNoWords):
		return ingest.ErrNoWords.Error()
	case errors.Is(err, ingest.ErrMissingWordColumn):
		return ingest.ErrMissingWordColumn.Error()
	default:
		return redact.Error(err)
	}
}
