package task

import (
	"log/slog"

	"github.com/phrazzld/spelldeck-api/internal/events"
	"github.com/phrazzld/spelldeck-api/internal/generation"
)

// BatchTaskFactory creates BatchTask instances from batch requests
type BatchTaskFactory struct {
	jobs      JobRecorder
	dirs      JobDirs
	generator generation.Generator
	renderer  Renderer
	logger    *slog.Logger
}

// NewBatchTaskFactory creates a new factory for BatchTasks
func NewBatchTaskFactory(
	jobs JobRecorder,
	dirs JobDirs,
	generator generation.Generator,
	renderer Renderer,
	logger *slog.Logger,
) *BatchTaskFactory {
	return &BatchTaskFactory{
		jobs:      jobs,
		dirs:      dirs,
		generator: generator,
		renderer:  renderer,
		logger:    logger.With("component", "batch_task_factory"),
	}
}

// CreateTask creates a BatchTask for req with its own ItemProcessor.
func (f *BatchTaskFactory) CreateTask(req events.BatchRequest) (Task, error) {
	opts := generation.Options{
		Provider: generation.Provider(req.Provider),
		APIKey:   req.APIKey,
		Model:    req.Model,
	}
	processor := NewItemProcessor(f.generator, f.renderer, opts, f.logger.With("job_id", req.JobID))

	upload := req.Upload
	task, err := NewBatchTask(req.JobID, &upload, opts, f.jobs, f.dirs, processor, f.logger)
	if err != nil {
		return nil, err
	}
	return task, nil
}
