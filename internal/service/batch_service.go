package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/spelldeck-api/internal/artifact"
	"github.com/phrazzld/spelldeck-api/internal/domain"
	"github.com/phrazzld/spelldeck-api/internal/events"
	"github.com/phrazzld/spelldeck-api/internal/generation"
	"github.com/phrazzld/spelldeck-api/internal/redact"
	"github.com/phrazzld/spelldeck-api/internal/task"
)

// Messages recorded on jobs that never reached a worker.
const (
	msgServerBusy       = "server busy"
	msgScheduleFailed   = "failed to schedule batch"
	msgDefinitionNeeded = "definition is required when no language model is available"
)

// JobRegistry is the subset of the job manager the service uses.
type JobRegistry interface {
	Create() string
	Get(id string) (domain.Job, bool)
	Fail(id, message string)
}

// ArtifactStore resolves generated decks on disk.
type ArtifactStore interface {
	Path(jobID, filename string) (string, error)
}

// WordSource fetches word data and validates provider options.
type WordSource interface {
	generation.Generator
	Resolve(opts generation.Options) (generation.Options, error)
}

// WordRequest is a single-word deck request. Content fields left empty are
// filled from the language model when one is usable.
type WordRequest struct {
	Word       string
	Definition string
	Sentence   string
	Etymology  string
	Morphology string
	Synonyms   string
	Antonyms   string
	Options    generation.Options
}

// BatchService provides batch and single-word operations
type BatchService interface {
	// SubmitBatch creates a job for the staged upload and schedules it.
	// The service owns upload from this point on.
	SubmitBatch(ctx context.Context, upload *artifact.Upload, opts generation.Options) (string, error)

	// GetJob returns a snapshot of the job.
	GetJob(ctx context.Context, jobID string) (domain.Job, error)

	// ArtifactPath resolves a generated deck of a job.
	ArtifactPath(ctx context.Context, jobID, filename string) (string, error)

	// GenerateWord builds the record for a single word.
	GenerateWord(ctx context.Context, req WordRequest) (*domain.WordRecord, error)
}

// batchServiceImpl implements the BatchService interface
type batchServiceImpl struct {
	jobs      JobRegistry
	artifacts ArtifactStore
	words     WordSource
	emitter   events.EventEmitter
	logger    *slog.Logger
}

// NewBatchService creates a new BatchService.
// It returns an error if any of the required dependencies are nil.
func NewBatchService(
	jobs JobRegistry,
	artifacts ArtifactStore,
	words WordSource,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (BatchService, error) {
	switch {
	case jobs == nil:
		return nil, errors.New("jobs cannot be nil")
	case artifacts == nil:
		return nil, errors.New("artifacts cannot be nil")
	case words == nil:
		return nil, errors.New("words cannot be nil")
	case emitter == nil:
		return nil, errors.New("emitter cannot be nil")
	case logger == nil:
		return nil, errors.New("logger cannot be nil")
	}

	return &batchServiceImpl{
		jobs:      jobs,
		artifacts: artifacts,
		words:     words,
		emitter:   emitter,
		logger:    logger.With("component", "batch_service"),
	}, nil
}

// SubmitBatch implements BatchService.
func (s *batchServiceImpl) SubmitBatch(
	ctx context.Context,
	upload *artifact.Upload,
	opts generation.Options,
) (string, error) {
	if upload == nil || upload.Path == "" {
		return "", fmt.Errorf("%w: no input file", ErrInvalidRequest)
	}

	resolved, err := s.words.Resolve(opts)
	if err != nil {
		upload.Remove()
		return "", err
	}

	jobID := s.jobs.Create()
	log := s.logger.With("job_id", jobID, "provider", resolved.Provider.String())

	event, err := events.NewBatchRequestEvent(events.BatchRequest{
		JobID:    jobID,
		Upload:   *upload,
		Provider: resolved.Provider.String(),
		APIKey:   strings.TrimSpace(opts.APIKey),
		Model:    strings.TrimSpace(opts.Model),
	})
	if err != nil {
		s.abandon(jobID, upload, msgScheduleFailed)
		return "", NewBatchServiceError("submit_batch", "failed to create batch event", err)
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		if errors.Is(err, task.ErrQueueFull) {
			log.WarnContext(ctx, "rejecting batch, task queue is full")
			s.abandon(jobID, upload, msgServerBusy)
			return "", ErrServerBusy
		}
		log.ErrorContext(ctx, "failed to schedule batch", "error", redact.Error(err))
		s.abandon(jobID, upload, msgScheduleFailed)
		return "", NewBatchServiceError("submit_batch", "failed to schedule batch", err)
	}

	log.InfoContext(ctx, "batch accepted")
	return jobID, nil
}

// abandon fails a job that never reached a worker and drops its input.
func (s *batchServiceImpl) abandon(jobID string, upload *artifact.Upload, msg string) {
	s.jobs.Fail(jobID, msg)
	upload.Remove()
}

// GetJob implements BatchService.
func (s *batchServiceImpl) GetJob(_ context.Context, jobID string) (domain.Job, error) {
	job, ok := s.jobs.Get(jobID)
	if !ok {
		return domain.Job{}, ErrJobNotFound
	}
	return job, nil
}

// ArtifactPath implements BatchService.
func (s *batchServiceImpl) ArtifactPath(ctx context.Context, jobID, filename string) (string, error) {
	path, err := s.artifacts.Path(jobID, filename)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) || errors.Is(err, artifact.ErrInvalidPath) {
			s.logger.DebugContext(ctx, "artifact lookup failed",
				"job_id", jobID, "error", redact.Error(err))
			return "", ErrArtifactNotFound
		}
		return "", NewBatchServiceError("artifact_path", "failed to resolve artifact", err)
	}
	return path, nil
}

// GenerateWord implements BatchService. A request that carries its own
// definition is rendered as given; otherwise the language model fills every
// field the request left empty.
func (s *batchServiceImpl) GenerateWord(ctx context.Context, req WordRequest) (*domain.WordRecord, error) {
	word := strings.TrimSpace(req.Word)
	if word == "" {
		return nil, fmt.Errorf("%w: word is required", ErrInvalidRequest)
	}

	record := &domain.WordRecord{
		Word:       word,
		Definition: strings.TrimSpace(req.Definition),
		Sentence:   strings.TrimSpace(req.Sentence),
		Etymology:  strings.TrimSpace(req.Etymology),
		Morphology: strings.TrimSpace(req.Morphology),
		Synonyms:   strings.TrimSpace(req.Synonyms),
		Antonyms:   strings.TrimSpace(req.Antonyms),
	}

	if record.Definition == "" {
		if _, err := s.words.Resolve(req.Options); err != nil {
			if errors.Is(err, generation.ErrUnknownProvider) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, msgDefinitionNeeded)
		}

		generated, err := s.words.FetchWordData(ctx, word, req.Options)
		if err != nil {
			s.logger.WarnContext(ctx, "word generation failed",
				"word", word, "error", redact.Error(err))
			return nil, err
		}
		record.Merge(generated)
	}

	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return record, nil
}
