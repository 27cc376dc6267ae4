package jobs

import (
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/spelldeck-api/internal/domain"
)

// DownloadPathPrefix is the URL prefix under which generated artifacts are served.
const DownloadPathPrefix = "/api/download"

// entry pairs a job with the lock that serializes its mutations.
type entry struct {
	mu  sync.Mutex
	job *domain.Job
}

// Manager is an in-memory, concurrency-safe registry of batch jobs.
// It is created once at process start and injected into every collaborator
// that needs to read or advance a job.
type Manager struct {
	mu     sync.RWMutex
	jobs   map[string]*entry
	logger *slog.Logger
	newID  func() string
}

// NewManager creates an empty job registry.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		jobs:   make(map[string]*entry),
		logger: logger.With(slog.String("component", "job_manager")),
		newID:  func() string { return uuid.NewString() },
	}
}

// Create allocates a new job in the processing state and returns its id.
func (m *Manager) Create() string {
	id := m.newID()
	e := &entry{job: domain.NewJob(id)}

	m.mu.Lock()
	m.jobs[id] = e
	m.mu.Unlock()

	m.logger.Debug("job created", slog.String("job_id", id))
	return id
}

// lookup returns the entry for id, or nil when the id is unknown.
func (m *Manager) lookup(id string) *entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.jobs[id]
}

// SetTotalItems records how many outcomes the job expects and re-evaluates
// completion. Negative counts are treated as zero, and a count below the
// number of outcomes already recorded is raised to that number so that
// processed never exceeds total. Unknown or terminal jobs are left untouched.
func (m *Manager) SetTotalItems(id string, n int) {
	e := m.lookup(id)
	if e == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	job := e.job
	if job.Status.IsTerminal() {
		return
	}
	if n < 0 {
		n = 0
	}
	if n < job.ProcessedItems {
		n = job.ProcessedItems
	}
	job.TotalItems = n
	m.evaluateCompletion(job)
}

// RecordOutcome appends the result for one word and advances the job's
// progress. A non-empty errMsg makes the outcome an error regardless of
// filename. Unknown or terminal jobs are left untouched.
func (m *Manager) RecordOutcome(id, word, filename, errMsg string) {
	e := m.lookup(id)
	if e == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	job := e.job
	if job.Status.IsTerminal() {
		return
	}

	item := domain.ItemResult{Word: word}
	if errMsg != "" {
		item.Status = domain.ItemStatusError
		item.ErrorMessage = errMsg
		job.Errors = append(job.Errors, errMsg)
	} else {
		item.Status = domain.ItemStatusSuccess
		item.Filename = filename
		item.DownloadURL = DownloadURL(id, filename)
	}

	job.Items = append(job.Items, item)
	job.ProcessedItems++
	m.evaluateCompletion(job)
}

// Fail marks the job as failed with message as the top-level reason.
// A completed job stays completed and a failed job keeps its first reason.
func (m *Manager) Fail(id, message string) {
	e := m.lookup(id)
	if e == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	job := e.job
	if job.Status.IsTerminal() {
		m.logger.Debug("ignoring failure for terminal job",
			slog.String("job_id", id),
			slog.String("status", string(job.Status)),
			slog.String("reason", message))
		return
	}

	job.Status = domain.JobStatusFailed
	job.Error = message
	m.logger.Info("job failed",
		slog.String("job_id", id),
		slog.Int("processed_items", job.ProcessedItems),
		slog.String("reason", message))
}

// Get returns a snapshot of the job. The snapshot shares no memory with the
// registry, so callers may keep or encode it freely.
func (m *Manager) Get(id string) (domain.Job, bool) {
	e := m.lookup(id)
	if e == nil {
		return domain.Job{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.job.Clone(), true
}

// Len returns the number of registered jobs.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.jobs)
}

// evaluateCompletion must be called with the job's lock held.
func (m *Manager) evaluateCompletion(job *domain.Job) {
	if job.Status != domain.JobStatusProcessing {
		return
	}
	if job.TotalItems > 0 && job.ProcessedItems >= job.TotalItems {
		job.Status = domain.JobStatusCompleted
		m.logger.Info("job completed",
			slog.String("job_id", job.ID),
			slog.Int("total_items", job.TotalItems),
			slog.Int("succeeded", job.SuccessCount()),
			slog.Int("failed", len(job.Errors)))
	}
}

// DownloadURL builds the download locator for an artifact of a job.
func DownloadURL(jobID, filename string) string {
	return fmt.Sprintf("%s/%s/%s", DownloadPathPrefix, url.PathEscape(jobID), url.PathEscape(filename))
}
