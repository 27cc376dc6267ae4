package domain

import (
	"time"
)

// JobStatus represents the lifecycle state of a batch job
type JobStatus string

// Possible job status values
const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// IsTerminal reports whether no further transitions are allowed from the status.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// IsValid reports whether s is one of the known job statuses.
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusProcessing, JobStatusCompleted, JobStatusFailed:
		return true
	default:
		return false
	}
}

// ItemStatus is the outcome of processing a single word.
type ItemStatus string

// Possible item outcomes
const (
	ItemStatusSuccess ItemStatus = "success"
	ItemStatusError   ItemStatus = "error"
)

// ItemResult is the recorded outcome for one word of a batch.
// Filename and DownloadURL are set only for successful items,
// ErrorMessage only for failed ones.
type ItemResult struct {
	Word         string     `json:"word"`
	Status       ItemStatus `json:"status"`
	Filename     string     `json:"filename,omitempty"`
	DownloadURL  string     `json:"download_url,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// Job is one batch submission and its accumulated progress.
//
// The items are serialized under "files" because that is the key the
// browser client reads.
type Job struct {
	ID             string       `json:"id"`
	Status         JobStatus    `json:"status"`
	CreatedAt      time.Time    `json:"created_at"`
	TotalItems     int          `json:"total_items"`
	ProcessedItems int          `json:"processed_items"`
	Items          []ItemResult `json:"files"`
	Errors         []string     `json:"errors"`
	Error          string       `json:"error,omitempty"`
}

// NewJob creates a Job in the processing state with no expected items yet.
func NewJob(id string) *Job {
	return &Job{
		ID:        id,
		Status:    JobStatusProcessing,
		CreatedAt: time.Now().UTC(),
		Items:     []ItemResult{},
		Errors:    []string{},
	}
}

// Clone returns a deep copy of the job so callers can read it
// without holding any lock.
func (j *Job) Clone() Job {
	c := *j
	c.Items = make([]ItemResult, len(j.Items))
	copy(c.Items, j.Items)
	c.Errors = make([]string, len(j.Errors))
	copy(c.Errors, j.Errors)
	return c
}

// SuccessCount returns the number of items that produced an artifact.
func (j *Job) SuccessCount() int {
	n := 0
	for _, item := range j.Items {
		if item.Status == ItemStatusSuccess {
			n++
		}
	}
	return n
}
