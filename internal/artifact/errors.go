package artifact

import "errors"

var (
	// ErrNotFound is returned when a requested artifact does not exist.
	ErrNotFound = errors.New("artifact not found")

	// ErrInvalidPath is returned when a job id or file name would resolve
	// outside the job's directory.
	ErrInvalidPath = errors.New("invalid artifact path")

	// ErrStorage wraps filesystem failures.
	ErrStorage = errors.New("artifact storage error")
)
