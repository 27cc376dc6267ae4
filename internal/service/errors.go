package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in BatchServiceError
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrJobNotFound indicates that no job has the requested id.
	// API layer should map this to HTTP 404 Not Found.
	ErrJobNotFound = errors.New("job not found")

	// ErrArtifactNotFound indicates that the requested deck does not exist
	// or the request named a path outside the job's directory.
	// API layer should map this to HTTP 404 Not Found.
	ErrArtifactNotFound = errors.New("file not found")

	// ErrServerBusy indicates that the task queue is full.
	// API layer should map this to HTTP 503 Service Unavailable.
	ErrServerBusy = errors.New("server busy")

	// ErrInvalidRequest indicates input the service cannot act on.
	// API layer should map this to HTTP 400 Bad Request.
	ErrInvalidRequest = errors.New("invalid request")
)

// BatchServiceError wraps errors from the batch service with context.
type BatchServiceError struct {
	// Operation is the operation that failed (e.g., "submit_batch", "generate_word")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for BatchServiceError.
func (e *BatchServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("batch service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("batch service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *BatchServiceError) Unwrap() error {
	return e.Err
}

// NewBatchServiceError creates a new BatchServiceError.
// It returns known sentinel errors directly without wrapping.
func NewBatchServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	for _, sentinel := range []error{ErrJobNotFound, ErrArtifactNotFound, ErrServerBusy} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}

	return &BatchServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
