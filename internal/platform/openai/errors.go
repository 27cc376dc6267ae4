package openai

import (
	"fmt"
	"net/http"

	"github.com/phrazzld/spelldeck-api/internal/generation"
)

// maxErrorBody bounds how much of an error response is kept in StatusError.
const maxErrorBody = 512

// StatusError is returned when the endpoint answers with a non-2xx status.
// Rate limiting and server errors unwrap to generation.ErrTransientFailure.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("chat completion failed with status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the request may succeed if sent again.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// Unwrap exposes the transient classification to errors.Is.
func (e *StatusError) Unwrap() error {
	if e.Retryable() {
		return generation.ErrTransientFailure
	}
	return nil
}
