package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/spelldeck-api/internal/api/shared"
	"github.com/phrazzld/spelldeck-api/internal/artifact"
	"github.com/phrazzld/spelldeck-api/internal/domain"
	"github.com/phrazzld/spelldeck-api/internal/generation"
	"github.com/phrazzld/spelldeck-api/internal/service"
	"github.com/phrazzld/spelldeck-api/internal/slides"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes so that
// internal error types never decide the response on their own.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrJobNotFound),
		errors.Is(err, service.ErrArtifactNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrServerBusy):
		return http.StatusServiceUnavailable

	case errors.Is(err, artifact.ErrUploadTooLarge):
		return http.StatusRequestEntityTooLarge

	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, generation.ErrUnknownProvider),
		errors.Is(err, generation.ErrMissingCredential),
		errors.Is(err, generation.ErrEmptyWord),
		errors.Is(err, domain.ErrEmptyWord),
		errors.Is(err, domain.ErrEmptyDefinition),
		errors.Is(err, slides.ErrEmptyDeck):
		return http.StatusBadRequest

	case errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrContentBlocked),
		errors.Is(err, generation.ErrTransientFailure),
		errors.Is(err, generation.ErrGenerationFailed):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err that never
// includes wrapped details such as paths, URLs or credentials.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, service.ErrJobNotFound):
		return "Job not found"
	case errors.Is(err, service.ErrArtifactNotFound):
		return "File not found"
	case errors.Is(err, service.ErrServerBusy):
		return "Server busy, please retry later"
	case errors.Is(err, artifact.ErrUploadTooLarge):
		return "File too large"

	case errors.Is(err, generation.ErrUnknownProvider):
		return "Unknown provider"
	case errors.Is(err, generation.ErrMissingCredential):
		return "API key is required for this provider"
	case errors.Is(err, generation.ErrEmptyWord),
		errors.Is(err, domain.ErrEmptyWord):
		return "Word is required"
	case errors.Is(err, domain.ErrEmptyDefinition):
		return "Definition is required"
	case errors.Is(err, service.ErrInvalidRequest):
		return invalidRequestMessage(err)

	case errors.Is(err, generation.ErrContentBlocked):
		return "The language model refused to answer for this word"
	case errors.Is(err, generation.ErrInvalidResponse):
		return "The language model returned an unusable response"
	case errors.Is(err, generation.ErrTransientFailure),
		errors.Is(err, generation.ErrGenerationFailed):
		return "The language model request failed"

	default:
		return "An unexpected error occurred"
	}
}

// invalidRequestMessage turns "invalid request: definition is required ..."
// into "Definition is required ...". The service builds these messages
// from constants, so they are safe to show.
func invalidRequestMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, service.ErrInvalidRequest.Error()+": "); i >= 0 {
		msg = msg[i+len(service.ErrInvalidRequest.Error())+2:]
	} else {
		return "Invalid request"
	}
	if msg == "" {
		return "Invalid request"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// HandleAPIError writes the status code and safe message for err and logs
// the redacted detail.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)

	var opts []shared.ResponseOption
	if status == http.StatusServiceUnavailable || status == http.StatusRequestEntityTooLarge {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err, opts...)
}

// SanitizeValidationError turns validator errors into a short message naming
// the first failing field, without struct names or internal tags.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
