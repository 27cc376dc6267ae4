package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when word data cannot be produced for any general reason
	ErrGenerationFailed = errors.New("failed to generate word data")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during word generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrUnknownProvider is returned for a provider name outside the supported set
	ErrUnknownProvider = errors.New("unknown language model provider")

	// ErrMissingCredential is returned when a managed provider has no API key
	ErrMissingCredential = errors.New("API key is required for this provider")

	// ErrEmptyWord is returned when asked to generate data for a blank word
	ErrEmptyWord = errors.New("word cannot be empty")
)
