package domain

import "errors"

// Errors returned when a word record is not usable.
var (
	// ErrEmptyWord is returned when a word is empty after trimming.
	ErrEmptyWord = errors.New("word cannot be empty")

	// ErrEmptyDefinition is returned when a word record carries no definition.
	ErrEmptyDefinition = errors.New("word definition cannot be empty")
)
