package slides

import "errors"

var (
	// ErrEmptyDeck is returned when a deck with no slides is written.
	ErrEmptyDeck = errors.New("empty deck")

	// ErrRenderFailed wraps I/O failures while writing a deck to disk.
	ErrRenderFailed = errors.New("render failed")
)
