package ingest

import "errors"

var (
	// ErrMissingWordColumn is returned when the header row has no "Word" column.
	ErrMissingWordColumn = errors.New("input must contain a 'Word' column")

	// ErrNoWords is returned when the "Word" column holds no non-blank cells.
	ErrNoWords = errors.New("No words found in input file.") //nolint:staticcheck // surfaced verbatim to clients

	// ErrUnreadableInput wraps any failure to open or decode the input file.
	ErrUnreadableInput = errors.New("unreadable input file")
)
