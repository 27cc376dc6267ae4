package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WordColumn is the header that identifies the column of words.
const WordColumn = "Word"

// IsSpreadsheet reports whether name carries an Excel workbook extension.
func IsSpreadsheet(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return true
	default:
		return false
	}
}

// ReadWords returns the non-blank cells of the "Word" column of the file
// at path, trimmed and in file order.
func ReadWords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableInput, err)
	}
	defer func() { _ = f.Close() }()

	if IsSpreadsheet(path) {
		return ReadXLSX(f)
	}
	return ReadCSV(f)
}

// wordsFromRows locates the word column in the first row and collects the
// words below it.
func wordsFromRows(rows [][]string) ([]string, error) {
	if len(rows) == 0 {
		return nil, ErrMissingWordColumn
	}

	col := -1
	for i, name := range rows[0] {
		if strings.TrimSpace(name) == WordColumn {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, ErrMissingWordColumn
	}

	words := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if col >= len(row) {
			continue
		}
		if w := strings.TrimSpace(row[col]); w != "" {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return nil, ErrNoWords
	}
	return words, nil
}
