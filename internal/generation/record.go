package generation

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/phrazzld/spelldeck-api/internal/domain"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed word_record.schema.json
var wordRecordSchema string

const schemaURL = "word_record.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(wordRecordSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// ParseRecord turns raw model output into a WordRecord. Markdown code fences
// and any chatter around the JSON object are stripped, the object is checked
// against the word record schema, and list fields given as JSON arrays are
// joined into comma-separated strings.
func ParseRecord(raw string) (*domain.WordRecord, error) {
	content := extractJSON(raw)
	if content == "" {
		return nil, fmt.Errorf("%w: empty response", ErrInvalidResponse)
	}

	var doc any
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("%w: response is not valid JSON: %v", ErrInvalidResponse, err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: json does not match schema: %v", ErrInvalidResponse, err)
	}

	fields, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidResponse)
	}

	record := &domain.WordRecord{
		Word:          text(fields["word"]),
		Definition:    text(fields["definition"]),
		Sentence:      text(fields["sentence"]),
		Synonyms:      text(fields["synonyms"]),
		Antonyms:      text(fields["antonyms"]),
		Morphology:    text(fields["morphology"]),
		Etymology:     text(fields["etymology"]),
		Pronunciation: text(fields["pronunciation"]),
		Phonemes:      text(fields["phonemes"]),
		Graphemes:     text(fields["graphemes"]),
	}
	record.Synonyms = strings.Join(domain.SplitList(record.Synonyms), ", ")
	record.Antonyms = strings.Join(domain.SplitList(record.Antonyms), ", ")

	return record, nil
}

// extractJSON removes markdown fences and trims anything outside the
// outermost JSON object.
func extractJSON(raw string) string {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

// text flattens a decoded JSON value into a trimmed string.
func text(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}
