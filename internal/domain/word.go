package domain

import (
	"strings"
)

// WordRecord is the structured linguistic data the language model returns
// for one word. Synonyms and antonyms are comma-separated lists.
type WordRecord struct {
	Word          string `json:"word"`
	Definition    string `json:"definition"`
	Sentence      string `json:"sentence"`
	Synonyms      string `json:"synonyms"`
	Antonyms      string `json:"antonyms"`
	Morphology    string `json:"morphology"`
	Etymology     string `json:"etymology,omitempty"`
	Pronunciation string `json:"pronunciation,omitempty"`
	Phonemes      string `json:"phonemes,omitempty"`
	Graphemes     string `json:"graphemes,omitempty"`
}

// Validate checks that the record is usable for rendering.
func (r *WordRecord) Validate() error {
	if strings.TrimSpace(r.Word) == "" {
		return ErrEmptyWord
	}
	if strings.TrimSpace(r.Definition) == "" {
		return ErrEmptyDefinition
	}
	return nil
}

// Origin returns the origin/morphology explanation, falling back to the
// etymology when the model only filled that field.
func (r *WordRecord) Origin() string {
	if s := strings.TrimSpace(r.Morphology); s != "" {
		return s
	}
	return strings.TrimSpace(r.Etymology)
}

// SynonymList splits the synonyms into trimmed, non-empty entries.
func (r *WordRecord) SynonymList() []string {
	return SplitList(r.Synonyms)
}

// AntonymList splits the antonyms into trimmed, non-empty entries.
func (r *WordRecord) AntonymList() []string {
	return SplitList(r.Antonyms)
}

// SplitList splits a comma-separated string into trimmed, non-empty parts.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Merge fills every empty field of r from other. Fields r already has win.
func (r *WordRecord) Merge(other *WordRecord) {
	if other == nil {
		return
	}
	fill := func(dst *string, src string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = src
		}
	}
	fill(&r.Definition, other.Definition)
	fill(&r.Sentence, other.Sentence)
	fill(&r.Synonyms, other.Synonyms)
	fill(&r.Antonyms, other.Antonyms)
	fill(&r.Morphology, other.Morphology)
	fill(&r.Etymology, other.Etymology)
	fill(&r.Pronunciation, other.Pronunciation)
	fill(&r.Phonemes, other.Phonemes)
	fill(&r.Graphemes, other.Graphemes)
}
