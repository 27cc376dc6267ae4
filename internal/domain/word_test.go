package domain

import (
	"reflect"
	"testing"
)

func TestWordRecordValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		record  WordRecord
		wantErr error
	}{
		{"valid", WordRecord{Word: "apple", Definition: "a fruit"}, nil},
		{"missing word", WordRecord{Word: "  ", Definition: "a fruit"}, ErrEmptyWord},
		{"missing definition", WordRecord{Word: "apple"}, ErrEmptyDefinition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.record.Validate(); err != tt.wantErr {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestWordRecordOrigin(t *testing.T) {
	t.Parallel()

	r := WordRecord{Etymology: "Old English æppel"}
	if got := r.Origin(); got != "Old English æppel" {
		t.Errorf("Expected etymology fallback, got %q", got)
	}

	r.Morphology = "ap + ple"
	if got := r.Origin(); got != "ap + ple" {
		t.Errorf("Expected morphology to win, got %q", got)
	}
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	got := SplitList(" happy, glad ,, joyful ,")
	want := []string{"happy", "glad", "joyful"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	if got := SplitList(""); len(got) != 0 {
		t.Errorf("Expected empty list, got %v", got)
	}
}

func TestWordRecordMerge(t *testing.T) {
	t.Parallel()

	r := WordRecord{Word: "apple", Definition: "user definition"}
	r.Merge(&WordRecord{Definition: "model definition", Sentence: "I ate an apple."})

	if r.Definition != "user definition" {
		t.Errorf("Expected caller definition to win, got %q", r.Definition)
	}
	if r.Sentence != "I ate an apple." {
		t.Errorf("Expected sentence to be filled, got %q", r.Sentence)
	}
}
