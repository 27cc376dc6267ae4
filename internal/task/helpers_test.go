package task

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/spelldeck-api/internal/artifact"
	"github.com/phrazzld/spelldeck-api/internal/domain"
	"github.com/phrazzld/spelldeck-api/internal/generation"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockTask implements the Task interface for testing
type mockTask struct {
	id     uuid.UUID
	jobID  string
	execFn func(ctx context.Context) error
}

func newMockTask(execFn func(ctx context.Context) error) *mockTask {
	return &mockTask{id: uuid.New(), execFn: execFn}
}

func (m *mockTask) ID() uuid.UUID      { return m.id }
func (m *mockTask) Type() string       { return "mock" }
func (m *mockTask) Payload() []byte    { return []byte("test payload") }
func (m *mockTask) Status() TaskStatus { return TaskStatusPending }
func (m *mockTask) JobID() string      { return m.jobID }

func (m *mockTask) Execute(ctx context.Context) error {
	if m.execFn != nil {
		return m.execFn(ctx)
	}
	return nil
}

// fakeGenerator answers FetchWordData from a function.
type fakeGenerator struct {
	mu    sync.Mutex
	calls []string
	opts  []generation.Options
	fn    func(ctx context.Context, word string) (*domain.WordRecord, error)
}

func (g *fakeGenerator) FetchWordData(
	ctx context.Context,
	word string,
	opts generation.Options,
) (*domain.WordRecord, error) {
	g.mu.Lock()
	g.calls = append(g.calls, word)
	g.opts = append(g.opts, opts)
	g.mu.Unlock()
	return g.fn(ctx, word)
}

func (g *fakeGenerator) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

// dictionaryGenerator knows a fixed set of words and fails for the rest.
func dictionaryGenerator() *fakeGenerator {
	known := map[string]*domain.WordRecord{
		"Apple": {
			Definition: "A round fruit.",
			Sentence:   "I ate an apple.",
			Synonyms:   "fruit",
			Morphology: "Old English æppel",
		},
		"Banana": {
			Definition: "A long yellow fruit.",
			Sentence:   "The banana was ripe.",
			Antonyms:   "none",
			Etymology:  "Wolof banaana",
		},
		"?!*": {Definition: "Punctuation."},
	}
	return &fakeGenerator{fn: func(_ context.Context, word string) (*domain.WordRecord, error) {
		rec, ok := known[word]
		if !ok {
			return nil, generation.ErrInvalidResponse
		}
		out := *rec
		out.Word = word
		return &out, nil
	}}
}

// renderFunc adapts a function to the Renderer interface.
type renderFunc func(record *domain.WordRecord, destPath string) error

func (f renderFunc) Render(record *domain.WordRecord, destPath string) error {
	return f(record, destPath)
}

// stageCSV stages content as an uploaded CSV file.
func stageCSV(t *testing.T, content string) *artifact.Upload {
	t.Helper()
	up, err := artifact.StageUpload(t.TempDir(), "words.csv", strings.NewReader(content), 0)
	require.NoError(t, err)
	return up
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, filepath.Base(e.Name()))
	}
	return names
}
