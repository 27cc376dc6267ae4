package task

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/phrazzld/spelldeck-api/internal/domain"
	"github.com/phrazzld/spelldeck-api/internal/generation"
	"github.com/phrazzld/spelldeck-api/internal/redact"
	"github.com/phrazzld/spelldeck-api/internal/slides"
)

// MsgNoSafeCharacters is the outcome error for words that cannot name a file.
const MsgNoSafeCharacters = "word has no filename-safe characters"

// Renderer writes the deck for a record to destPath.
type Renderer interface {
	Render(record *domain.WordRecord, destPath string) error
}

// ItemOutcome is the result of processing one word. Error is empty on
// success, in which case Filename names the rendered deck.
type ItemOutcome struct {
	Word     string
	Filename string
	Error    string
}

// ItemProcessor turns one word into a deck on disk.
type ItemProcessor struct {
	generator generation.Generator
	renderer  Renderer
	options   generation.Options
	logger    *slog.Logger
}

// NewItemProcessor creates an ItemProcessor that queries the model with opts.
func NewItemProcessor(
	generator generation.Generator,
	renderer Renderer,
	opts generation.Options,
	logger *slog.Logger,
) *ItemProcessor {
	return &ItemProcessor{
		generator: generator,
		renderer:  renderer,
		options:   opts,
		logger:    logger,
	}
}

// Process fetches the data for word and renders it into jobDir. It never
// returns an error; failures are reported in the outcome.
func (p *ItemProcessor) Process(ctx context.Context, word, jobDir string) ItemOutcome {
	out := ItemOutcome{Word: word}
	log := p.logger.With("word", word)

	record, err := p.generator.FetchWordData(ctx, word, p.options)
	if err != nil {
		out.Error = redact.Error(err)
		log.WarnContext(ctx, "word data unavailable", "error", out.Error)
		return out
	}

	filename := slides.FileName(word)
	if filename == "" {
		out.Error = MsgNoSafeCharacters
		log.WarnContext(ctx, "word has no filename-safe characters")
		return out
	}

	if err := p.renderer.Render(record, filepath.Join(jobDir, filename)); err != nil {
		out.Error = redact.Error(err)
		log.ErrorContext(ctx, "rendering deck failed", "error", out.Error)
		return out
	}

	out.Filename = filename
	log.DebugContext(ctx, "deck rendered", "filename", filename)
	return out
}
