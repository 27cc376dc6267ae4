package slides

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/phrazzld/spelldeck-api/internal/domain"
)

// Renderer writes word decks to disk.
type Renderer struct{}

// NewRenderer returns a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render builds the deck for record and writes it to destPath. The file is
// written next to destPath under a temporary name and renamed into place, so
// a reader never sees a partial deck.
func (r *Renderer) Render(record *domain.WordRecord, destPath string) error {
	if record == nil {
		return fmt.Errorf("%w: nil record", ErrRenderFailed)
	}
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}

	dir := filepath.Dir(destPath)
	tmp, err := os.CreateTemp(dir, ".deck-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", ErrRenderFailed, err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmpName)
	}()

	bw := bufio.NewWriter(tmp)
	if err := WritePPTX(bw, BuildDeck(record)); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	if err := bw.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: flush: %w", ErrRenderFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", ErrRenderFailed, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("%w: chmod: %w", ErrRenderFailed, err)
	}
	if err := os.Rename(tmpName, destPath); err != nil {
		return fmt.Errorf("%w: rename: %w", ErrRenderFailed, err)
	}
	return nil
}
