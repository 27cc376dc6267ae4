package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store owns the output directory tree: one sub-directory per job.
type Store struct {
	root string
}

// NewStore creates the root directory if needed and returns a Store for it.
func NewStore(root string) (*Store, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("%w: empty root directory", ErrStorage)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve root: %w", ErrStorage, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create root: %w", ErrStorage, err)
	}
	return &Store{root: abs}, nil
}

// Root returns the absolute root directory.
func (s *Store) Root() string {
	return s.root
}

// EnsureJobDir creates the directory for jobID and returns its path.
func (s *Store) EnsureJobDir(jobID string) (string, error) {
	dir, err := s.jobDir(jobID)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create job directory: %w", ErrStorage, err)
	}
	return dir, nil
}

// Path resolves filename inside the directory of jobID and checks that it
// exists as a regular file.
func (s *Store) Path(jobID, filename string) (string, error) {
	dir, err := s.jobDir(jobID)
	if err != nil {
		return "", err
	}
	if filename == "" || filename == "." || filename == ".." ||
		filepath.Base(filename) != filename || strings.ContainsAny(filename, `/\`) {
		return "", fmt.Errorf("%w: file name %q", ErrInvalidPath, filename)
	}

	full := filepath.Join(dir, filename)
	rel, err := filepath.Rel(dir, full)
	if err != nil || rel != filename {
		return "", fmt.Errorf("%w: file name %q", ErrInvalidPath, filename)
	}

	info, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, filename)
		}
		return "", fmt.Errorf("%w: stat: %w", ErrStorage, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s", ErrNotFound, filename)
	}
	return full, nil
}

// jobDir validates jobID and returns the directory it maps to.
// Job ids are UUIDs, so anything else cannot name a job directory.
func (s *Store) jobDir(jobID string) (string, error) {
	id, err := uuid.Parse(jobID)
	if err != nil {
		return "", fmt.Errorf("%w: job id %q", ErrInvalidPath, jobID)
	}
	return filepath.Join(s.root, id.String()), nil
}
