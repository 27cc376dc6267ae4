package artifact

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUploadTooLarge is returned when a staged upload exceeds its size limit.
var ErrUploadTooLarge = errors.New("upload too large")

const uploadDirPrefix = "spelldeck-upload-"

// Upload is an input file staged in its own temporary directory.
// It travels inside batch request events, hence the JSON tags.
type Upload struct {
	Path string `json:"path"`
	Dir  string `json:"dir"`
}

// StageUpload copies src into a fresh directory under tempDir (the OS default
// when empty). Only the extension of originalName is kept, so the staged
// name carries no user-controlled path components. A maxBytes of zero
// disables the size check.
func StageUpload(tempDir, originalName string, src io.Reader, maxBytes int64) (*Upload, error) {
	dir, err := os.MkdirTemp(tempDir, uploadDirPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("%w: create upload directory: %w", ErrStorage, err)
	}
	up := &Upload{Dir: dir, Path: filepath.Join(dir, "input"+uploadExt(originalName))}

	if err := up.write(src, maxBytes); err != nil {
		up.Remove()
		return nil, err
	}
	return up, nil
}

func (u *Upload) write(src io.Reader, maxBytes int64) error {
	f, err := os.OpenFile(u.Path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("%w: create upload file: %w", ErrStorage, err)
	}

	r := src
	if maxBytes > 0 {
		r = io.LimitReader(src, maxBytes+1)
	}
	n, err := io.Copy(f, r)
	closeErr := f.Close()
	if err != nil {
		return fmt.Errorf("%w: write upload: %w", ErrStorage, err)
	}
	if closeErr != nil {
		return fmt.Errorf("%w: close upload: %w", ErrStorage, closeErr)
	}
	if maxBytes > 0 && n > maxBytes {
		return fmt.Errorf("%w: more than %d bytes", ErrUploadTooLarge, maxBytes)
	}
	return nil
}

// Remove deletes the staged file and its directory. Safe to call more than
// once. Directories that StageUpload could not have created are left alone.
func (u *Upload) Remove() {
	if u == nil || u.Dir == "" {
		return
	}
	if !strings.HasPrefix(filepath.Base(u.Dir), uploadDirPrefix) ||
		filepath.Dir(filepath.Clean(u.Path)) != filepath.Clean(u.Dir) {
		return
	}
	_ = os.RemoveAll(u.Dir)
}

func uploadExt(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	for _, r := range ext[min(1, len(ext)):] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
