package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"resume-reviewer/internal/shared/storage/object"
)

// Store implements ObjectStore using the local filesystem. Ref.Bucket, when
// set, names a subdirectory of the base directory.
type Store struct {
	baseDir string
}

// New creates a new local object store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, ref object.Ref) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean, err := cleanKey(filepath.Join(ref.Bucket, ref.Key))
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.baseDir, clean))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", clean, object.ErrNotFound)
		}
		return nil, err
	}
	return f, nil
}

func cleanKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", object.ErrInvalidKey
	}
	clean := filepath.Clean(key)
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", object.ErrInvalidKey
	}
	return clean, nil
}

var _ object.ObjectStore = (*Store)(nil)
