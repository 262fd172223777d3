package object

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNotFound is returned when the referenced object does not exist.
	ErrNotFound = errors.New("object not found")
	// ErrInvalidKey is returned for keys that are empty or escape the store root.
	ErrInvalidKey = errors.New("invalid storage key")
)

// Ref addresses one stored document. An empty Bucket selects the store's
// configured bucket.
type Ref struct {
	Bucket string
	Key    string
}

// ObjectStore opens stored documents for reading. Documents are never written.
type ObjectStore interface {
	Open(ctx context.Context, ref Ref) (io.ReadCloser, error)
}
