package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations return an error that satisfies errors.Is(err, ErrNotFound).
// It maps to os.ErrNotExist.
var ErrNotFound = os.ErrNotExist

// ErrTooLarge is returned by ReadAll when a blob exceeds the caller's limit.
var ErrTooLarge = errors.New("blob too large")

// BlobStore reads and writes immutable snapshot blobs.
// Implementations must be safe for concurrent use.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Put writes a blob atomically, replacing any previous content.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the sorted names of all blobs with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a stored blob.
type Blob interface {
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	Close() error
	// Size returns the size of the blob in bytes.
	Size() int64
}

// Mappable is implemented by blobs that expose their content without copying.
type Mappable interface {
	// Bytes returns the underlying byte slice. It is valid until the blob is closed.
	Bytes() []byte
}

// ReadAll reads the complete content of a blob into a new slice.
func ReadAll(ctx context.Context, b Blob) ([]byte, error) {
	size := b.Size()
	if m, ok := b.(Mappable); ok {
		return append([]byte(nil), m.Bytes()...), nil
	}

	buf := make([]byte, size)
	if size == 0 {
		return buf, nil
	}

	n, err := b.ReadAt(ctx, buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if int64(n) != size {
		return nil, fmt.Errorf("short read: %d of %d bytes: %w", n, size, io.ErrUnexpectedEOF)
	}
	return buf, nil
}

// Get opens name, checks its size against limit and reads it fully.
// A limit <= 0 disables the check. On ErrTooLarge the blob size is returned.
func Get(ctx context.Context, s BlobStore, name string, limit int64) ([]byte, int64, error) {
	b, err := s.Open(ctx, name)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = b.Close() }()

	size := b.Size()
	if limit > 0 && size > limit {
		return nil, size, ErrTooLarge
	}

	data, err := ReadAll(ctx, b)
	if err != nil {
		return nil, size, err
	}
	return data, size, nil
}
