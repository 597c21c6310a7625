package vaultgraph

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vaultgraph/model"
)

var (
	// ErrAttributeNotFound is returned when an attribute key is absent.
	ErrAttributeNotFound = model.ErrAttributeNotFound

	// ErrAttributesEmpty is returned when a lookup is given no keys or values to match.
	ErrAttributesEmpty = errors.New("attributes empty")

	// ErrVertexNotFound is returned when no vertex matches.
	ErrVertexNotFound = model.ErrVertexNotFound

	// ErrEdgeNotFound is returned when no edge matches.
	ErrEdgeNotFound = errors.New("edge not found")

	// ErrVaultEmpty is returned when a vault holds no edges.
	ErrVaultEmpty = errors.New("vault empty")

	// ErrDecode is returned when a snapshot cannot be decoded.
	ErrDecode = errors.New("decode failed")

	// ErrFileNotFound is returned when a snapshot does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrInvalidFilenamePath is returned when a store label or target directory
	// cannot be turned into a snapshot location.
	ErrInvalidFilenamePath = errors.New("invalid filename or path")

	// ErrUnknown wraps backend failures that fit no other kind.
	ErrUnknown = errors.New("unknown error")

	// ErrNilEdge is returned when a nil edge is passed to a mutation.
	ErrNilEdge = errors.New("nil edge")

	// ErrCriticalPressure is returned from a mutation when the store reached
	// critical memory pressure and the critical handler did not terminate the process.
	ErrCriticalPressure = errors.New("critical memory pressure")
)

// ErrVaultNotExists indicates that a named vault is not part of the store.
type ErrVaultNotExists struct {
	Name string
}

func (e *ErrVaultNotExists) Error() string {
	return fmt.Sprintf("vault %q does not exist", e.Name)
}

// ErrNoRelations indicates that no edge carries the requested relation.
// It matches ErrEdgeNotFound with errors.Is.
type ErrNoRelations struct {
	Label string
}

func (e *ErrNoRelations) Error() string {
	return fmt.Sprintf("no edges with relation %q", e.Label)
}

func (e *ErrNoRelations) Is(target error) bool { return target == ErrEdgeNotFound }

// ErrPersistenceSizeExceeded indicates that a snapshot is larger than the
// configured memory ceiling.
type ErrPersistenceSizeExceeded struct {
	Size  int64
	Limit int64
}

func (e *ErrPersistenceSizeExceeded) Error() string {
	return fmt.Sprintf("persistence file size %d exceeds limit %d", e.Size, e.Limit)
}
