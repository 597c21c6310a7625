package vaultgraph

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hupe1980/vaultgraph/blobstore"
	"github.com/hupe1980/vaultgraph/codec"
	"github.com/hupe1980/vaultgraph/persistence"
	"github.com/hupe1980/vaultgraph/resource"
)

// FileName returns the snapshot name for a store label: spaces become
// underscores and the .grphst extension is appended.
func FileName(label string) (string, error) {
	name := strings.ReplaceAll(label, " ", "_")
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\\x00") {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilenamePath, label)
	}
	return name + persistence.Extension, nil
}

// Encode serializes the whole store into a framed snapshot.
func (s *Store) Encode() ([]byte, error) {
	s.mu.RLock()
	payload, err := codec.Marshal(s.snapshotLocked())
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	return persistence.Encode(payload, s.opts.compression)
}

// Persist writes the whole store to {dir}/{FileName(Label())} and returns
// that location. An empty dir writes to the store's blob store instead.
// Only one persist runs at a time.
func (s *Store) Persist(ctx context.Context, dir string) (location string, err error) {
	start := time.Now()
	var size int
	defer func() {
		s.opts.logger.LogPersist(ctx, location, size, time.Since(start), err)
		s.opts.metricsCollector.RecordPersist(size, time.Since(start), err)
	}()

	name, err := FileName(s.Label())
	if err != nil {
		return "", err
	}

	bs := s.opts.blobStore
	location = name
	if dir != "" {
		if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
			return "", fmt.Errorf("%w: %s is not a directory", ErrInvalidFilenamePath, dir)
		}
		bs = blobstore.NewLocalStore(dir, blobstore.WithController(s.rc))
		location = filepath.Join(dir, name)
	} else if ls, ok := bs.(*blobstore.LocalStore); ok {
		location = filepath.Join(ls.Root(), name)
	}

	if err := s.rc.AcquirePersist(ctx); err != nil {
		return "", err
	}
	defer s.rc.ReleasePersist()

	data, err := s.Encode()
	if err != nil {
		return "", err
	}
	size = len(data)

	if err := bs.Put(ctx, name, data); err != nil {
		return "", fmt.Errorf("%w: persist %s: %w", ErrUnknown, location, err)
	}
	return location, nil
}

// Load reads a snapshot file written by Persist.
//
// Missing files fail with ErrFileNotFound. Files larger than the memory
// ceiling fail with *ErrPersistenceSizeExceeded before their content is read,
// as do snapshots whose uncompressed payload exceeds it.
// Corrupt content fails with an error wrapping ErrDecode.
func Load(ctx context.Context, path string, optFns ...Option) (*Store, error) {
	if path == "" {
		return nil, ErrInvalidFilenamePath
	}
	dir, file := filepath.Split(path)
	if file == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFilenamePath, path)
	}
	if dir == "" {
		dir = "."
	}
	return LoadBlob(ctx, blobstore.NewLocalStore(dir), file, optFns...)
}

// LoadBlob reads the snapshot name from bs. Errors are as for Load.
func LoadBlob(ctx context.Context, bs blobstore.BlobStore, name string, optFns ...Option) (s *Store, err error) {
	start := time.Now()
	opts := applyOptions(optFns)
	limit := resource.NewController(opts.resource).MemoryLimit()

	data, size, err := blobstore.Get(ctx, bs, name, limit)
	defer func() {
		opts.logger.LogLoad(ctx, name, size, err)
		opts.metricsCollector.RecordLoad(size, time.Since(start), err)
	}()

	switch {
	case err == nil:
	case errors.Is(err, blobstore.ErrNotFound):
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
	case errors.Is(err, blobstore.ErrTooLarge):
		return nil, &ErrPersistenceSizeExceeded{Size: size, Limit: limit}
	default:
		return nil, fmt.Errorf("%w: load %s: %w", ErrUnknown, name, err)
	}

	// The stored body may be compressed; the raw length is what Mem reports once loaded.
	if h, herr := persistence.ReadHeader(data); herr == nil && h.RawLen > uint64(limit) {
		return nil, &ErrPersistenceSizeExceeded{Size: int64(min(h.RawLen, math.MaxInt64)), Limit: limit}
	}

	return Decode(data, optFns...)
}

// Decode rebuilds a store from a framed snapshot produced by Encode.
// Vertices shared between edges are shared again in the result.
func Decode(data []byte, optFns ...Option) (*Store, error) {
	payload, err := persistence.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	snap, err := codec.Unmarshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if _, ok := snap.Vaults[snap.Current]; !ok {
		return nil, fmt.Errorf("%w: current vault %q missing", ErrDecode, snap.Current)
	}

	s := newStore(snap.ID, snap.Current, optFns)
	for name, edges := range snap.Vaults {
		s.vaults[name] = edges
	}
	return s, nil
}

// Equal reports whether both stores have the same id, current vault and
// vaults with structurally equal edges in the same order.
func (s *Store) Equal(other *Store) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil || s.id != other.id {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	other.mu.RLock()
	defer other.mu.RUnlock()

	if s.current != other.current || len(s.vaults) != len(other.vaults) {
		return false
	}
	for name, edges := range s.vaults {
		oedges, ok := other.vaults[name]
		if !ok || len(edges) != len(oedges) {
			return false
		}
		for i := range edges {
			if !edges[i].Equal(oedges[i]) {
				return false
			}
		}
	}
	return true
}
