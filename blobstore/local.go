package blobstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hupe1980/vaultgraph/internal/fs"
	"github.com/hupe1980/vaultgraph/internal/mmap"
	"github.com/hupe1980/vaultgraph/resource"
)

// ErrInvalidName is returned for empty names or names escaping the store root.
var ErrInvalidName = errors.New("invalid blob name")

// LocalOption configures a LocalStore.
type LocalOption func(*LocalStore)

// WithFileSystem replaces the filesystem used for writes.
func WithFileSystem(fsys fs.FileSystem) LocalOption {
	return func(s *LocalStore) {
		s.fs = fsys
	}
}

// WithController throttles writes through the controller's IO limiter.
func WithController(rc *resource.Controller) LocalOption {
	return func(s *LocalStore) {
		s.rc = rc
	}
}

// LocalStore implements BlobStore using the local file system.
// Reads are memory-mapped. Writes go to a temporary file that is synced and
// renamed into place.
type LocalStore struct {
	root string
	fs   fs.FileSystem
	rc   *resource.Controller
}

// NewLocalStore creates a new LocalStore rooted at the given directory.
func NewLocalStore(root string, optFns ...LocalOption) *LocalStore {
	s := &LocalStore{root: root, fs: fs.Default}
	for _, fn := range optFns {
		fn(s)
	}
	return s
}

// Root returns the store's root directory.
func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) path(name string) (string, error) {
	if name == "" {
		return "", ErrInvalidName
	}
	clean := path.Clean("/" + filepath.ToSlash(name))[1:]
	if clean == "" || clean == "." {
		return "", ErrInvalidName
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

// Open opens a blob for reading.
func (s *LocalStore) Open(ctx context.Context, name string) (Blob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	m, err := mmap.Open(p)
	if err != nil {
		return nil, err
	}
	return &localBlob{m: m}, nil
}

// Put writes a blob atomically.
func (s *LocalStore) Put(ctx context.Context, name string, data []byte) (err error) {
	p, err := s.path(name)
	if err != nil {
		return err
	}

	dir := filepath.Dir(p)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	f, err := s.fs.CreateTemp(dir, "."+filepath.Base(p)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = s.fs.Remove(tmp)
		}
	}()

	var w io.Writer = f
	if s.rc != nil {
		w = resource.NewRateLimitedWriter(ctx, f, s.rc)
	}

	if _, err = w.Write(data); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return s.fs.Rename(tmp, p)
}

// Delete removes a blob.
func (s *LocalStore) Delete(_ context.Context, name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// List returns all blobs matching the prefix. Temporary files are skipped.
func (s *LocalStore) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	if err := s.walk(ctx, "", func(name string) {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func (s *LocalStore) walk(ctx context.Context, rel string, fn func(string)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entries, err := s.fs.ReadDir(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil {
		return err
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		name := path.Join(rel, e.Name())
		if e.IsDir() {
			if err := s.walk(ctx, name, fn); err != nil {
				return err
			}
			continue
		}
		fn(name)
	}
	return nil
}

type localBlob struct {
	m *mmap.File
}

func (b *localBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}
	return b.m.ReadAt(p, off)
}

func (b *localBlob) Close() error { return b.m.Close() }

func (b *localBlob) Size() int64 { return int64(b.m.Size()) }

func (b *localBlob) Bytes() []byte { return b.m.Bytes() }
