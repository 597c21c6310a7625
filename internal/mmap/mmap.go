package mmap

import (
	"errors"
	"io"
	"os"
)

var (
	// ErrInvalidOffset is returned when the offset is invalid (e.g. negative).
	ErrInvalidOffset = errors.New("mmap: invalid offset")
	// ErrClosed is returned when reading from a closed mapping.
	ErrClosed = errors.New("mmap: closed")
)

// File represents a read-only memory-mapped file.
type File struct {
	data   []byte
	f      *os.File
	closed bool
}

// Open maps the file at path into memory as read-only.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	size := fi.Size()
	if size == 0 {
		return &File{f: f}, nil
	}

	if size < 0 {
		f.Close()
		return nil, errors.New("mmap: file size is negative")
	}

	data, err := mmap(f, int(size))
	if err != nil {
		f.Close()
		return nil, err
	}

	return &File{data: data, f: f}, nil
}

// Bytes returns the mapped contents. The slice is invalid after Close.
func (m *File) Bytes() []byte { return m.data }

// Size returns the mapped size in bytes.
func (m *File) Size() int { return len(m.data) }

// ReadAt implements io.ReaderAt on a memory-mapped file.
func (m *File) ReadAt(p []byte, off int64) (n int, err error) {
	if m.closed {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, ErrInvalidOffset
	}
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n = copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Close unmaps the memory and closes the underlying file. It is idempotent.
func (m *File) Close() error {
	if m == nil || m.closed {
		return nil
	}
	m.closed = true

	var err error
	if m.data != nil {
		err = munmap(m.data)
		m.data = nil
	}
	if m.f != nil {
		if closeErr := m.f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		m.f = nil
	}
	return err
}
