package fs

import (
	"errors"
	"os"
	"strings"
	"sync"
)

// ErrInjected is the default error returned by injected faults.
var ErrInjected = errors.New("injected fault")

// Fault defines a failure behavior for files matching a rule.
type Fault struct {
	FailAfterBytes int64 // -1 disables the per-file write limit
	FailOnSync     bool
	FailOnClose    bool
	FailOnRename   bool
	Err            error
}

func (f Fault) err() error {
	if f.Err != nil {
		return f.Err
	}
	return ErrInjected
}

// FaultyFS wraps a FileSystem and injects errors.
type FaultyFS struct {
	FS FileSystem

	mu          sync.Mutex
	rules       map[string]Fault // substring of file name -> fault
	written     int64
	globalLimit int64
}

// NewFaultyFS wraps fs (or Default if nil) without any faults armed.
func NewFaultyFS(fs FileSystem) *FaultyFS {
	if fs == nil {
		fs = Default
	}
	return &FaultyFS{
		FS:          fs,
		rules:       make(map[string]Fault),
		globalLimit: -1,
	}
}

// Written returns the total bytes written through this filesystem.
func (f *FaultyFS) Written() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.written
}

// SetLimit fails every write once limit bytes have been written in total.
func (f *FaultyFS) SetLimit(limit int64) {
	f.mu.Lock()
	f.globalLimit = limit
	f.mu.Unlock()
}

// AddRule arms fault for every file whose name contains pattern.
func (f *FaultyFS) AddRule(pattern string, fault Fault) {
	f.mu.Lock()
	f.rules[pattern] = fault
	f.mu.Unlock()
}

func (f *FaultyFS) match(name string) Fault {
	f.mu.Lock()
	defer f.mu.Unlock()
	fault := Fault{FailAfterBytes: -1}
	for pattern, rule := range f.rules {
		if strings.Contains(name, pattern) {
			fault = rule
		}
	}
	return fault
}

func (f *FaultyFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	file, err := f.FS.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: file, fs: f, fault: f.match(name)}, nil
}

func (f *FaultyFS) CreateTemp(dir, pattern string) (File, error) {
	file, err := f.FS.CreateTemp(dir, pattern)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: file, fs: f, fault: f.match(file.Name())}, nil
}

func (f *FaultyFS) Rename(oldpath, newpath string) error {
	if fault := f.match(newpath); fault.FailOnRename {
		return fault.err()
	}
	return f.FS.Rename(oldpath, newpath)
}

func (f *FaultyFS) Remove(name string) error                     { return f.FS.Remove(name) }
func (f *FaultyFS) Stat(name string) (os.FileInfo, error)        { return f.FS.Stat(name) }
func (f *FaultyFS) MkdirAll(path string, perm os.FileMode) error { return f.FS.MkdirAll(path, perm) }
func (f *FaultyFS) ReadDir(name string) ([]os.DirEntry, error)   { return f.FS.ReadDir(name) }

type faultyFile struct {
	File
	fs      *FaultyFS
	fault   Fault
	written int64
}

func (ff *faultyFile) Write(p []byte) (int, error) {
	if ff.fault.FailAfterBytes >= 0 && ff.written+int64(len(p)) > ff.fault.FailAfterBytes {
		return 0, ff.fault.err()
	}

	ff.fs.mu.Lock()
	exceeded := ff.fs.globalLimit >= 0 && ff.fs.written+int64(len(p)) > ff.fs.globalLimit
	if !exceeded {
		ff.fs.written += int64(len(p))
	}
	ff.fs.mu.Unlock()

	if exceeded {
		return 0, ff.fault.err()
	}

	n, err := ff.File.Write(p)
	ff.written += int64(n)
	return n, err
}

func (ff *faultyFile) Sync() error {
	if ff.fault.FailOnSync {
		return ff.fault.err()
	}
	return ff.File.Sync()
}

func (ff *faultyFile) Close() error {
	if ff.fault.FailOnClose {
		_ = ff.File.Close()
		return ff.fault.err()
	}
	return ff.File.Close()
}
