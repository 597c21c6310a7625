// Package mmap provides read-only memory-mapped file access.
//
// The local blob store maps snapshot files instead of reading them into a
// heap buffer, so the only copy made during load is the decode itself.
//
//	m, err := mmap.Open("social.grphst")
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes() // valid until Close
//
// Unix uses mmap(2) via golang.org/x/sys/unix; Windows uses
// CreateFileMapping/MapViewOfFile.
package mmap
