package persistence

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// MagicNumber identifies snapshot files (ASCII: "GRPH").
	MagicNumber = 0x48505247
	// Version is the current file format version.
	Version = 1

	// HeaderSize is the encoded size of FileHeader.
	HeaderSize = 32

	// Extension is the file extension of snapshot files.
	Extension = ".grphst"
)

var (
	ErrInvalidMagic       = errors.New("invalid magic number")
	ErrInvalidVersion     = errors.New("unsupported version")
	ErrTruncated          = errors.New("truncated snapshot")
	ErrInvalidCompression = errors.New("invalid compression type")
)

// FileHeader is the 32-byte header at the start of every snapshot file.
type FileHeader struct {
	Magic       uint32
	Version     uint16
	Compression CompressionType
	Reserved1   uint8
	StoredLen   uint64
	RawLen      uint64
	Checksum    uint32
	Reserved2   uint32
}

// Encode frames payload with a header, compressing it with ct.
func Encode(payload []byte, ct CompressionType) ([]byte, error) {
	stored, err := compress(payload, ct)
	if err != nil {
		return nil, err
	}

	h := FileHeader{
		Magic:       MagicNumber,
		Version:     Version,
		Compression: ct,
		StoredLen:   uint64(len(stored)),
		RawLen:      uint64(len(payload)),
		Checksum:    CalculateChecksum(stored),
	}

	var buf bytes.Buffer
	buf.Grow(HeaderSize + len(stored))
	if err := binary.Write(&buf, binary.LittleEndian, &h); err != nil {
		return nil, err
	}
	buf.Write(stored)
	return buf.Bytes(), nil
}

// Decode validates the header and checksum of data and returns the
// decompressed payload.
func Decode(data []byte) ([]byte, error) {
	h, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}

	body := data[HeaderSize:]
	if uint64(len(body)) != h.StoredLen {
		return nil, fmt.Errorf("%w: header says %d bytes, got %d", ErrTruncated, h.StoredLen, len(body))
	}
	if sum := CalculateChecksum(body); sum != h.Checksum {
		return nil, &ChecksumMismatchError{Expected: h.Checksum, Actual: sum}
	}

	return decompress(body, h.Compression, h.RawLen)
}

// ReadHeader decodes and validates the header at the start of data.
func ReadHeader(data []byte) (*FileHeader, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}

	var h FileHeader
	if err := binary.Read(bytes.NewReader(data[:HeaderSize]), binary.LittleEndian, &h); err != nil {
		return nil, err
	}
	if h.Magic != MagicNumber {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, h.Magic)
	}
	if h.Version != Version {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidVersion, h.Version)
	}
	return &h, nil
}
