package persistence

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionType defines the compression algorithm applied to the payload.
type CompressionType uint8

const (
	// CompressionNone stores the payload as is.
	CompressionNone CompressionType = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 CompressionType = 1
	// CompressionZSTD uses zstd (better ratio).
	CompressionZSTD CompressionType = 2
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("CompressionType(%d)", c)
	}
}

// ParseCompression maps a name ("none", "lz4", "zstd") to a CompressionType.
func ParseCompression(name string) (CompressionType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return CompressionNone, fmt.Errorf("%w: %q", ErrInvalidCompression, name)
	}
}

// Synchronous zstd coders; pooled because they are expensive to create.
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault), zstd.WithEncoderConcurrency(1))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	return dec
}

func compress(data []byte, ct CompressionType) ([]byte, error) {
	switch ct {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		if len(data) == 0 {
			return data, nil
		}
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, dst, nil)
		if err != nil {
			return nil, err
		}
		if n == 0 || n >= len(data) {
			// Incompressible. Store the literal bytes; decompress detects
			// this by stored length == raw length.
			return data, nil
		}
		return dst[:n], nil
	case CompressionZSTD:
		enc := getZstdEncoder()
		defer zstdEncoderPool.Put(enc)
		return enc.EncodeAll(data, nil), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidCompression, ct)
	}
}

// MaxRawLen bounds the decompressed payload size announced by a header.
const MaxRawLen = 1 << 30

func decompress(data []byte, ct CompressionType, rawLen uint64) ([]byte, error) {
	if rawLen > MaxRawLen {
		return nil, fmt.Errorf("%w: raw length %d exceeds %d", ErrTruncated, rawLen, MaxRawLen)
	}
	switch ct {
	case CompressionNone:
		if uint64(len(data)) != rawLen {
			return nil, errors.New("payload size mismatch")
		}
		return data, nil
	case CompressionLZ4:
		if uint64(len(data)) == rawLen {
			return data, nil
		}
		out := make([]byte, rawLen)
		n, err := lz4.UncompressBlock(data, out)
		if err != nil {
			return nil, err
		}
		if uint64(n) != rawLen {
			return nil, errors.New("decompressed size mismatch")
		}
		return out, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)
		out, err := dec.DecodeAll(data, make([]byte, 0, rawLen))
		if err != nil {
			return nil, err
		}
		if uint64(len(out)) != rawLen {
			return nil, errors.New("decompressed size mismatch")
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidCompression, ct)
	}
}
