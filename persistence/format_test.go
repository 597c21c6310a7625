package persistence

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("friend of;"), 500)

	for _, ct := range []CompressionType{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(ct.String(), func(t *testing.T) {
			data, err := Encode(payload, ct)
			require.NoError(t, err)

			h, err := ReadHeader(data)
			require.NoError(t, err)
			assert.Equal(t, ct, h.Compression)
			assert.Equal(t, uint64(len(payload)), h.RawLen)
			assert.Equal(t, uint64(len(data)-HeaderSize), h.StoredLen)

			got, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
}

func TestEncode_CompressionShrinksRepetitivePayload(t *testing.T) {
	payload := bytes.Repeat([]byte("abcdefgh"), 4096)

	lz, err := Encode(payload, CompressionLZ4)
	require.NoError(t, err)
	zs, err := Encode(payload, CompressionZSTD)
	require.NoError(t, err)

	assert.Less(t, len(lz), len(payload))
	assert.Less(t, len(zs), len(payload))
}

func TestEncodeDecode_EmptyPayload(t *testing.T) {
	for _, ct := range []CompressionType{CompressionNone, CompressionLZ4, CompressionZSTD} {
		data, err := Encode(nil, ct)
		require.NoError(t, err)
		got, err := Decode(data)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestDecode_Errors(t *testing.T) {
	good, err := Encode([]byte("payload"), CompressionNone)
	require.NoError(t, err)

	t.Run("truncated header", func(t *testing.T) {
		_, err := Decode(good[:10])
		assert.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("truncated body", func(t *testing.T) {
		_, err := Decode(good[:len(good)-1])
		assert.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("bad magic", func(t *testing.T) {
		bad := bytes.Clone(good)
		bad[0] = 'X'
		_, err := Decode(bad)
		assert.ErrorIs(t, err, ErrInvalidMagic)
	})

	t.Run("bad version", func(t *testing.T) {
		bad := bytes.Clone(good)
		bad[4] = 9
		_, err := Decode(bad)
		assert.ErrorIs(t, err, ErrInvalidVersion)
	})

	t.Run("corrupt body", func(t *testing.T) {
		bad := bytes.Clone(good)
		bad[len(bad)-1] ^= 0xff
		_, err := Decode(bad)
		assert.True(t, IsChecksumMismatch(err))
	})

	t.Run("oversized raw length", func(t *testing.T) {
		bad := bytes.Clone(good)
		binary.LittleEndian.PutUint64(bad[16:24], MaxRawLen+1)
		_, err := Decode(bad)
		assert.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("unknown compression", func(t *testing.T) {
		_, err := Encode([]byte("x"), CompressionType(7))
		assert.ErrorIs(t, err, ErrInvalidCompression)
	})
}

func TestParseCompression(t *testing.T) {
	for name, want := range map[string]CompressionType{"": CompressionNone, "none": CompressionNone, "LZ4": CompressionLZ4, " zstd ": CompressionZSTD} {
		got, err := ParseCompression(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseCompression("brotli")
	assert.ErrorIs(t, err, ErrInvalidCompression)
}
