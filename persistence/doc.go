// Package persistence defines the on-disk framing of a vaultgraph snapshot.
//
// A .grphst file is a fixed 32-byte header followed by the payload:
//
//	offset size field
//	0      4    magic "GRPH"
//	4      2    format version
//	6      1    compression (0=none, 1=lz4, 2=zstd)
//	7      1    reserved
//	8      8    stored payload length (after compression)
//	16     8    raw payload length (before compression)
//	24     4    CRC32 (IEEE) of the stored payload
//	28     4    reserved
//
// All integers are little-endian. The payload itself is produced by package
// codec; this package neither knows nor cares about its contents.
//
// There is no cross-version compatibility: a file written with a different
// format version is rejected with ErrInvalidVersion.
package persistence
