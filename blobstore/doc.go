// Package blobstore provides the storage abstraction for graph snapshots.
//
// A [BlobStore] holds immutable, named blobs. Writes replace a blob
// atomically; reads go through a [Blob] handle with context-aware ReadAt.
//
// # Built-in Implementations
//
//   - [LocalStore]: local filesystem, memory-mapped reads, temp-file + rename writes
//   - [MemoryStore]: in-process map, used in tests and for ephemeral stores
//   - s3.Store and s3.CommitStore: Amazon S3, optionally with DynamoDB commits
//   - minio.Store: MinIO and other S3-compatible services
package blobstore
