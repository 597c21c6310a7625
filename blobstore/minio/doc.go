// Package minio provides a blobstore.BlobStore backed by the MinIO client.
//
// It works with MinIO and other S3-compatible services without the AWS SDK:
//
//	store, err := minio.Dial("localhost:9000", "minioadmin", "minioadmin", false, "graphs", "prod/")
//	g := vaultgraph.New("Graph A", vaultgraph.WithBlobStore(store))
package minio
