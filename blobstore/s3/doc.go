// Package s3 provides Amazon S3 implementations of blobstore.BlobStore.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket", "eu-central-1", s3.WithPrefix("graphs/"))
//	g := vaultgraph.New("Graph A", vaultgraph.WithBlobStore(store))
//
// [CommitStore] adds a DynamoDB commit log on top of [Store] for safe
// concurrent writers.
package s3
