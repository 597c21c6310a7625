// Package vaultgraph provides an embeddable, in-memory labeled multigraph
// store organised in named vaults.
//
// A [Store] maps vault names to ordered sequences of directed edges. Each
// edge connects two vertices; vertices are shared by pointer, so a vertex
// linked from several edges is one object and attribute changes made through
// any edge are visible through all of them.
//
// # Quick Start
//
//	ctx := context.Background()
//	g := vaultgraph.New("Graph A")
//
//	alice := model.NewVertex("Alice")
//	bob := model.NewVertex("Bob")
//	_ = g.AddEdge(ctx, model.NewEdge(alice, "friend of", bob))
//	_ = g.AddEdge(ctx, bob.AddRelation("friend of", alice))
//
//	g.UniqRelations()                            // [friend of]
//	g.FindVerticesWithRelationIn("friend of")    // [Bob Alice]
//
// # Vaults
//
// [New] creates the first vault and makes it current. [Store.Insert] adds
// (or resets) a vault and switches to it. Every call accepts [InVault] to
// address another vault. Mutations on a missing vault fail with
// [ErrVaultNotExists]; vaults are never created implicitly.
//
// # Memory Watcher
//
// After each add or update the store measures its serialized size against
// the memory ceiling (25 MiB by default, see [WithMemoryLimit]). At 95% a
// warning is logged. At 99% the [CriticalHandler] runs; the default,
// [PersistAndAbort], writes a snapshot and exits the process. Embedders can
// install [ReturnError] or their own handler with [WithCriticalHandler].
//
// # Persistence
//
// [Store.Persist] writes the whole store to {dir}/{label}.grphst, with
// spaces in the label replaced by underscores. [Load] and [LoadBlob] read it
// back; snapshots larger than the ceiling are rejected before decoding.
// Snapshots can live on the local filesystem or any blobstore.BlobStore
// (S3, S3 with DynamoDB commits, MinIO).
//
// # Errors
//
// Lookups that find nothing fail instead of returning empty results, so
// callers can tell a missing vault ([ErrVaultNotExists]) from a missing
// entity ([ErrEdgeNotFound], [ErrVertexNotFound], [ErrNoRelations]).
package vaultgraph
