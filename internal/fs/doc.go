// Package fs abstracts the filesystem calls made by the local blob store so
// that persistence failures can be simulated in tests.
//
// Production code uses [Default]. Tests wrap it with [FaultyFS]:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".grphst", fs.Fault{FailAfterBytes: -1, FailOnSync: true})
package fs
