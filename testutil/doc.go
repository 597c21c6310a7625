// Package testutil provides deterministic graph builders for tests and benchmarks.
//
//	rng := testutil.NewRNG(4711)
//	vs := rng.Vertices(100)
//	edges := rng.Edges(vs, 1000, []string{"knows", "likes", "follows"})
package testutil
