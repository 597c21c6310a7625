// Package model defines the graph types held by a vaultgraph store.
//
// # Types
//
//   - Attributes: a string-to-string bag with a stable identity
//   - Vertex: a labeled node owning one Attributes bag
//   - Edge: a labeled, directed relation between two vertices, owning one Attributes bag
//
// # Shared Vertices
//
// Vertices are never copied into edges. An edge holds a pointer to its endpoints, so
// the same *Vertex can be the endpoint of many edges and a mutation made through one
// edge is visible through all of them:
//
//	alice := model.NewVertex("Alice")
//	bob := model.NewVertex("Bob")
//	e1 := model.NewEdge(alice, "knows", bob)
//	e2 := bob.AddRelation("knows", alice)
//
//	e1.To().SetAttr("age", 42)
//	v, _ := e2.From().GetAttr("age") // "42"
//
// Attribute values are stored as their fmt.Sprint form. The original Go type of a
// value is not preserved.
//
// All types are safe for concurrent use.
package model
