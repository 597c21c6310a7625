package testutil

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/vaultgraph/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Zipf returns an index in [0,n) following a Zipfian distribution with exponent s.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	// Inverse transform over the harmonic weights.
	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1
		}
	}

	return n - 1
}

// Vertices creates n vertices labeled "v0".."v{n-1}", each with an "index"
// attribute and, for every third vertex, a "group" attribute.
func (r *RNG) Vertices(n int) []*model.Vertex {
	vs := make([]*model.Vertex, n)
	for i := range vs {
		v := model.NewVertex(fmt.Sprintf("v%d", i))
		v.SetAttr("index", i)
		if i%3 == 0 {
			v.SetAttr("group", r.Intn(4))
		}
		vs[i] = v
	}
	return vs
}

// Edges links random pairs of vertices. Relations are picked from relations
// with a Zipfian skew, so the first relation dominates. Endpoints are shared,
// not copied.
func (r *RNG) Edges(vertices []*model.Vertex, n int, relations []string) []*model.Edge {
	edges := make([]*model.Edge, n)
	for i := range edges {
		from := vertices[r.Intn(len(vertices))]
		to := vertices[r.Intn(len(vertices))]
		rel := relations[r.Zipf(len(relations), 1.2)]
		e := model.NewEdge(from, rel, to)
		e.SetAttr("weight", r.Intn(100))
		edges[i] = e
	}
	return edges
}

// FriendsOf returns the two-edge cycle A -[friend of]-> B -[friend of]-> A
// with both vertices shared between the edges.
func FriendsOf() []*model.Edge {
	a := model.NewVertex("A")
	b := model.NewVertex("B")
	return []*model.Edge{
		model.NewEdge(a, "friend of", b),
		model.NewEdge(b, "friend of", a),
	}
}
