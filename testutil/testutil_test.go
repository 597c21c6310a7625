package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZipf(t *testing.T) {
	rng := NewRNG(4711)

	counts := make([]int, 5)
	for range 2000 {
		counts[rng.Zipf(5, 1.5)]++
	}

	assert.Greater(t, counts[0], counts[4])
	assert.Equal(t, 0, rng.Zipf(1, 1.5))
}

func TestReset(t *testing.T) {
	rng := NewRNG(42)
	first := []int{rng.Intn(1000), rng.Intn(1000), rng.Intn(1000)}
	rng.Reset()
	second := []int{rng.Intn(1000), rng.Intn(1000), rng.Intn(1000)}

	assert.Equal(t, first, second)
	assert.Equal(t, int64(42), rng.Seed())
}

func TestVerticesAndEdges(t *testing.T) {
	rng := NewRNG(4711)

	vs := rng.Vertices(10)
	require.Len(t, vs, 10)
	assert.Equal(t, "v3", vs[3].Label())
	assert.True(t, vs[3].HasAttrKey("group"))
	assert.False(t, vs[4].HasAttrKey("group"))

	edges := rng.Edges(vs, 50, []string{"knows", "likes"})
	require.Len(t, edges, 50)
	for _, e := range edges {
		assert.Contains(t, []string{"knows", "likes"}, e.Relation())
		assert.Contains(t, vs, e.From())
		assert.Contains(t, vs, e.To())
		assert.True(t, e.HasAttrKey("weight"))
	}
}

func TestFriendsOf(t *testing.T) {
	edges := FriendsOf()
	require.Len(t, edges, 2)
	assert.Same(t, edges[0].From(), edges[1].To())
	assert.Same(t, edges[0].To(), edges[1].From())
}
