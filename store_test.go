package vaultgraph

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vaultgraph/model"
	"github.com/hupe1980/vaultgraph/testutil"
)

func newTestStore(t *testing.T, name string, optFns ...Option) *Store {
	t.Helper()
	optFns = append([]Option{
		WithBlobStore(nil),
		WithCriticalHandler(ReturnError),
		WithExitFunc(func(int) { t.Fatal("unexpected exit") }),
	}, optFns...)
	return New(name, optFns...)
}

func TestNew(t *testing.T) {
	g := newTestStore(t, "Graph A")

	assert.NotEmpty(t, g.ID())
	assert.Equal(t, "Graph A", g.Label())
	assert.Equal(t, []string{"Graph A"}, g.Vaults())
	assert.True(t, g.HasVault("Graph A"))
	assert.Zero(t, g.Len())

	edges, err := g.Edges()
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestInsert(t *testing.T) {
	ctx := context.Background()
	g := newTestStore(t, "g")

	require.NoError(t, g.AddEdges(ctx, testutil.FriendsOf()))

	g.Insert("other")
	assert.Equal(t, "other", g.Label())
	assert.Equal(t, []string{"g", "other"}, g.Vaults())
	require.NoError(t, g.AddEdge(ctx, model.NewEdge(model.NewVertex("x"), "rel", model.NewVertex("y"))))

	// Re-inserting resets that vault only and switches back.
	g.Insert("other")
	g.Insert("other")
	assert.Equal(t, []string{"g", "other"}, g.Vaults())

	edges, err := g.Edges()
	require.NoError(t, err)
	assert.Empty(t, edges)

	edges, err = g.Edges(InVault("g"))
	require.NoError(t, err)
	assert.Len(t, edges, 2)
	assert.Equal(t, 2, g.Len())
}

func TestEdges_ReturnsClones(t *testing.T) {
	ctx := context.Background()
	g := newTestStore(t, "g")
	e := model.NewEdge(model.NewVertex("A"), "rel", model.NewVertex("B"))
	require.NoError(t, g.AddEdge(ctx, e))

	// Mutating the caller's edge after AddEdge does not change the store.
	e.SetRelation("changed")
	e.SetAttr("k", "v")

	edges, err := g.Edges()
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "rel", edges[0].Relation())
	assert.False(t, edges[0].HasAttrKey("k"))

	// Vertices are shared, not copied.
	assert.Same(t, e.From(), edges[0].From())

	// Mutating a returned edge does not change the store either.
	edges[0].SetRelation("other")
	again, err := g.Edges()
	require.NoError(t, err)
	assert.Equal(t, "rel", again[0].Relation())
}

func TestEdges_MissingVault(t *testing.T) {
	g := newTestStore(t, "g")
	_, err := g.Edges(InVault("nope"))

	var notExists *ErrVaultNotExists
	require.ErrorAs(t, err, &notExists)
	assert.Equal(t, "nope", notExists.Name)
}

func TestAttrLenAndKeys(t *testing.T) {
	ctx := context.Background()
	g := newTestStore(t, "g")

	a := model.NewVertex("A")
	a.SetAttr("name", "alice")
	a.SetAttr("age", 30)
	b := model.NewVertex("B")
	b.SetAttr("name", "bob")

	e1 := model.NewEdge(a, "knows", b)
	e1.SetAttr("since", 2020)
	e2 := model.NewEdge(b, "knows", a)

	require.NoError(t, g.AddEdges(ctx, []*model.Edge{e1, e2}))

	// 1 edge attribute + 2 on A + 1 on B, shared vertices counted once.
	assert.Equal(t, 4, g.AttrLen())

	keys, err := g.AttrKeys()
	require.NoError(t, err)
	assert.Equal(t, []string{"age", "name", "since"}, keys)
}

func TestMem(t *testing.T) {
	ctx := context.Background()
	g := newTestStore(t, "g")
	empty := g.Mem()
	assert.Positive(t, empty)

	require.NoError(t, g.AddEdges(ctx, testutil.FriendsOf()))
	assert.Greater(t, g.Mem(), empty)
}

func TestSharedVertexMutation(t *testing.T) {
	ctx := context.Background()
	g := newTestStore(t, "g")
	require.NoError(t, g.AddEdges(ctx, testutil.FriendsOf()))

	edges, err := g.Edges()
	require.NoError(t, err)

	// A is the source of the first edge and the target of the second.
	edges[0].From().SetAttr("mood", "happy")

	v, err := edges[1].To().GetAttr("mood")
	require.NoError(t, err)
	assert.Equal(t, "happy", v)

	found, err := g.FindVertexByID(edges[0].From().ID())
	require.NoError(t, err)
	assert.True(t, found.AttrEquals("mood", "happy"))
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	g := newTestStore(t, "g")
	rng := testutil.NewRNG(4711)
	vs := rng.Vertices(20)

	var wg sync.WaitGroup
	for w := range 4 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for _, e := range rng.Edges(vs, 25, []string{"knows", "likes"}) {
				assert.NoError(t, g.AddEdge(ctx, e))
			}
		}()
		go func() {
			defer wg.Done()
			for range 25 {
				_, err := g.FindByRelation("knows")
				if err != nil && !errors.Is(err, ErrEdgeNotFound) {
					t.Errorf("worker %d: %v", w, err)
				}
				_ = g.Stats()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, g.Len())
}
