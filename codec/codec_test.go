package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinylib/msgp/msgp"

	"github.com/hupe1980/vaultgraph/model"
)

func sampleSnapshot() *Snapshot {
	a := model.NewVertex("A")
	b := model.NewVertex("B")
	c := model.NewVertex("C")
	a.SetAttr("age", 30)
	b.SetAttr("city", "Berlin")

	e1 := model.NewEdge(a, "friend of", b)
	e1.SetAttr("since", 2020)
	e2 := model.NewEdge(b, "friend of", a)
	e3 := model.NewEdge(c, "works with", a)

	return &Snapshot{
		ID:      "store-1",
		Current: "social",
		Vaults: map[string][]*model.Edge{
			"social": {e1, e2},
			"work":   {e3},
			"empty":  {},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	s := sampleSnapshot()

	data, err := Marshal(s)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)

	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, s.Current, got.Current)
	require.Len(t, got.Vaults, 3)
	assert.Empty(t, got.Vaults["empty"])

	for name, edges := range s.Vaults {
		require.Len(t, got.Vaults[name], len(edges), name)
		for i, e := range edges {
			assert.True(t, e.Equal(got.Vaults[name][i]), "%s[%d]", name, i)
		}
	}
}

func TestRoundTrip_RestoresVertexSharing(t *testing.T) {
	got, err := Unmarshal(mustMarshal(t, sampleSnapshot()))
	require.NoError(t, err)

	social := got.Vaults["social"]
	work := got.Vaults["work"]

	// A appears in three edges across two vaults; all must be one object.
	assert.Same(t, social[0].From(), social[1].To())
	assert.Same(t, social[0].From(), work[0].To())

	social[1].To().SetAttr("age", 31)
	v, err := work[0].To().GetAttr("age")
	require.NoError(t, err)
	assert.Equal(t, "31", v)
}

func TestMarshal_Deterministic(t *testing.T) {
	s := sampleSnapshot()
	assert.Equal(t, mustMarshal(t, s), mustMarshal(t, s))
}

func TestAppend_ReusesBuffer(t *testing.T) {
	s := sampleSnapshot()
	buf := make([]byte, 0, 4096)
	out, err := Append(buf[:0], s)
	require.NoError(t, err)
	assert.Equal(t, mustMarshal(t, s), out)
}

func TestUnmarshal_Corrupt(t *testing.T) {
	data := mustMarshal(t, sampleSnapshot())

	tests := map[string][]byte{
		"empty":     nil,
		"truncated": data[:len(data)/2],
		"trailing":  append(append([]byte{}, data...), 0xc0),
		"garbage":   []byte("not msgpack at all"),
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Unmarshal(in)
			assert.Error(t, err)
		})
	}
}

func TestRoundTrip_SelfLoop(t *testing.T) {
	v := model.NewVertex("only")
	e := model.NewEdge(v, "self", v)
	data := mustMarshal(t, &Snapshot{ID: "x", Current: "g", Vaults: map[string][]*model.Edge{"g": {e}}})

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Same(t, got.Vaults["g"][0].From(), got.Vaults["g"][0].To())
}

func TestUnmarshal_InvalidVertexRef(t *testing.T) {
	o := msgp.AppendArrayHeader(nil, 4)
	o = msgp.AppendString(o, "id")
	o = msgp.AppendString(o, "g")
	o = msgp.AppendArrayHeader(o, 0) // no vertices
	o = msgp.AppendMapHeader(o, 1)
	o = msgp.AppendString(o, "g")
	o = msgp.AppendArrayHeader(o, 1)
	o = msgp.AppendArrayHeader(o, 6)
	o = msgp.AppendString(o, "e1")
	o = msgp.AppendString(o, "r")
	o = msgp.AppendUint32(o, 0)
	o = msgp.AppendUint32(o, 0)
	o = msgp.AppendString(o, "attrs")
	o = msgp.AppendMapHeader(o, 0)

	_, err := Unmarshal(o)
	assert.ErrorIs(t, err, ErrInvalidVertexRef)
}

func mustMarshal(t *testing.T, s *Snapshot) []byte {
	t.Helper()
	data, err := Marshal(s)
	require.NoError(t, err)
	return data
}

func TestUnmarshal_OversizedHeaders(t *testing.T) {
	prefix := func() []byte {
		o := msgp.AppendArrayHeader(nil, 4)
		o = msgp.AppendString(o, "i")
		return msgp.AppendString(o, "g")
	}

	vertices := msgp.AppendArrayHeader(prefix(), 0xFFFFFFFF)

	vaults := msgp.AppendArrayHeader(prefix(), 0)
	vaults = msgp.AppendMapHeader(vaults, 0xFFFFFFFF)

	attrs := msgp.AppendArrayHeader(prefix(), 1)
	attrs = msgp.AppendArrayHeader(attrs, 4)
	attrs = msgp.AppendString(attrs, "v")
	attrs = msgp.AppendString(attrs, "label")
	attrs = msgp.AppendString(attrs, "attrs")
	attrs = msgp.AppendMapHeader(attrs, 0xFFFFFFFF)

	edges := msgp.AppendArrayHeader(prefix(), 0)
	edges = msgp.AppendMapHeader(edges, 1)
	edges = msgp.AppendString(edges, "g")
	edges = msgp.AppendArrayHeader(edges, 0xFFFFFFFF)

	tests := map[string][]byte{
		"vertex array":  vertices,
		"vault map":     vaults,
		"attribute map": attrs,
		"edge array":    edges,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Unmarshal(in)
			assert.Error(t, err)
		})
	}
}

func TestSizeHint(t *testing.T) {
	assert.Equal(t, 3, sizeHint(0xFFFFFFFF, []byte{1, 2, 3}))
	assert.Equal(t, 2, sizeHint(2, []byte{1, 2, 3}))
	assert.Equal(t, 0, sizeHint(5, nil))
}
