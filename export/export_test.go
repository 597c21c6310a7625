package export

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vaultgraph"
	"github.com/hupe1980/vaultgraph/model"
	"github.com/hupe1980/vaultgraph/testutil"
)

func sampleStore(t *testing.T) *vaultgraph.Store {
	t.Helper()
	ctx := context.Background()

	g := vaultgraph.New("people", vaultgraph.WithCriticalHandler(vaultgraph.ReturnError))

	alice := model.NewVertex("Alice")
	alice.SetAttr("age", 31)
	alice.SetAttr("motto", "a|b=c\\d")
	bob := model.NewVertex("Bob; Jr.")
	knows := model.NewEdge(alice, "knows", bob)
	knows.SetAttr("since", 2020)

	require.NoError(t, g.AddEdges(ctx, []*model.Edge{knows, model.NewEdge(bob, "knows", alice)}))

	g.Insert("archive")
	require.NoError(t, g.AddEdge(ctx, model.NewEdge(bob, "owes \"money\"", model.NewVertex("Carol"))))
	return g
}

func TestCSV_RoundTrip(t *testing.T) {
	ctx := context.Background()
	g := sampleStore(t)

	for _, delim := range []rune{DefaultDelimiter, ',', '\t'} {
		t.Run(string(delim), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteCSV(&buf, g, WithDelimiter(delim)))

			loaded, err := ReadCSV(ctx, &buf, "people", WithDelimiter(delim))
			require.NoError(t, err)

			assert.Equal(t, "people", loaded.Label())
			assert.Equal(t, g.Vaults(), loaded.Vaults())
			assert.Equal(t, g.UniqRelations(), loaded.UniqRelations())
			assert.Equal(t, g.Stats().Vertices, loaded.Stats().Vertices)
			assert.Equal(t, g.AttrLen(), loaded.AttrLen())

			for _, vault := range g.Vaults() {
				want, err := g.Edges(vaultgraph.InVault(vault))
				require.NoError(t, err)
				got, err := loaded.Edges(vaultgraph.InVault(vault))
				require.NoError(t, err)
				require.Len(t, got, len(want))

				for i := range want {
					assert.Equal(t, want[i].ID(), got[i].ID())
					assert.Equal(t, want[i].Relation(), got[i].Relation())
					assert.Equal(t, want[i].Attributes().Map(), got[i].Attributes().Map())
					assert.Equal(t, want[i].From().ID(), got[i].From().ID())
					assert.Equal(t, want[i].From().Label(), got[i].From().Label())
					assert.Equal(t, want[i].From().Attributes().Map(), got[i].From().Attributes().Map())
					assert.Equal(t, want[i].To().ID(), got[i].To().ID())
				}
			}

			// Alice appears in two rows and is one vertex again.
			edges, err := loaded.Edges()
			require.NoError(t, err)
			assert.Same(t, edges[0].From(), edges[1].To())
		})
	}
}

func TestCSV_Generated(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(99)

	g := vaultgraph.New("gen", vaultgraph.WithCriticalHandler(vaultgraph.ReturnError))
	require.NoError(t, g.AddEdges(ctx, rng.Edges(rng.Vertices(40), 200, []string{"a", "b", "c", "d"})))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, g))
	assert.Equal(t, 201, strings.Count(buf.String(), "\n"))

	loaded, err := ReadCSV(ctx, &buf, "gen")
	require.NoError(t, err)
	assert.Equal(t, g.Stats().Edges, loaded.Stats().Edges)
	assert.Equal(t, g.Stats().Vertices, loaded.Stats().Vertices)
	assert.Equal(t, g.Stats().Attributes, loaded.Stats().Attributes)
}

func TestReadCSV_Errors(t *testing.T) {
	ctx := context.Background()
	header := strings.Join(Header, ";") + "\n"

	tests := []struct {
		name  string
		input string
		err   error
	}{
		{"empty", "", ErrInvalidHeader},
		{"wrong header", "a;b;c\n", ErrInvalidHeader},
		{"field count", header + "v;e;r\n", ErrMalformedRecord},
		{"bad attrs", header + "v;e;r;novalue;f;F;;t;T;\n", ErrMalformedRecord},
		{"dangling escape", header + "v;e;r;;f;F;k=v\\;t;T;\n", ErrMalformedRecord},
		{"missing vertex id", header + "v;e;r;;;F;;t;T;\n", ErrMalformedRecord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(ctx, strings.NewReader(tt.input), "g")
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestReadCSV_DefaultVault(t *testing.T) {
	input := strings.Join(Header, ";") + "\n" +
		";e1;knows;;a;A;;b;B;\n" +
		"other;;likes;w=1;b;B;;a;A;\n"

	g, err := ReadCSV(context.Background(), strings.NewReader(input), "main")
	require.NoError(t, err)
	assert.Equal(t, "main", g.Label())
	assert.Equal(t, []string{"main", "other"}, g.Vaults())

	e, err := g.FindEdgeByID("e1")
	require.NoError(t, err)
	assert.Equal(t, "knows", e.Relation())

	other, err := g.Edges(vaultgraph.InVault("other"))
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.NotEmpty(t, other[0].ID())
	assert.True(t, other[0].AttrEquals("w", 1))
	assert.Same(t, e.From(), other[0].To())
}

func TestAttrsEncoding(t *testing.T) {
	a := model.NewAttributes()
	a.Set("b", "2")
	a.Set("a", "x=y|z")
	a.Set(`k\`, "")

	enc := encodeAttrs(a)
	assert.Equal(t, `a=x\=y\|z|b=2|k\\=`, enc)

	dec, err := decodeAttrs(enc)
	require.NoError(t, err)
	assert.Equal(t, a.Map(), dec)

	_, err = decodeAttrs("a=b=c")
	assert.Error(t, err)
}

func TestWriteDOT(t *testing.T) {
	ctx := context.Background()
	g := vaultgraph.New("g", vaultgraph.WithCriticalHandler(vaultgraph.ReturnError))

	a := model.RestoreVertex("a", "Alice", nil)
	b := model.RestoreVertex("b", `Bob "B"`, nil)
	e1, err := model.RestoreEdge("e1", "knows", a, b, nil)
	require.NoError(t, err)
	e2, err := model.RestoreEdge("e2", "likes", b, a, nil)
	require.NoError(t, err)
	require.NoError(t, g.AddEdges(ctx, []*model.Edge{e1, e2}))
	g.Insert("empty")

	var buf bytes.Buffer
	require.NoError(t, WriteDOT(&buf, g))

	want := `digraph "empty" {
    node [shape=box];
}
digraph "g" {
    node [shape=box];
    "a" [label="Alice"];
    "b" [label="Bob \"B\""];
    "a" -> "b" [label="knows"];
    "b" -> "a" [label="likes"];
}
`
	assert.Equal(t, want, buf.String())
}
