// Package codec encodes whole-store snapshots as MessagePack.
//
// Vertices are written once into an arena and edges refer to them by arena
// index, so a vertex shared by several edges is decoded as one shared *Vertex
// again. Layout:
//
//	snapshot = [id, current, vertices, vaults]
//	vertices = [[id, label, attrsID, {key: value}], ...]
//	vaults   = {name: [[id, relation, fromIdx, toIdx, attrsID, {key: value}], ...]}
//
// Vault names and attribute keys are written in sorted order, so equal stores
// encode to equal bytes.
//
// Changing this layout is a breaking change: older snapshots will no longer decode.
package codec

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/tinylib/msgp/msgp"

	"github.com/hupe1980/vaultgraph/model"
)

// Name is the stable name of this encoding.
const Name = "msgpack"

// ErrInvalidVertexRef is returned when an edge points outside the vertex arena.
var ErrInvalidVertexRef = errors.New("invalid vertex reference")

// Snapshot is the serializable state of a store.
type Snapshot struct {
	ID      string
	Current string
	Vaults  map[string][]*model.Edge
}

// Marshal encodes s into a new buffer.
func Marshal(s *Snapshot) ([]byte, error) {
	return Append(nil, s)
}

// Append encodes s and appends it to dst.
func Append(dst []byte, s *Snapshot) ([]byte, error) {
	names := slices.Sorted(maps.Keys(s.Vaults))

	var arena []*model.Vertex
	index := make(map[*model.Vertex]uint32)
	ref := func(v *model.Vertex) uint32 {
		if i, ok := index[v]; ok {
			return i
		}
		i := uint32(len(arena))
		index[v] = i
		arena = append(arena, v)
		return i
	}

	type edgeRef struct {
		e        *model.Edge
		from, to uint32
	}
	refs := make(map[string][]edgeRef, len(names))
	for _, name := range names {
		edges := s.Vaults[name]
		rs := make([]edgeRef, len(edges))
		for i, e := range edges {
			from, to := e.Endpoints()
			rs[i] = edgeRef{e: e, from: ref(from), to: ref(to)}
		}
		refs[name] = rs
	}

	o := msgp.AppendArrayHeader(dst, 4)
	o = msgp.AppendString(o, s.ID)
	o = msgp.AppendString(o, s.Current)

	o = msgp.AppendArrayHeader(o, uint32(len(arena)))
	for _, v := range arena {
		o = msgp.AppendArrayHeader(o, 4)
		o = msgp.AppendString(o, v.ID())
		o = msgp.AppendString(o, v.Label())
		o = appendAttributes(o, v.Attributes())
	}

	o = msgp.AppendMapHeader(o, uint32(len(names)))
	for _, name := range names {
		o = msgp.AppendString(o, name)
		rs := refs[name]
		o = msgp.AppendArrayHeader(o, uint32(len(rs)))
		for _, r := range rs {
			o = msgp.AppendArrayHeader(o, 6)
			o = msgp.AppendString(o, r.e.ID())
			o = msgp.AppendString(o, r.e.Relation())
			o = msgp.AppendUint32(o, r.from)
			o = msgp.AppendUint32(o, r.to)
			o = appendAttributes(o, r.e.Attributes())
		}
	}

	return o, nil
}

// appendAttributes writes attrsID followed by the entry map.
func appendAttributes(o []byte, a *model.Attributes) []byte {
	o = msgp.AppendString(o, a.ID())
	m := a.Map()
	o = msgp.AppendMapHeader(o, uint32(len(m)))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		o = msgp.AppendString(o, k)
		o = msgp.AppendString(o, m[k])
	}
	return o
}

// Unmarshal decodes a snapshot produced by Append.
func Unmarshal(bts []byte) (*Snapshot, error) {
	sz, bts, err := msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	if sz != 4 {
		return nil, fmt.Errorf("snapshot: %w", msgp.ArrayError{Wanted: 4, Got: sz})
	}

	s := &Snapshot{}
	if s.ID, bts, err = msgp.ReadStringBytes(bts); err != nil {
		return nil, fmt.Errorf("snapshot id: %w", err)
	}
	if s.Current, bts, err = msgp.ReadStringBytes(bts); err != nil {
		return nil, fmt.Errorf("snapshot current: %w", err)
	}

	var arena []*model.Vertex
	if arena, bts, err = readVertices(bts); err != nil {
		return nil, err
	}

	nv, bts, err := msgp.ReadMapHeaderBytes(bts)
	if err != nil {
		return nil, fmt.Errorf("vaults: %w", err)
	}
	s.Vaults = make(map[string][]*model.Edge, sizeHint(nv, bts))
	for range nv {
		var name string
		if name, bts, err = msgp.ReadStringBytes(bts); err != nil {
			return nil, fmt.Errorf("vault name: %w", err)
		}
		var edges []*model.Edge
		if edges, bts, err = readEdges(bts, arena); err != nil {
			return nil, fmt.Errorf("vault %q: %w", name, err)
		}
		s.Vaults[name] = edges
	}

	if len(bts) != 0 {
		return nil, fmt.Errorf("snapshot: %d trailing bytes", len(bts))
	}
	return s, nil
}

// sizeHint bounds a header-announced element count by the remaining input.
// Every element takes at least one byte.
func sizeHint(n uint32, bts []byte) int {
	if uint64(n) > uint64(len(bts)) {
		return len(bts)
	}
	return int(n)
}

func readVertices(bts []byte) ([]*model.Vertex, []byte, error) {
	n, bts, err := msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		return nil, bts, fmt.Errorf("vertices: %w", err)
	}
	arena := make([]*model.Vertex, 0, sizeHint(n, bts))
	for i := range n {
		var sz uint32
		if sz, bts, err = msgp.ReadArrayHeaderBytes(bts); err != nil {
			return nil, bts, fmt.Errorf("vertex %d: %w", i, err)
		}
		if sz != 4 {
			return nil, bts, fmt.Errorf("vertex %d: %w", i, msgp.ArrayError{Wanted: 4, Got: sz})
		}
		var id, label string
		if id, bts, err = msgp.ReadStringBytes(bts); err != nil {
			return nil, bts, fmt.Errorf("vertex %d id: %w", i, err)
		}
		if label, bts, err = msgp.ReadStringBytes(bts); err != nil {
			return nil, bts, fmt.Errorf("vertex %d label: %w", i, err)
		}
		var attrs *model.Attributes
		if attrs, bts, err = readAttributes(bts); err != nil {
			return nil, bts, fmt.Errorf("vertex %d: %w", i, err)
		}
		arena = append(arena, model.RestoreVertex(id, label, attrs))
	}
	return arena, bts, nil
}

func readEdges(bts []byte, arena []*model.Vertex) ([]*model.Edge, []byte, error) {
	n, bts, err := msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		return nil, bts, err
	}
	edges := make([]*model.Edge, 0, sizeHint(n, bts))
	for i := range n {
		var sz uint32
		if sz, bts, err = msgp.ReadArrayHeaderBytes(bts); err != nil {
			return nil, bts, fmt.Errorf("edge %d: %w", i, err)
		}
		if sz != 6 {
			return nil, bts, fmt.Errorf("edge %d: %w", i, msgp.ArrayError{Wanted: 6, Got: sz})
		}
		var id, relation string
		if id, bts, err = msgp.ReadStringBytes(bts); err != nil {
			return nil, bts, fmt.Errorf("edge %d id: %w", i, err)
		}
		if relation, bts, err = msgp.ReadStringBytes(bts); err != nil {
			return nil, bts, fmt.Errorf("edge %d relation: %w", i, err)
		}
		var from, to uint32
		if from, bts, err = msgp.ReadUint32Bytes(bts); err != nil {
			return nil, bts, fmt.Errorf("edge %d from: %w", i, err)
		}
		if to, bts, err = msgp.ReadUint32Bytes(bts); err != nil {
			return nil, bts, fmt.Errorf("edge %d to: %w", i, err)
		}
		if int(from) >= len(arena) || int(to) >= len(arena) {
			return nil, bts, fmt.Errorf("edge %d: %w: %d/%d of %d", i, ErrInvalidVertexRef, from, to, len(arena))
		}
		var attrs *model.Attributes
		if attrs, bts, err = readAttributes(bts); err != nil {
			return nil, bts, fmt.Errorf("edge %d: %w", i, err)
		}
		e, err := model.RestoreEdge(id, relation, arena[from], arena[to], attrs)
		if err != nil {
			return nil, bts, err
		}
		edges = append(edges, e)
	}
	return edges, bts, nil
}

func readAttributes(bts []byte) (*model.Attributes, []byte, error) {
	id, bts, err := msgp.ReadStringBytes(bts)
	if err != nil {
		return nil, bts, fmt.Errorf("attributes id: %w", err)
	}
	n, bts, err := msgp.ReadMapHeaderBytes(bts)
	if err != nil {
		return nil, bts, fmt.Errorf("attributes: %w", err)
	}
	values := make(map[string]string, sizeHint(n, bts))
	for range n {
		var k, v string
		if k, bts, err = msgp.ReadStringBytes(bts); err != nil {
			return nil, bts, fmt.Errorf("attribute key: %w", err)
		}
		if v, bts, err = msgp.ReadStringBytes(bts); err != nil {
			return nil, bts, fmt.Errorf("attribute %q: %w", k, err)
		}
		values[k] = v
	}
	return model.RestoreAttributes(id, values), bts, nil
}
