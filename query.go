package vaultgraph

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/hupe1980/vaultgraph/model"
)

// observe is deferred with a pointer to the named error result.
func (s *Store) observe(op string, start time.Time, err *error) {
	s.opts.metricsCollector.RecordQuery(op, time.Since(start), *err)
}

// filter returns clones of the edges of the resolved vault matching pred.
// An empty result yields notFound.
func (s *Store) filter(op string, optFns []QueryOption, pred func(*model.Edge) bool, notFound error) (result []*model.Edge, err error) {
	defer s.observe(op, time.Now(), &err)

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, edges, err := s.resolveLocked(optFns)
	if err != nil {
		return nil, err
	}
	for _, e := range edges {
		if pred(e) {
			result = append(result, e.Clone())
		}
	}
	if len(result) == 0 {
		return nil, notFound
	}
	return result, nil
}

// FindByRelation returns the edges whose relation equals label.
// It fails with *ErrNoRelations, which matches ErrEdgeNotFound, if none do.
func (s *Store) FindByRelation(label string, optFns ...QueryOption) ([]*model.Edge, error) {
	return s.filter("find_by_relation", optFns, func(e *model.Edge) bool {
		return e.Relation() == label
	}, &ErrNoRelations{Label: label})
}

// FindByRelations returns the edges whose relation is any of labels.
func (s *Store) FindByRelations(labels []string, optFns ...QueryOption) ([]*model.Edge, error) {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return s.filter("find_by_relations", optFns, func(e *model.Edge) bool {
		_, ok := set[e.Relation()]
		return ok
	}, &ErrNoRelations{Label: strings.Join(labels, ",")})
}

// FindEdgeByID returns the first edge whose id, or one of whose endpoint ids, equals id.
func (s *Store) FindEdgeByID(id string, optFns ...QueryOption) (_ *model.Edge, err error) {
	defer s.observe("find_edge_by_id", time.Now(), &err)

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, edges, err := s.resolveLocked(optFns)
	if err != nil {
		return nil, err
	}
	if e := findTouching(edges, id); e != nil {
		return e.Clone(), nil
	}
	return nil, ErrEdgeNotFound
}

// FindEdgeByIDInVaults is FindEdgeByID over all vaults, visited in name order.
func (s *Store) FindEdgeByIDInVaults(id string) (_ *model.Edge, err error) {
	defer s.observe("find_edge_by_id_in_vaults", time.Now(), &err)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, name := range slices.Sorted(maps.Keys(s.vaults)) {
		if e := findTouching(s.vaults[name], id); e != nil {
			return e.Clone(), nil
		}
	}
	return nil, ErrEdgeNotFound
}

func findTouching(edges []*model.Edge, id string) *model.Edge {
	for _, e := range edges {
		if e.Touches(id) {
			return e
		}
	}
	return nil
}

// FindVertexByID returns the shared vertex with the given id.
func (s *Store) FindVertexByID(id string, optFns ...QueryOption) (_ *model.Vertex, err error) {
	defer s.observe("find_vertex_by_id", time.Now(), &err)

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, edges, err := s.resolveLocked(optFns)
	if err != nil {
		return nil, err
	}
	return findVertex(edges, id)
}

// FindVertexByIDInVaults is FindVertexByID over all vaults, visited in name order.
func (s *Store) FindVertexByIDInVaults(id string) (_ *model.Vertex, err error) {
	defer s.observe("find_vertex_by_id_in_vaults", time.Now(), &err)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, name := range slices.Sorted(maps.Keys(s.vaults)) {
		if v, err := findVertex(s.vaults[name], id); err == nil {
			return v, nil
		}
	}
	return nil, ErrVertexNotFound
}

func findVertex(edges []*model.Edge, id string) (*model.Vertex, error) {
	for _, e := range edges {
		if v, err := e.Vertex(id); err == nil {
			return v, nil
		}
	}
	return nil, ErrVertexNotFound
}

// FindEdgesWithVertexAttrKey returns the edges where either endpoint has key.
func (s *Store) FindEdgesWithVertexAttrKey(key string, optFns ...QueryOption) ([]*model.Edge, error) {
	return s.filter("find_edges_with_vertex_attr_key", optFns, func(e *model.Edge) bool {
		return e.HasVertexAttrKey(key)
	}, ErrEdgeNotFound)
}

// FindEdgesWithVertexAttrKeyLike returns the edges where either endpoint has a
// key containing substr, ignoring case.
func (s *Store) FindEdgesWithVertexAttrKeyLike(substr string, optFns ...QueryOption) ([]*model.Edge, error) {
	return s.filter("find_edges_with_vertex_attr_key_like", optFns, func(e *model.Edge) bool {
		return e.HasVertexAttrKeyLike(substr)
	}, ErrEdgeNotFound)
}

// FindEdgesWithVertexAttrEqualsTo returns the edges where either endpoint
// stores value under key.
func (s *Store) FindEdgesWithVertexAttrEqualsTo(key string, value any, optFns ...QueryOption) ([]*model.Edge, error) {
	return s.filter("find_edges_with_vertex_attr_equals_to", optFns, func(e *model.Edge) bool {
		return e.VertexAttrEquals(key, value)
	}, ErrEdgeNotFound)
}

// FindEdgesWithVertexAttrKeys returns the edges where either endpoint has any of keys.
func (s *Store) FindEdgesWithVertexAttrKeys(keys []string, optFns ...QueryOption) ([]*model.Edge, error) {
	if len(keys) == 0 {
		return nil, ErrAttributesEmpty
	}
	return s.filter("find_edges_with_vertex_attr_keys", optFns, func(e *model.Edge) bool {
		return slices.ContainsFunc(keys, e.HasVertexAttrKey)
	}, ErrEdgeNotFound)
}

// FindEdgesWithVertexAttrKeysLike returns the edges where either endpoint has a
// key containing any of substrs, ignoring case.
func (s *Store) FindEdgesWithVertexAttrKeysLike(substrs []string, optFns ...QueryOption) ([]*model.Edge, error) {
	if len(substrs) == 0 {
		return nil, ErrAttributesEmpty
	}
	return s.filter("find_edges_with_vertex_attr_keys_like", optFns, func(e *model.Edge) bool {
		return slices.ContainsFunc(substrs, e.HasVertexAttrKeyLike)
	}, ErrEdgeNotFound)
}

// FindEdgesWithVertexAttrEqualsAny returns the edges where either endpoint
// stores any of values under key.
func (s *Store) FindEdgesWithVertexAttrEqualsAny(key string, values []any, optFns ...QueryOption) ([]*model.Edge, error) {
	if len(values) == 0 {
		return nil, ErrAttributesEmpty
	}
	return s.filter("find_edges_with_vertex_attr_equals_any", optFns, func(e *model.Edge) bool {
		return slices.ContainsFunc(values, func(v any) bool { return e.VertexAttrEquals(key, v) })
	}, ErrEdgeNotFound)
}

// FindVerticesWithRelationIn returns the target vertices of all edges with
// the given relation, deduplicated by structural equality in first-seen order.
func (s *Store) FindVerticesWithRelationIn(label string, optFns ...QueryOption) ([]*model.Vertex, error) {
	return s.verticesWithRelation("find_vertices_with_relation_in", label, optFns, (*model.Edge).To)
}

// FindVerticesWithRelationOut returns the source vertices of all edges with
// the given relation, deduplicated by structural equality in first-seen order.
func (s *Store) FindVerticesWithRelationOut(label string, optFns ...QueryOption) ([]*model.Vertex, error) {
	return s.verticesWithRelation("find_vertices_with_relation_out", label, optFns, (*model.Edge).From)
}

func (s *Store) verticesWithRelation(op, label string, optFns []QueryOption, endpoint func(*model.Edge) *model.Vertex) (result []*model.Vertex, err error) {
	defer s.observe(op, time.Now(), &err)

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, edges, err := s.resolveLocked(optFns)
	if err != nil {
		return nil, err
	}
	for _, e := range edges {
		if e.Relation() != label {
			continue
		}
		v := endpoint(e)
		if !slices.ContainsFunc(result, v.Equal) {
			result = append(result, v)
		}
	}
	if len(result) == 0 {
		return nil, ErrVertexNotFound
	}
	return result, nil
}

// UniqRelations returns the distinct relation labels of the whole store, sorted.
func (s *Store) UniqRelations() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := make(map[string]struct{})
	for _, edges := range s.vaults {
		for _, e := range edges {
			set[e.Relation()] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(set))
}

// UniqVaultRelations returns the distinct relation labels of the resolved vault, sorted.
// It fails with ErrVaultEmpty if the vault has no edges.
func (s *Store) UniqVaultRelations(optFns ...QueryOption) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, edges, err := s.resolveLocked(optFns)
	if err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return nil, ErrVaultEmpty
	}

	set := make(map[string]struct{}, len(edges))
	for _, e := range edges {
		set[e.Relation()] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set)), nil
}
