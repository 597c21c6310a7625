package model

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Edge is a directed, labeled relation between two vertices.
//
// The endpoints are shared references: replacing an endpoint re-points the edge
// and leaves the previously referenced vertex untouched.
type Edge struct {
	id    string
	attrs *Attributes

	mu       sync.RWMutex
	relation string
	from     *Vertex
	to       *Vertex
}

// NewEdge creates an edge from -> to labeled with relation.
// It panics if either endpoint is nil.
func NewEdge(from *Vertex, relation string, to *Vertex) *Edge {
	e, err := RestoreEdge(uuid.NewString(), relation, from, to, NewAttributes())
	if err != nil {
		panic(err)
	}
	return e
}

// RestoreEdge rebuilds an edge with a known identity.
func RestoreEdge(id, relation string, from, to *Vertex, attrs *Attributes) (*Edge, error) {
	if from == nil || to == nil {
		return nil, ErrNilVertex
	}
	if attrs == nil {
		attrs = NewAttributes()
	}
	return &Edge{
		id:       id,
		attrs:    attrs,
		relation: relation,
		from:     from,
		to:       to,
	}, nil
}

// ID returns the edge id. It is stable across relation and attribute updates.
func (e *Edge) ID() string { return e.id }

// Relation returns the relation label.
func (e *Edge) Relation() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.relation
}

// SetRelation replaces the relation label.
func (e *Edge) SetRelation(relation string) {
	e.mu.Lock()
	e.relation = relation
	e.mu.Unlock()
}

// From returns the source vertex.
func (e *Edge) From() *Vertex {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.from
}

// To returns the target vertex.
func (e *Edge) To() *Vertex {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.to
}

// SetFrom re-points the source endpoint.
func (e *Edge) SetFrom(v *Vertex) error {
	if v == nil {
		return ErrNilVertex
	}
	e.mu.Lock()
	e.from = v
	e.mu.Unlock()
	return nil
}

// SetTo re-points the target endpoint.
func (e *Edge) SetTo(v *Vertex) error {
	if v == nil {
		return ErrNilVertex
	}
	e.mu.Lock()
	e.to = v
	e.mu.Unlock()
	return nil
}

// Endpoints returns both vertices under a single lock.
func (e *Edge) Endpoints() (from, to *Vertex) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.from, e.to
}

// Vertex returns whichever endpoint has the given id.
func (e *Edge) Vertex(id string) (*Vertex, error) {
	from, to := e.Endpoints()
	switch id {
	case from.ID():
		return from, nil
	case to.ID():
		return to, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrVertexNotFound, id)
}

// Touches reports whether id names the edge itself or one of its endpoints.
func (e *Edge) Touches(id string) bool {
	if e.id == id {
		return true
	}
	from, to := e.Endpoints()
	return from.ID() == id || to.ID() == id
}

// Attributes returns the owned attribute bag.
func (e *Edge) Attributes() *Attributes { return e.attrs }

// SetAttr inserts or overwrites an attribute.
func (e *Edge) SetAttr(key string, value any) { e.attrs.Set(key, value) }

// GetAttr returns the value stored under key.
func (e *Edge) GetAttr(key string) (string, error) { return e.attrs.Get(key) }

// UpdateAttr overwrites an existing attribute.
func (e *Edge) UpdateAttr(key string, value any) error { return e.attrs.Update(key, value) }

// UpsertAttr inserts or overwrites an attribute.
func (e *Edge) UpsertAttr(key string, value any) { e.attrs.Upsert(key, value) }

// DeleteAttr removes an attribute.
func (e *Edge) DeleteAttr(key string) error { return e.attrs.Delete(key) }

// AttrKeys returns the attribute keys in no particular order.
func (e *Edge) AttrKeys() []string { return e.attrs.Keys() }

// AttrLen returns the number of attributes.
func (e *Edge) AttrLen() int { return e.attrs.Len() }

// HasAttrKey reports whether key is present.
func (e *Edge) HasAttrKey(key string) bool { return e.attrs.HasKey(key) }

// HasAttrKeyLike reports whether any key contains substr, ignoring case.
func (e *Edge) HasAttrKeyLike(substr string) bool { return e.attrs.HasKeyLike(substr) }

// AttrEquals reports whether key stores the formatted value.
func (e *Edge) AttrEquals(key string, value any) bool { return e.attrs.Equals(key, value) }

// HasVertexAttrKey reports whether either endpoint has key.
func (e *Edge) HasVertexAttrKey(key string) bool {
	from, to := e.Endpoints()
	return from.HasAttrKey(key) || to.HasAttrKey(key)
}

// HasVertexAttrKeyLike reports whether either endpoint has a key containing substr.
func (e *Edge) HasVertexAttrKeyLike(substr string) bool {
	from, to := e.Endpoints()
	return from.HasAttrKeyLike(substr) || to.HasAttrKeyLike(substr)
}

// VertexAttrEquals reports whether either endpoint stores value under key.
func (e *Edge) VertexAttrEquals(key string, value any) bool {
	from, to := e.Endpoints()
	return from.AttrEquals(key, value) || to.AttrEquals(key, value)
}

// Clone returns a copy sharing both endpoint vertices. The attribute bag is
// copied and keeps its id.
func (e *Edge) Clone() *Edge {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return &Edge{
		id:       e.id,
		attrs:    e.attrs.Clone(),
		relation: e.relation,
		from:     e.from,
		to:       e.to,
	}
}

// Equal reports structural equality, including both endpoints.
func (e *Edge) Equal(other *Edge) bool {
	if e == other {
		return true
	}
	if e == nil || other == nil || e.id != other.id {
		return false
	}
	from, to := e.Endpoints()
	ofrom, oto := other.Endpoints()
	return e.Relation() == other.Relation() &&
		from.Equal(ofrom) &&
		to.Equal(oto) &&
		e.attrs.Equal(other.attrs)
}

// String returns a short human-readable form.
func (e *Edge) String() string {
	from, to := e.Endpoints()
	return fmt.Sprintf("(%s)-[%s]->(%s)", from.Label(), e.Relation(), to.Label())
}
