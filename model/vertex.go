package model

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// nextHandle hands out process-local dense vertex handles.
var nextHandle atomic.Uint32

// Vertex is a labeled node. A *Vertex may be shared by any number of edges.
type Vertex struct {
	id     string
	handle uint32
	attrs  *Attributes

	mu    sync.RWMutex
	label string
}

// NewVertex creates a vertex with a fresh id and an empty attribute bag.
func NewVertex(label string) *Vertex {
	return RestoreVertex(uuid.NewString(), label, NewAttributes())
}

// RestoreVertex rebuilds a vertex with a known identity.
func RestoreVertex(id, label string, attrs *Attributes) *Vertex {
	if attrs == nil {
		attrs = NewAttributes()
	}
	return &Vertex{
		id:     id,
		handle: nextHandle.Add(1),
		attrs:  attrs,
		label:  label,
	}
}

// ID returns the vertex id.
func (v *Vertex) ID() string { return v.id }

// Handle returns a dense process-local number identifying this vertex object.
// Handles are not persisted.
func (v *Vertex) Handle() uint32 { return v.handle }

// Label returns the current label.
func (v *Vertex) Label() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.label
}

// SetLabel replaces the label.
func (v *Vertex) SetLabel(label string) {
	v.mu.Lock()
	v.label = label
	v.mu.Unlock()
}

// Attributes returns the owned attribute bag.
func (v *Vertex) Attributes() *Attributes { return v.attrs }

// AddRelation creates an edge from v to the given vertex.
func (v *Vertex) AddRelation(relation string, to *Vertex) *Edge {
	return NewEdge(v, relation, to)
}

// SetAttr inserts or overwrites an attribute.
func (v *Vertex) SetAttr(key string, value any) { v.attrs.Set(key, value) }

// GetAttr returns the value stored under key.
func (v *Vertex) GetAttr(key string) (string, error) { return v.attrs.Get(key) }

// UpdateAttr overwrites an existing attribute.
func (v *Vertex) UpdateAttr(key string, value any) error { return v.attrs.Update(key, value) }

// UpsertAttr inserts or overwrites an attribute.
func (v *Vertex) UpsertAttr(key string, value any) { v.attrs.Upsert(key, value) }

// DeleteAttr removes an attribute.
func (v *Vertex) DeleteAttr(key string) error { return v.attrs.Delete(key) }

// AttrKeys returns the attribute keys in no particular order.
func (v *Vertex) AttrKeys() []string { return v.attrs.Keys() }

// AttrLen returns the number of attributes.
func (v *Vertex) AttrLen() int { return v.attrs.Len() }

// HasAttrKey reports whether key is present.
func (v *Vertex) HasAttrKey(key string) bool { return v.attrs.HasKey(key) }

// HasAttrKeyLike reports whether any key contains substr, ignoring case.
func (v *Vertex) HasAttrKeyLike(substr string) bool { return v.attrs.HasKeyLike(substr) }

// AttrEquals reports whether key stores the formatted value.
func (v *Vertex) AttrEquals(key string, value any) bool { return v.attrs.Equals(key, value) }

// Equal reports structural equality: id, label and attributes.
func (v *Vertex) Equal(other *Vertex) bool {
	if v == other {
		return true
	}
	if v == nil || other == nil {
		return false
	}
	return v.id == other.id &&
		v.Label() == other.Label() &&
		v.attrs.Equal(other.attrs)
}

// String returns a short human-readable form.
func (v *Vertex) String() string {
	return fmt.Sprintf("Vertex(%s %q)", v.id, v.Label())
}
