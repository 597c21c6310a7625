package model

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Attributes is a key-value bag attached to exactly one vertex or edge.
type Attributes struct {
	id string

	mu     sync.RWMutex
	values map[string]string
}

// NewAttributes creates an empty bag with a fresh id.
func NewAttributes() *Attributes {
	return &Attributes{
		id:     uuid.NewString(),
		values: make(map[string]string),
	}
}

// RestoreAttributes rebuilds a bag with a known id, e.g. when decoding a snapshot.
// The values map is copied.
func RestoreAttributes(id string, values map[string]string) *Attributes {
	a := &Attributes{
		id:     id,
		values: make(map[string]string, len(values)),
	}
	maps.Copy(a.values, values)
	return a
}

// ID returns the bag identity.
func (a *Attributes) ID() string { return a.id }

// Set inserts or overwrites key.
func (a *Attributes) Set(key string, value any) {
	a.mu.Lock()
	a.values[key] = format(value)
	a.mu.Unlock()
}

// Get returns the value stored under key.
func (a *Attributes) Get(key string) (string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	v, ok := a.values[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrAttributeNotFound, key)
	}
	return v, nil
}

// Update overwrites an existing key. Unlike Upsert it fails when key is absent.
func (a *Attributes) Update(key string, value any) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.values[key]; !ok {
		return fmt.Errorf("%w: %q", ErrAttributeNotFound, key)
	}
	a.values[key] = format(value)
	return nil
}

// Upsert inserts or overwrites key. It never fails.
func (a *Attributes) Upsert(key string, value any) {
	a.Set(key, value)
}

// Delete removes key.
func (a *Attributes) Delete(key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.values[key]; !ok {
		return fmt.Errorf("%w: %q", ErrAttributeNotFound, key)
	}
	delete(a.values, key)
	return nil
}

// Keys returns the keys in no particular order.
func (a *Attributes) Keys() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Collect(maps.Keys(a.values))
}

// SortedKeys returns the keys in ascending order.
func (a *Attributes) SortedKeys() []string {
	keys := a.Keys()
	slices.Sort(keys)
	return keys
}

// Len returns the number of entries.
func (a *Attributes) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.values)
}

// IsEmpty reports whether the bag has no entries.
func (a *Attributes) IsEmpty() bool { return a.Len() == 0 }

// HasKey reports whether key is present.
func (a *Attributes) HasKey(key string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.values[key]
	return ok
}

// HasKeyLike reports whether any key contains substr, ignoring case.
func (a *Attributes) HasKeyLike(substr string) bool {
	needle := strings.ToLower(substr)

	a.mu.RLock()
	defer a.mu.RUnlock()
	for k := range a.values {
		if strings.Contains(strings.ToLower(k), needle) {
			return true
		}
	}
	return false
}

// Equals reports whether key is present and its stored value equals the
// formatted form of value.
func (a *Attributes) Equals(key string, value any) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.values[key]
	return ok && v == format(value)
}

// Map returns a copy of the entries.
func (a *Attributes) Map() map[string]string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return maps.Clone(a.values)
}

// Clone returns an independent copy that keeps the same id.
func (a *Attributes) Clone() *Attributes {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return RestoreAttributes(a.id, a.values)
}

// Equal compares id and entries.
func (a *Attributes) Equal(other *Attributes) bool {
	if a == other {
		return true
	}
	if a == nil || other == nil || a.id != other.id {
		return false
	}
	return maps.Equal(a.Map(), other.Map())
}

func format(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
