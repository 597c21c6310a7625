package vaultgraph

import (
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/hupe1980/vaultgraph/blobstore"
	"github.com/hupe1980/vaultgraph/codec"
	"github.com/hupe1980/vaultgraph/model"
	"github.com/hupe1980/vaultgraph/resource"
)

// Store is an in-memory labeled multigraph organised in named vaults.
//
// Every vault is an ordered sequence of edges. Edges are stored and returned
// as clones that share their endpoint vertices, so mutating a vertex through
// one edge is visible through every edge referencing it.
//
// Store is safe for concurrent use.
type Store struct {
	id   string
	opts options
	rc   *resource.Controller

	mu      sync.RWMutex
	current string
	vaults  map[string][]*model.Edge
}

// New creates a store with a single empty vault named name, which becomes
// the current vault.
func New(name string, optFns ...Option) *Store {
	s := newStore(uuid.NewString(), name, optFns)
	s.vaults[name] = nil
	return s
}

func newStore(id, current string, optFns []Option) *Store {
	opts := applyOptions(optFns)
	rc := resource.NewController(opts.resource)
	if opts.blobStore == nil {
		opts.blobStore = blobstore.NewLocalStore(".", blobstore.WithController(rc))
	}
	return &Store{
		id:      id,
		opts:    opts,
		rc:      rc,
		current: current,
		vaults:  make(map[string][]*model.Edge),
	}
}

// ID returns the store id.
func (s *Store) ID() string { return s.id }

// Label returns the current vault name. It also names persisted snapshots.
func (s *Store) Label() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Insert adds an empty vault and makes it current. Inserting an existing
// name resets that vault to empty; other vaults are untouched.
func (s *Store) Insert(name string) {
	s.mu.Lock()
	s.vaults[name] = nil
	s.current = name
	s.mu.Unlock()
}

// HasVault reports whether the named vault exists.
func (s *Store) HasVault(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.vaults[name]
	return ok
}

// Vaults returns the vault names in ascending order.
func (s *Store) Vaults() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.vaults))
}

// Edges returns clones of the edges of the resolved vault in insertion order.
func (s *Store) Edges(optFns ...QueryOption) ([]*model.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, edges, err := s.resolveLocked(optFns)
	if err != nil {
		return nil, err
	}
	return cloneEdges(edges), nil
}

// Len returns the number of edges across all vaults.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, edges := range s.vaults {
		n += len(edges)
	}
	return n
}

// AttrLen returns the number of attribute entries on all edges and their
// endpoint vertices. A vertex shared by several edges is counted once.
func (s *Store) AttrLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[*model.Vertex]struct{})
	n := 0
	for _, edges := range s.vaults {
		for _, e := range edges {
			n += e.AttrLen()
			from, to := e.Endpoints()
			for _, v := range [2]*model.Vertex{from, to} {
				if _, ok := seen[v]; ok {
					continue
				}
				seen[v] = struct{}{}
				n += v.AttrLen()
			}
		}
	}
	return n
}

// AttrKeys returns the distinct attribute keys used on edges and vertices of
// the resolved vault, sorted.
func (s *Store) AttrKeys(optFns ...QueryOption) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, edges, err := s.resolveLocked(optFns)
	if err != nil {
		return nil, err
	}

	keys := make(map[string]struct{})
	add := func(ks []string) {
		for _, k := range ks {
			keys[k] = struct{}{}
		}
	}
	for _, e := range edges {
		add(e.AttrKeys())
		from, to := e.Endpoints()
		add(from.AttrKeys())
		add(to.AttrKeys())
	}
	return slices.Sorted(maps.Keys(keys)), nil
}

// Mem returns the serialized size of the store in bytes, i.e. the value the
// memory watcher compares against the ceiling.
func (s *Store) Mem() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.memLocked()
}

var encodeBufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 4096)
		return &b
	},
}

func (s *Store) memLocked() int64 {
	bufp := encodeBufPool.Get().(*[]byte)
	defer encodeBufPool.Put(bufp)

	out, err := codec.Append((*bufp)[:0], s.snapshotLocked())
	if err != nil {
		return 0
	}
	*bufp = out
	return int64(len(out))
}

func (s *Store) snapshotLocked() *codec.Snapshot {
	return &codec.Snapshot{
		ID:      s.id,
		Current: s.current,
		Vaults:  s.vaults,
	}
}

func (s *Store) vaultName(optFns []QueryOption) string {
	var q queryOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&q)
		}
	}
	if q.vault == "" {
		return s.current
	}
	return q.vault
}

// resolveLocked returns the vault selected by optFns, defaulting to the current vault.
func (s *Store) resolveLocked(optFns []QueryOption) (string, []*model.Edge, error) {
	name := s.vaultName(optFns)
	edges, ok := s.vaults[name]
	if !ok {
		return name, nil, &ErrVaultNotExists{Name: name}
	}
	return name, edges, nil
}

func cloneEdges(edges []*model.Edge) []*model.Edge {
	out := make([]*model.Edge, len(edges))
	for i, e := range edges {
		out[i] = e.Clone()
	}
	return out
}
