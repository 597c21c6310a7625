package vaultgraph

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/dustin/go-humanize"
)

// Stats summarises a store.
type Stats struct {
	Vaults int
	Edges  int
	// Vertices counts distinct vertex objects; a vertex shared by several edges counts once.
	Vertices int
	// Attributes counts attribute entries on edges and distinct vertices.
	Attributes      int
	UniqueRelations int
	MemoryBytes     int64
}

func (s Stats) String() string {
	return fmt.Sprintf("vaults=%d edges=%d vertices=%d attributes=%d relations=%d memory=%s",
		s.Vaults, s.Edges, s.Vertices, s.Attributes, s.UniqueRelations,
		humanize.IBytes(uint64(max(s.MemoryBytes, 0))))
}

// Stats scans the store and returns summary counts.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vertices := roaring.New()
	relations := make(map[string]struct{})
	st := Stats{Vaults: len(s.vaults)}

	for _, edges := range s.vaults {
		st.Edges += len(edges)
		for _, e := range edges {
			relations[e.Relation()] = struct{}{}
			st.Attributes += e.AttrLen()

			from, to := e.Endpoints()
			if vertices.CheckedAdd(from.Handle()) {
				st.Attributes += from.AttrLen()
			}
			if vertices.CheckedAdd(to.Handle()) {
				st.Attributes += to.AttrLen()
			}
		}
	}

	st.Vertices = int(vertices.GetCardinality())
	st.UniqueRelations = len(relations)
	st.MemoryBytes = s.memLocked()
	return st
}
