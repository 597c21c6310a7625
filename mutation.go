package vaultgraph

import (
	"context"
	"slices"
	"time"

	"github.com/hupe1980/vaultgraph/model"
)

// AddEdge appends a clone of e to the resolved vault and runs the memory watcher.
//
// If the vault does not exist the store is left unchanged, the failure is
// logged and *ErrVaultNotExists is returned. Vaults are never created implicitly.
func (s *Store) AddEdge(ctx context.Context, e *model.Edge, optFns ...QueryOption) error {
	return s.AddEdges(ctx, []*model.Edge{e}, optFns...)
}

// AddEdges appends clones of edges to the resolved vault in order and runs the
// memory watcher once. Either all edges are appended or none are.
func (s *Store) AddEdges(ctx context.Context, edges []*model.Edge, optFns ...QueryOption) (err error) {
	start := time.Now()
	defer func() {
		s.opts.metricsCollector.RecordAdd(len(edges), time.Since(start), err)
	}()

	if slices.Contains(edges, nil) {
		return ErrNilEdge
	}

	s.mu.Lock()
	name, existing, err := s.resolveLocked(optFns)
	if err == nil {
		for _, e := range edges {
			existing = append(existing, e.Clone())
		}
		s.vaults[name] = existing
	}
	s.mu.Unlock()

	s.opts.logger.LogAddEdge(ctx, name, len(edges), err)
	if err != nil {
		return err
	}

	_, err = s.Watch(ctx)
	return err
}

// UpdateEdge replaces the edge with the same id as e by a clone of e. The
// replacement moves to the end of the vault. The memory watcher runs afterwards.
func (s *Store) UpdateEdge(ctx context.Context, e *model.Edge, optFns ...QueryOption) (err error) {
	start := time.Now()
	defer func() {
		s.opts.metricsCollector.RecordUpdate(time.Since(start), err)
	}()

	if e == nil {
		return ErrNilEdge
	}

	s.mu.Lock()
	name, edges, err := s.resolveLocked(optFns)
	if err == nil {
		if i := indexOf(edges, e.ID()); i >= 0 {
			edges = slices.Delete(edges, i, i+1)
			s.vaults[name] = append(edges, e.Clone())
		} else {
			err = ErrEdgeNotFound
		}
	}
	s.mu.Unlock()

	s.opts.logger.LogUpdate(ctx, name, e.ID(), err)
	if err != nil {
		return err
	}

	_, err = s.Watch(ctx)
	return err
}

// DeleteEdgeByID removes the first edge of the resolved vault with the given id.
func (s *Store) DeleteEdgeByID(id string, optFns ...QueryOption) (err error) {
	start := time.Now()
	defer func() {
		s.opts.metricsCollector.RecordDelete(time.Since(start), err)
	}()

	s.mu.Lock()
	name, edges, err := s.resolveLocked(optFns)
	if err == nil {
		if i := indexOf(edges, id); i >= 0 {
			s.vaults[name] = slices.Delete(edges, i, i+1)
		} else {
			err = ErrEdgeNotFound
		}
	}
	s.mu.Unlock()

	s.opts.logger.LogDelete(context.Background(), name, id, err)
	return err
}

func indexOf(edges []*model.Edge, id string) int {
	return slices.IndexFunc(edges, func(e *model.Edge) bool { return e.ID() == id })
}
