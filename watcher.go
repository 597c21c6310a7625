package vaultgraph

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/vaultgraph/resource"
)

// CriticalHandler is invoked when a mutation leaves the store at critical
// memory pressure. Its error is returned from the mutation.
type CriticalHandler func(ctx context.Context, s *Store, v resource.Verdict) error

// PersistAndAbort persists the store to its blob store and terminates the
// process with exit code 1. It is the default CriticalHandler.
//
// With an exit function installed through WithExitFunc that returns, the
// handler returns an error wrapping ErrCriticalPressure instead.
func PersistAndAbort(ctx context.Context, s *Store, v resource.Verdict) error {
	name, err := s.Persist(ctx, "")
	if err != nil {
		s.opts.logger.ErrorContext(ctx, "emergency persist failed", "verdict", v.String(), "error", err)
	} else {
		s.opts.logger.ErrorContext(ctx, "emergency persist completed, aborting", "verdict", v.String(), "filename", name)
	}

	s.opts.exit(1)

	return errors.Join(fmt.Errorf("%w: %s", ErrCriticalPressure, v), err)
}

// ReturnError is a CriticalHandler that leaves the process running and
// reports the pressure to the caller.
func ReturnError(_ context.Context, _ *Store, v resource.Verdict) error {
	return fmt.Errorf("%w: %s", ErrCriticalPressure, v)
}

// Watch measures the serialized store size, classifies it against the memory
// ceiling and dispatches critical pressure to the configured handler.
// Mutations call it automatically.
func (s *Store) Watch(ctx context.Context) (resource.Verdict, error) {
	v := s.rc.Evaluate(s.Mem())

	s.opts.logger.LogPressure(ctx, v)
	s.opts.metricsCollector.RecordPressure(v)

	if v.Level == resource.PressureCritical && s.opts.criticalHandler != nil {
		return v, s.opts.criticalHandler(ctx, s, v)
	}
	return v, nil
}

// MemoryLimit returns the configured memory ceiling in bytes.
func (s *Store) MemoryLimit() int64 { return s.rc.MemoryLimit() }
