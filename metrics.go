package vaultgraph

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/vaultgraph/resource"
)

// MetricsCollector defines an interface for collecting operational metrics.
// The metrics package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordAdd is called after each AddEdge/AddEdges call with the number of edges appended.
	RecordAdd(count int, duration time.Duration, err error)

	// RecordQuery is called after each lookup. op names the lookup, e.g. "find_by_relation".
	RecordQuery(op string, duration time.Duration, err error)

	// RecordUpdate is called after each update operation.
	RecordUpdate(duration time.Duration, err error)

	// RecordDelete is called after each delete operation.
	RecordDelete(duration time.Duration, err error)

	// RecordPersist is called after each persist with the written snapshot size.
	RecordPersist(bytes int, duration time.Duration, err error)

	// RecordLoad is called after each load with the snapshot size.
	RecordLoad(bytes int64, duration time.Duration, err error)

	// RecordPressure is called with every memory watcher verdict.
	RecordPressure(v resource.Verdict)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAdd(int, time.Duration, error)      {}
func (NoopMetricsCollector) RecordQuery(string, time.Duration, error) {}
func (NoopMetricsCollector) RecordUpdate(time.Duration, error)        {}
func (NoopMetricsCollector) RecordDelete(time.Duration, error)        {}
func (NoopMetricsCollector) RecordPersist(int, time.Duration, error)  {}
func (NoopMetricsCollector) RecordLoad(int64, time.Duration, error)   {}
func (NoopMetricsCollector) RecordPressure(resource.Verdict)          {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	AddCount      atomic.Int64
	AddEdges      atomic.Int64
	AddErrors     atomic.Int64
	QueryCount    atomic.Int64
	QueryErrors   atomic.Int64
	QueryNanos    atomic.Int64
	UpdateCount   atomic.Int64
	UpdateErrors  atomic.Int64
	DeleteCount   atomic.Int64
	DeleteErrors  atomic.Int64
	PersistCount  atomic.Int64
	PersistErrors atomic.Int64
	PersistBytes  atomic.Int64
	LoadCount     atomic.Int64
	LoadErrors    atomic.Int64
	MemoryBytes   atomic.Int64
	Warnings      atomic.Int64
	Criticals     atomic.Int64
}

// RecordAdd implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAdd(count int, _ time.Duration, err error) {
	b.AddCount.Add(1)
	if err != nil {
		b.AddErrors.Add(1)
		return
	}
	b.AddEdges.Add(int64(count))
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(_ string, duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
	}
}

// RecordUpdate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUpdate(_ time.Duration, err error) {
	b.UpdateCount.Add(1)
	if err != nil {
		b.UpdateErrors.Add(1)
	}
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(_ time.Duration, err error) {
	b.DeleteCount.Add(1)
	if err != nil {
		b.DeleteErrors.Add(1)
	}
}

// RecordPersist implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPersist(bytes int, _ time.Duration, err error) {
	b.PersistCount.Add(1)
	if err != nil {
		b.PersistErrors.Add(1)
		return
	}
	b.PersistBytes.Add(int64(bytes))
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(_ int64, _ time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
	}
}

// RecordPressure implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPressure(v resource.Verdict) {
	b.MemoryBytes.Store(v.Used)
	switch v.Level {
	case resource.PressureWarn:
		b.Warnings.Add(1)
	case resource.PressureCritical:
		b.Criticals.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	s := BasicMetricsStats{
		AddCount:      b.AddCount.Load(),
		AddEdges:      b.AddEdges.Load(),
		AddErrors:     b.AddErrors.Load(),
		QueryCount:    b.QueryCount.Load(),
		QueryErrors:   b.QueryErrors.Load(),
		UpdateCount:   b.UpdateCount.Load(),
		UpdateErrors:  b.UpdateErrors.Load(),
		DeleteCount:   b.DeleteCount.Load(),
		DeleteErrors:  b.DeleteErrors.Load(),
		PersistCount:  b.PersistCount.Load(),
		PersistErrors: b.PersistErrors.Load(),
		PersistBytes:  b.PersistBytes.Load(),
		LoadCount:     b.LoadCount.Load(),
		LoadErrors:    b.LoadErrors.Load(),
		MemoryBytes:   b.MemoryBytes.Load(),
		Warnings:      b.Warnings.Load(),
		Criticals:     b.Criticals.Load(),
	}
	if s.QueryCount > 0 {
		s.QueryAvgNanos = b.QueryNanos.Load() / s.QueryCount
	}
	return s
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AddCount      int64
	AddEdges      int64
	AddErrors     int64
	QueryCount    int64
	QueryErrors   int64
	QueryAvgNanos int64
	UpdateCount   int64
	UpdateErrors  int64
	DeleteCount   int64
	DeleteErrors  int64
	PersistCount  int64
	PersistErrors int64
	PersistBytes  int64
	LoadCount     int64
	LoadErrors    int64
	MemoryBytes   int64
	Warnings      int64
	Criticals     int64
}
