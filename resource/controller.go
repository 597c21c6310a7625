package resource

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// DefaultMemoryLimitBytes is the ceiling used when none is configured (25 MiB).
const DefaultMemoryLimitBytes = 25 << 20

const (
	// DefaultWarnPercent is the pressure at which a warning is emitted.
	DefaultWarnPercent = 95.0
	// DefaultCriticalPercent is the pressure at which the store must persist and stop.
	DefaultCriticalPercent = 99.0
)

// ErrPersistBusy is returned by TryAcquirePersist when another persist is running.
var ErrPersistBusy = errors.New("persist already in progress")

// Level classifies memory pressure.
type Level uint8

const (
	// PressureNone means usage is below the warn threshold.
	PressureNone Level = iota
	// PressureWarn means usage is between the warn and critical thresholds.
	PressureWarn
	// PressureCritical means usage reached the critical threshold.
	PressureCritical
)

func (l Level) String() string {
	switch l {
	case PressureNone:
		return "none"
	case PressureWarn:
		return "warn"
	case PressureCritical:
		return "critical"
	default:
		return fmt.Sprintf("Level(%d)", l)
	}
}

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the ceiling for the serialized store size.
	// If <= 0, DefaultMemoryLimitBytes is used.
	MemoryLimitBytes int64

	// WarnPercent defaults to DefaultWarnPercent.
	WarnPercent float64

	// CriticalPercent defaults to DefaultCriticalPercent.
	CriticalPercent float64

	// IOLimitBytesPerSec is the maximum write throughput for persistence.
	// If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Verdict is the outcome of a single pressure evaluation.
type Verdict struct {
	Level   Level
	Used    int64
	Limit   int64
	Percent float64
}

func (v Verdict) String() string {
	return fmt.Sprintf("%s: %s of %s (%.2f%%)",
		v.Level, humanize.IBytes(uint64(max(v.Used, 0))), humanize.IBytes(uint64(max(v.Limit, 0))), v.Percent)
}

// Controller evaluates memory pressure against the configured ceiling and
// governs persistence (one writer at a time, optional IO throttling).
type Controller struct {
	cfg Config

	// Memory
	memUsed atomic.Int64

	// Persistence
	persistSem *semaphore.Weighted

	// IO
	ioLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MemoryLimitBytes <= 0 {
		cfg.MemoryLimitBytes = DefaultMemoryLimitBytes
	}
	if cfg.WarnPercent <= 0 {
		cfg.WarnPercent = DefaultWarnPercent
	}
	if cfg.CriticalPercent <= 0 {
		cfg.CriticalPercent = DefaultCriticalPercent
	}
	if cfg.WarnPercent > cfg.CriticalPercent {
		cfg.WarnPercent = cfg.CriticalPercent
	}

	c := &Controller{
		cfg:        cfg,
		persistSem: semaphore.NewWeighted(1),
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// Evaluate records usedBytes as the current usage and classifies it.
func (c *Controller) Evaluate(usedBytes int64) Verdict {
	if c == nil {
		return classify(NewController(Config{}).cfg, usedBytes)
	}
	c.memUsed.Store(usedBytes)
	return classify(c.cfg, usedBytes)
}

func classify(cfg Config, usedBytes int64) Verdict {
	limit := cfg.MemoryLimitBytes
	pct := float64(usedBytes) * 100 / float64(limit)

	level := PressureNone
	switch {
	case pct >= cfg.CriticalPercent:
		level = PressureCritical
	case pct >= cfg.WarnPercent:
		level = PressureWarn
	}

	return Verdict{Level: level, Used: usedBytes, Limit: limit, Percent: pct}
}

// Exceeds reports whether size is above the ceiling. Used to reject loads.
func (c *Controller) Exceeds(size int64) bool {
	return size > c.MemoryLimit()
}

// MemoryUsage returns the last evaluated usage in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// MemoryLimit returns the configured ceiling in bytes.
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return DefaultMemoryLimitBytes
	}
	return c.cfg.MemoryLimitBytes
}

// AcquirePersist reserves the persistence slot, blocking until it is free
// or ctx is canceled.
func (c *Controller) AcquirePersist(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.persistSem.Acquire(ctx, 1)
}

// TryAcquirePersist reserves the persistence slot without blocking.
func (c *Controller) TryAcquirePersist() error {
	if c == nil {
		return nil
	}
	if !c.persistSem.TryAcquire(1) {
		return ErrPersistBusy
	}
	return nil
}

// ReleasePersist releases the persistence slot.
func (c *Controller) ReleasePersist() {
	if c == nil {
		return
	}
	c.persistSem.Release(1)
}

// AcquireIO waits until the IO limit allows the specified number of bytes.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	// WaitN rejects requests larger than the burst, so split them.
	burst := c.ioLimiter.Burst()
	for bytes > 0 {
		n := min(bytes, burst)
		if err := c.ioLimiter.WaitN(ctx, n); err != nil {
			return err
		}
		bytes -= n
	}
	return nil
}
