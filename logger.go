package vaultgraph

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/vaultgraph/resource"
)

// Logger wraps slog.Logger with store-specific helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, a text handler writing to stderr at info level is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// WithVault adds a vault field to the logger.
func (l *Logger) WithVault(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("vault", name),
	}
}

// LogAddEdge logs an add operation.
func (l *Logger) LogAddEdge(ctx context.Context, vault string, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "add edge failed",
			"vault", vault,
			"count", count,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "add edge completed",
			"vault", vault,
			"count", count,
		)
	}
}

// LogUpdate logs an update operation.
func (l *Logger) LogUpdate(ctx context.Context, vault, id string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "update edge failed",
			"vault", vault,
			"id", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "update edge completed",
			"vault", vault,
			"id", id,
		)
	}
}

// LogDelete logs a delete operation.
func (l *Logger) LogDelete(ctx context.Context, vault, id string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "delete edge failed",
			"vault", vault,
			"id", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "delete edge completed",
			"vault", vault,
			"id", id,
		)
	}
}

// LogPersist logs a persist operation.
func (l *Logger) LogPersist(ctx context.Context, name string, size int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "persist failed",
			"filename", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "store persisted",
			"filename", name,
			"bytes", size,
			"duration", duration,
		)
	}
}

// LogLoad logs a load operation.
func (l *Logger) LogLoad(ctx context.Context, name string, size int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"filename", name,
			"bytes", size,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "store loaded",
			"filename", name,
			"bytes", size,
		)
	}
}

// LogPressure logs a memory watcher verdict at a level matching its severity.
func (l *Logger) LogPressure(ctx context.Context, v resource.Verdict) {
	args := []any{
		"used", v.Used,
		"limit", v.Limit,
		"percent", v.Percent,
	}
	switch v.Level {
	case resource.PressureCritical:
		l.ErrorContext(ctx, "critical memory pressure", args...)
	case resource.PressureWarn:
		l.WarnContext(ctx, "high memory pressure", args...)
	default:
		l.DebugContext(ctx, "memory usage", args...)
	}
}
