package vaultgraph

import (
	"log/slog"
	"os"

	"github.com/hupe1980/vaultgraph/blobstore"
	"github.com/hupe1980/vaultgraph/persistence"
	"github.com/hupe1980/vaultgraph/resource"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	blobStore        blobstore.BlobStore
	resource         resource.Config
	compression      persistence.CompressionType
	criticalHandler  CriticalHandler
	exit             func(code int)
}

// Option configures store construction and loading.
type Option func(*options)

// WithLogger configures structured logging. Pass nil to disable logging.
//
//	g := vaultgraph.New("Graph A", vaultgraph.WithLogger(vaultgraph.NewJSONLogger(slog.LevelInfo)))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector. Pass nil to disable metrics.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithBlobStore sets where Persist writes when no directory is given, and
// where the default critical handler dumps the store.
// The default is a LocalStore rooted at the working directory.
func WithBlobStore(bs blobstore.BlobStore) Option {
	return func(o *options) {
		o.blobStore = bs
	}
}

// WithMemoryLimit sets the memory ceiling in bytes.
// Values <= 0 select resource.DefaultMemoryLimitBytes.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.resource.MemoryLimitBytes = bytes
	}
}

// WithPressureThresholds overrides the warn and critical percentages.
func WithPressureThresholds(warn, critical float64) Option {
	return func(o *options) {
		o.resource.WarnPercent = warn
		o.resource.CriticalPercent = critical
	}
}

// WithIOLimit throttles local snapshot writes to bytesPerSec. 0 means unlimited.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.resource.IOLimitBytesPerSec = bytesPerSec
	}
}

// WithCompression sets the snapshot compression. The default is zstd.
func WithCompression(ct persistence.CompressionType) Option {
	return func(o *options) {
		o.compression = ct
	}
}

// WithCriticalHandler replaces the action taken on critical memory pressure.
// The default is PersistAndAbort.
func WithCriticalHandler(h CriticalHandler) Option {
	return func(o *options) {
		o.criticalHandler = h
	}
}

// WithExitFunc replaces the function PersistAndAbort uses to terminate the process.
func WithExitFunc(exit func(code int)) Option {
	return func(o *options) {
		o.exit = exit
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		compression:      persistence.CompressionZSTD,
		criticalHandler:  PersistAndAbort,
		exit:             os.Exit,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// QueryOption scopes a single store call.
type QueryOption func(*queryOptions)

type queryOptions struct {
	vault string
}

// InVault runs the call against the named vault instead of the current one.
func InVault(name string) QueryOption {
	return func(o *queryOptions) {
		o.vault = name
	}
}
