// Package metrics exports store operations to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	g := vaultgraph.New("Graph A", vaultgraph.WithMetricsCollector(metrics.NewPrometheusCollector(reg)))
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hupe1980/vaultgraph"
	"github.com/hupe1980/vaultgraph/resource"
)

const namespace = "vaultgraph"

// PrometheusCollector implements vaultgraph.MetricsCollector.
type PrometheusCollector struct {
	ops         *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	edgesAdded  prometheus.Counter
	persistSize prometheus.Histogram
	loadSize    prometheus.Histogram
	memory      prometheus.Gauge
	memoryLimit prometheus.Gauge
	pressure    *prometheus.CounterVec
}

var _ vaultgraph.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheusCollector registers the collector's metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &PrometheusCollector{
		ops: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Store operations by kind and outcome.",
		}, []string{"op", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Store operation latency.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"op"}),
		edgesAdded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edges_added_total",
			Help:      "Edges appended to vaults.",
		}),
		persistSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "persist_bytes",
			Help:      "Size of written snapshots.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 10),
		}),
		loadSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_bytes",
			Help:      "Size of loaded snapshots.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 10),
		}),
		memory: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "memory_bytes",
			Help:      "Serialized store size at the last watcher run.",
		}),
		memoryLimit: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "memory_limit_bytes",
			Help:      "Configured memory ceiling.",
		}),
		pressure: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pressure_events_total",
			Help:      "Watcher verdicts at warn or critical level.",
		}, []string{"level"}),
	}
}

func (p *PrometheusCollector) observe(op string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	p.ops.WithLabelValues(op, status).Inc()
	p.duration.WithLabelValues(op).Observe(d.Seconds())
}

// RecordAdd implements vaultgraph.MetricsCollector.
func (p *PrometheusCollector) RecordAdd(count int, d time.Duration, err error) {
	p.observe("add", d, err)
	if err == nil {
		p.edgesAdded.Add(float64(count))
	}
}

// RecordQuery implements vaultgraph.MetricsCollector.
func (p *PrometheusCollector) RecordQuery(op string, d time.Duration, err error) {
	p.observe(op, d, err)
}

// RecordUpdate implements vaultgraph.MetricsCollector.
func (p *PrometheusCollector) RecordUpdate(d time.Duration, err error) {
	p.observe("update", d, err)
}

// RecordDelete implements vaultgraph.MetricsCollector.
func (p *PrometheusCollector) RecordDelete(d time.Duration, err error) {
	p.observe("delete", d, err)
}

// RecordPersist implements vaultgraph.MetricsCollector.
func (p *PrometheusCollector) RecordPersist(bytes int, d time.Duration, err error) {
	p.observe("persist", d, err)
	if err == nil {
		p.persistSize.Observe(float64(bytes))
	}
}

// RecordLoad implements vaultgraph.MetricsCollector.
func (p *PrometheusCollector) RecordLoad(bytes int64, d time.Duration, err error) {
	p.observe("load", d, err)
	if err == nil {
		p.loadSize.Observe(float64(bytes))
	}
}

// RecordPressure implements vaultgraph.MetricsCollector.
func (p *PrometheusCollector) RecordPressure(v resource.Verdict) {
	p.memory.Set(float64(v.Used))
	p.memoryLimit.Set(float64(v.Limit))
	if v.Level != resource.PressureNone {
		p.pressure.WithLabelValues(v.Level.String()).Inc()
	}
}
