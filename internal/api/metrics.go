package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/archgraph/pkg/observability"
)

const metricsNamespace = "archgraph"

// Metrics collects Prometheus metrics for the server. It implements the
// observability hook interfaces so pipeline, cache and archive events are
// recorded alongside request metrics.
type Metrics struct {
	registry *prometheus.Registry

	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	analyses        *prometheus.CounterVec
	analyzeDuration prometheus.Histogram
	stageDuration   *prometheus.HistogramVec
	graphModules    prometheus.Histogram
	validations     *prometheus.CounterVec
	renderDuration  *prometheus.HistogramVec

	cacheRequests *prometheus.CounterVec
	cacheWrites   *prometheus.CounterVec
	cacheBytes    *prometheus.CounterVec

	archiveWrites *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them, together with the Go
// runtime and process collectors, on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"route", "method", "status_code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "analyses_total",
				Help:      "Total number of analysis runs",
			},
			[]string{"result"},
		),
		analyzeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "analyze_duration_seconds",
				Help:      "Duration of the analysis stage, including cache lookups",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "stage_duration_seconds",
				Help:      "Duration of individual pipeline stages",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"stage"},
		),
		graphModules: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "graph_modules",
				Help:      "Number of modules per analyzed graph",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 7),
			},
		),
		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "validations_total",
				Help:      "Validation outcomes",
			},
			[]string{"valid"},
		),
		renderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "render_duration_seconds",
				Help:      "Duration of diagram and report rendering",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"kind", "format"},
		),
		cacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "cache",
				Name:      "requests_total",
				Help:      "Cache lookups by key type and result",
			},
			[]string{"type", "result"},
		),
		cacheWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "cache",
				Name:      "writes_total",
				Help:      "Cache writes by key type",
			},
			[]string{"type"},
		),
		cacheBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "cache",
				Name:      "written_bytes_total",
				Help:      "Bytes written to the cache by key type",
			},
			[]string{"type"},
		),
		archiveWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "archive",
				Name:      "writes_total",
				Help:      "Archived runs by result",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestCount,
		m.requestDuration,
		m.analyses,
		m.analyzeDuration,
		m.stageDuration,
		m.graphModules,
		m.validations,
		m.renderDuration,
		m.cacheRequests,
		m.cacheWrites,
		m.cacheBytes,
		m.archiveWrites,
	)
	return m
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Register installs m as the global pipeline, cache and archive hooks.
func (m *Metrics) Register() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetStoreHooks(m)
}

func (m *Metrics) observeRequest(route, method string, status int, d time.Duration) {
	m.requestCount.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// =============================================================================
// observability.PipelineHooks
// =============================================================================

func (m *Metrics) OnAnalyzeStart(_ context.Context, nodeCount, _ int) {
	m.graphModules.Observe(float64(nodeCount))
}

func (m *Metrics) OnStageComplete(_ context.Context, stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *Metrics) OnAnalyzeComplete(_ context.Context, _ int, d time.Duration, err error) {
	m.analyses.WithLabelValues(resultLabel(err)).Inc()
	m.analyzeDuration.Observe(d.Seconds())
}

func (m *Metrics) OnValidation(_ context.Context, valid bool, _, _ int) {
	m.validations.WithLabelValues(strconv.FormatBool(valid)).Inc()
}

func (m *Metrics) OnRenderStart(context.Context, string, string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, kind, format string, d time.Duration, _ error) {
	m.renderDuration.WithLabelValues(kind, format).Observe(d.Seconds())
}

// =============================================================================
// observability.CacheHooks
// =============================================================================

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheWrites.WithLabelValues(keyType).Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// =============================================================================
// observability.StoreHooks
// =============================================================================

func (m *Metrics) OnSave(_ context.Context, _ string, _ time.Duration, err error) {
	m.archiveWrites.WithLabelValues(resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.StoreHooks    = (*Metrics)(nil)
)
