package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the analytics Prometheus collectors.
type Registry struct {
	reg *prometheus.Registry

	OperationDuration *prometheus.HistogramVec
	Fallbacks         *prometheus.CounterVec
	CacheHits         *prometheus.CounterVec
	CacheMisses       *prometheus.CounterVec
	HTTPRequests      *prometheus.CounterVec
}

// NewRegistry creates a registry with all analytics metrics plus the Go
// runtime and process collectors.
func NewRegistry() *Registry {
	m := &Registry{
		reg: prometheus.NewRegistry(),

		OperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "athena_analytics_operation_duration_seconds",
				Help:    "Duration of analytics operations in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
			[]string{"operation", "result"},
		),

		Fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "athena_analytics_fallbacks_total",
				Help: "Documented fallback values returned for degenerate inputs",
			},
			[]string{"operation", "reason"},
		),

		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "athena_analytics_cache_hits_total",
				Help: "Analytics result cache hits by operation",
			},
			[]string{"operation"},
		),

		CacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "athena_analytics_cache_misses_total",
				Help: "Analytics result cache misses by operation",
			},
			[]string{"operation"},
		),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "athena_http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
	}

	m.reg.MustRegister(
		m.OperationDuration,
		m.Fallbacks,
		m.CacheHits,
		m.CacheMisses,
		m.HTTPRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// OperationTimer times one analytics operation.
type OperationTimer struct {
	registry  *Registry
	operation string
	start     time.Time
}

// StartOperation begins timing an operation.
func (m *Registry) StartOperation(operation string) *OperationTimer {
	return &OperationTimer{registry: m, operation: operation, start: time.Now()}
}

// Stop records the duration with result "success" or "error".
func (t *OperationTimer) Stop(err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	t.registry.OperationDuration.WithLabelValues(t.operation, result).Observe(time.Since(t.start).Seconds())
}

// ObserveFallback counts a documented fallback.
func (m *Registry) ObserveFallback(operation, reason string) {
	m.Fallbacks.WithLabelValues(operation, reason).Inc()
}

// RecordCacheHit increments cache hits for an operation.
func (m *Registry) RecordCacheHit(operation string) {
	m.CacheHits.WithLabelValues(operation).Inc()
}

// RecordCacheMiss increments cache misses for an operation.
func (m *Registry) RecordCacheMiss(operation string) {
	m.CacheMisses.WithLabelValues(operation).Inc()
}

// RecordRequest counts a served HTTP request.
func (m *Registry) RecordRequest(route, code string) {
	m.HTTPRequests.WithLabelValues(route, code).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
