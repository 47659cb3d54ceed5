// Package metrics exposes Prometheus instrumentation for the insights
// service. A nil *Manager is valid and records nothing, so callers never
// need to guard their instrumentation calls.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager holds every Prometheus collector for the service.
type Manager struct {
	registry *prometheus.Registry

	generationTotal   *prometheus.CounterVec
	generationLatency *prometheus.HistogramVec
	insightsEmitted   *prometheus.CounterVec

	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewManager creates a Manager with its own registry.
func NewManager(namespace string) *Manager {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Manager{
		registry: registry,

		generationTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insight_generations_total",
			Help:      "Insight pipeline runs, by requested type.",
		}, []string{"type"}),
		generationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "insight_generation_seconds",
			Help:      "Wall time of one pipeline run, by requested type.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"type"}),
		insightsEmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insights_emitted_total",
			Help:      "Insights emitted across runs, by requested type.",
		}, []string{"type"}),

		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insight_cache_hits_total",
			Help:      "Insight runs served from cache.",
		}),
		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insight_cache_misses_total",
			Help:      "Insight runs recomputed on cache miss.",
		}),

		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by method, route, and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_seconds",
			Help:      "HTTP request latency, by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// ObserveGeneration records one completed pipeline run.
func (m *Manager) ObserveGeneration(insightType string, d time.Duration, emitted int) {
	if m == nil {
		return
	}
	m.generationTotal.WithLabelValues(insightType).Inc()
	m.generationLatency.WithLabelValues(insightType).Observe(d.Seconds())
	m.insightsEmitted.WithLabelValues(insightType).Add(float64(emitted))
}

// IncCacheHit counts an insight run served from cache.
func (m *Manager) IncCacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

// IncCacheMiss counts an insight run recomputed on cache miss.
func (m *Manager) IncCacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

// RecordHTTP records one served HTTP request.
func (m *Manager) RecordHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler returns the scrape endpoint for this manager's registry.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
