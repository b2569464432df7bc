package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/okplanar/pkg/observability"
)

const metricsNamespace = "okplanar"

// Metrics implements the observability hooks with Prometheus collectors on
// a private registry.
type Metrics struct {
	registry *prometheus.Registry

	solvesTotal    *prometheus.CounterVec
	solveDuration  *prometheus.HistogramVec
	boundsRaised   *prometheus.CounterVec
	crossingNumber prometheus.Histogram
	blocksSolved   prometheus.Counter

	cacheOps       *prometheus.CounterVec
	cacheSetBytes  *prometheus.CounterVec
	requestsTotal  *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewMetrics creates and registers every collector.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		solvesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "solver",
			Name:      "solves_total",
			Help:      "Top-level solve calls by method and outcome.",
		}, []string{"method", "status"}),
		solveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "solver",
			Name:      "solve_duration_seconds",
			Help:      "Wall time of Solve calls.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"method"}),
		boundsRaised: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "solver",
			Name:      "bounds_tried_total",
			Help:      "Trial crossing bounds searched.",
		}, []string{"method"}),
		crossingNumber: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "solver",
			Name:      "crossing_number",
			Help:      "Crossing numbers of solved graphs.",
			Buckets:   prometheus.LinearBuckets(0, 1, 16),
		}),
		blocksSolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "solver",
			Name:      "blocks_solved_total",
			Help:      "Biconnected components solved by the block-cut driver.",
		}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Cache lookups and writes by key type.",
		}, []string{"key_type", "op"}),
		cacheSetBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache by key type.",
		}, []string{"key_type"}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	m.registry.MustRegister(
		m.solvesTotal, m.solveDuration, m.boundsRaised, m.crossingNumber, m.blocksSolved,
		m.cacheOps, m.cacheSetBytes, m.requestsTotal, m.requestLatency,
	)
	return m
}

// Install registers m as the process-wide solver, cache and server hooks.
func (m *Metrics) Install() {
	observability.SetSolverHooks(m)
	observability.SetCacheHooks(m)
	observability.SetServerHooks(m)
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) OnSolveStart(context.Context, string, int, int) {}

func (m *Metrics) OnBoundRaised(_ context.Context, method string, _ int) {
	m.boundsRaised.WithLabelValues(method).Inc()
}

func (m *Metrics) OnComponentSolved(context.Context, int, int) {
	m.blocksSolved.Inc()
}

func (m *Metrics) OnSolveComplete(_ context.Context, method string, k int, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	} else {
		m.crossingNumber.Observe(float64(k))
	}
	m.solvesTotal.WithLabelValues(method, status).Inc()
	m.solveDuration.WithLabelValues(method).Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
	m.cacheSetBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestLatency.WithLabelValues(method, route).Observe(d.Seconds())
}
