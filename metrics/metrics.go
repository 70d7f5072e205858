// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"robot-maze-server/pathfinding"
)

const namespace = "robot_maze"

// Metrics groups every collector of the server. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	Searches       *prometheus.CounterVec
	SearchDuration prometheus.Histogram
	SearchExplored prometheus.Histogram
	StaleEntries   prometheus.Counter
	Sessions       prometheus.Gauge
	Runs           *prometheus.CounterVec
	WSConnections  prometheus.Gauge
	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
}

// New creates the collectors on a private registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Path searches by result.",
		}, []string{"result"}),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Time spent in a single path search.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		SearchExplored: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_explored_cells",
			Help:      "Cells expanded per path search.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 11),
		}),
		StaleEntries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_stale_entries_total",
			Help:      "Outdated open-set entries discarded during searches.",
		}),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Simulation sessions currently held by the manager.",
		}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_finished_total",
			Help:      "Simulation runs that ended, by outcome.",
		}, []string{"outcome"}),
		WSConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_connections",
			Help:      "Open WebSocket connections.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		m.Searches, m.SearchDuration, m.SearchExplored, m.StaleEntries,
		m.Sessions, m.Runs, m.WSConnections,
		m.HTTPRequests, m.HTTPDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry for gathering in tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveSearch records one path search. It matches the signature expected
// by pathfinding.WithObserver.
func (m *Metrics) ObserveSearch(s pathfinding.Stats) {
	if m == nil {
		return
	}
	result := "not_found"
	if s.Found {
		result = "found"
	}
	m.Searches.WithLabelValues(result).Inc()
	m.SearchDuration.Observe(s.Duration.Seconds())
	m.SearchExplored.Observe(float64(s.Explored))
	m.StaleEntries.Add(float64(s.Stale))
}

// RunFinished counts a run ending with the given outcome.
func (m *Metrics) RunFinished(outcome string) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(outcome).Inc()
}

// SetSessions sets the active session gauge.
func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.Sessions.Set(float64(n))
}

// ConnOpened and ConnClosed track WebSocket connections.
func (m *Metrics) ConnOpened() {
	if m != nil {
		m.WSConnections.Inc()
	}
}

func (m *Metrics) ConnClosed() {
	if m != nil {
		m.WSConnections.Dec()
	}
}

// Middleware records request counts and latency keyed by the chi route
// pattern, so path parameters do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
