// Package metrics exposes Prometheus metrics for recommendations and HTTP
// traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recommendation outcomes.
const (
	OutcomeOK           = "ok"
	OutcomeFallback     = "fallback"
	OutcomeNoStock      = "no_stock"
	OutcomeEmptyCatalog = "empty_catalog"
	OutcomeNoMatch      = "no_match"
	OutcomeInvalid      = "invalid"
	OutcomeError        = "error"
)

// Manager owns the service's collectors.
type Manager struct {
	namespace      string
	latencyBuckets []float64
	registry       *prometheus.Registry

	recommendations  *prometheus.CounterVec
	candidates       prometheus.Histogram
	rankingDuration  prometheus.Histogram
	httpRequests     *prometheus.CounterVec
	httpRequestTimes *prometheus.HistogramVec
}

// NewManager creates a Manager. Without WithRegistry the metrics live on a
// private registry that also carries the Go and process collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "medlocator",
		latencyBuckets: prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	auto := promauto.With(m.registry)
	m.recommendations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "recommendations_total",
		Help:      "Recommendation requests by outcome",
	}, []string{"outcome"})

	m.candidates = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "recommendation_candidates",
		Help:      "Number of stocking stores ranked per recommendation",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})

	m.rankingDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "recommendation_duration_seconds",
		Help:      "Time spent producing a recommendation, including catalog reads",
		Buckets:   m.latencyBuckets,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code",
	}, []string{"route", "method", "status_code"})

	m.httpRequestTimes = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration by route, method and status code",
		Buckets:   m.latencyBuckets,
	}, []string{"route", "method", "status_code"})

	return m
}

// Registry returns the registry the metrics are registered on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRecommendation counts one recommendation. candidates and elapsed are
// only observed for successful outcomes.
func (m *Manager) RecordRecommendation(outcome string, candidates int, elapsed time.Duration) {
	m.recommendations.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK || outcome == OutcomeFallback {
		m.candidates.Observe(float64(candidates))
		m.rankingDuration.Observe(elapsed.Seconds())
	}
}

// Middleware records request counts and latency keyed by the chi route
// pattern, so path parameters do not explode label cardinality.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		code := strconv.Itoa(status)
		m.httpRequests.WithLabelValues(route, r.Method, code).Inc()
		m.httpRequestTimes.WithLabelValues(route, r.Method, code).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
