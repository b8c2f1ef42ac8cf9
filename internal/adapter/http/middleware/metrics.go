package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "ledgerdash"

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2.5, 10),
		},
		[]string{"method", "route"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "HTTP requests being served.",
		},
	)
)

// Metrics records request count, latency and concurrency per route.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		ww := wrapWriter(w, r)
		timer := prometheus.NewTimer(prometheus.ObserverFunc(func(seconds float64) {
			httpRequestDuration.WithLabelValues(r.Method, routePattern(r)).Observe(seconds)
		}))

		next.ServeHTTP(ww, r)

		timer.ObserveDuration()
		httpRequestsTotal.WithLabelValues(r.Method, routePattern(r), strconv.Itoa(statusOf(ww))).Inc()
	})
}

// routePattern labels requests by their matched chi route so IDs do not
// become label values. Unmatched requests share one label.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return normalizePath(r.URL.Path)
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return "unmatched"
}

// normalizePath replaces the ID segment after a collection name.
// /api/v1/accounts/01ABC123/reconcile -> /api/v1/accounts/{id}/reconcile
func normalizePath(path string) string {
	const prefix = "/api/v1/"
	rest, ok := strings.CutPrefix(path, prefix)
	if !ok {
		return path
	}

	collection, tail, found := strings.Cut(rest, "/")
	if !found || tail == "" {
		return path
	}

	suffix := ""
	if i := strings.IndexByte(tail, '/'); i >= 0 {
		suffix = tail[i:]
	}
	return prefix + collection + "/{id}" + suffix
}

