// Package metrics registers the Prometheus instruments for the service and
// provides the HTTP middleware that feeds the request-level ones.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts HTTP requests by route pattern, method and status.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tracknarino",
		Name:      "http_requests_total",
		Help:      "HTTP requests processed, labeled by route, method and status.",
	}, []string{"route", "method", "status"})

	// RequestDuration observes request latency by route pattern.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tracknarino",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	// TransitionsTotal counts opportunity lifecycle transitions by outcome.
	TransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tracknarino",
		Name:      "opportunity_transitions_total",
		Help:      "Opportunity lifecycle transitions, labeled by transition and result.",
	}, []string{"transition", "result"})

	// NotificationsTotal counts push dispatch attempts by outcome.
	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tracknarino",
		Name:      "notifications_total",
		Help:      "Push notification dispatch attempts, labeled by result.",
	}, []string{"result"})

	// RouteLookupsTotal counts OSRM route lookups by outcome.
	RouteLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tracknarino",
		Name:      "route_lookups_total",
		Help:      "Route lookups against the routing engine, labeled by result.",
	}, []string{"result"})
)

// Middleware records request counts and latency. It reads the chi route
// pattern after the handler runs so labels stay low-cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		RequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).Inc()
		RequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler { return promhttp.Handler() }
