// Package metrics holds the Prometheus collectors for the API and its providers.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for provider calls.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics is nil-safe: a nil *Metrics or one built without a registerer records nothing.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	lookups         *prometheus.CounterVec
	watchlist       *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "moviewatch_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"method", "route", "status"})
	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "moviewatch_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "moviewatch_movie_lookups_total",
		Help: "Movie provider calls by operation and outcome.",
	}, []string{"op", "outcome"})
	watchlist := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "moviewatch_watchlist_toggles_total",
		Help: "Watchlist toggles by result.",
	}, []string{"result"})
	reg.MustRegister(requests, requestDuration, lookups, watchlist)

	return &Metrics{
		requests:        requests,
		requestDuration: requestDuration,
		lookups:         lookups,
		watchlist:       watchlist,
	}
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string, d time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	route = normalizeLabel(route)
	m.requests.WithLabelValues(method, route, status).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveLookup records one movie provider call.
func (m *Metrics) ObserveLookup(op string, err error) {
	if m == nil || m.lookups == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.lookups.WithLabelValues(normalizeLabel(op), outcome).Inc()
}

// ObserveToggle records a watchlist toggle result: "saved", "removed", "conflict" or "error".
func (m *Metrics) ObserveToggle(result string) {
	if m == nil || m.watchlist == nil {
		return
	}
	m.watchlist.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
