// Package metrics exposes Prometheus instruments for the HTTP service.
// The search engines never touch these; handlers record after each call.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeSolved   = "solved"
	OutcomeError    = "error"
)

var (
	searchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "informed_search_searches_total",
		Help: "Total searches by algorithm and outcome",
	}, []string{"algorithm", "outcome"})

	nodesExpanded = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "informed_search_nodes_expanded",
		Help:    "Nodes expanded or solved per search",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	}, []string{"algorithm"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "informed_search_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status code",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "code"})

	searchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "informed_search_duration_seconds",
		Help:    "Search latency",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1},
	}, []string{"algorithm"})
)

// ObserveSearch records one search
func ObserveSearch(algorithm, outcome string, expanded int, elapsed time.Duration) {
	searchesTotal.WithLabelValues(algorithm, outcome).Inc()
	if outcome != OutcomeError {
		nodesExpanded.WithLabelValues(algorithm).Observe(float64(expanded))
	}
	searchDuration.WithLabelValues(algorithm).Observe(elapsed.Seconds())
}

// ObserveRequest records one HTTP request
func ObserveRequest(route string, status int, elapsed time.Duration) {
	requestDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
