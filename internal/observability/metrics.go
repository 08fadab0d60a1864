// Package observability exposes Prometheus metrics for evaluations and HTTP traffic.
package observability

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sandbox_validator"

var (
	// evaluationsTotal counts evaluations.
	// Labels: outcome (ok, invalid, internal), cache (hit, miss, off)
	evaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "evaluations_total",
		Help:      "Evaluations by outcome and cache result",
	}, []string{"outcome", "cache"})

	// evaluationScore tracks the distribution of aggregate scores.
	evaluationScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "score",
		Help:      "Distribution of aggregate evaluation scores",
		Buckets:   []float64{10, 20, 30, 40, 50, 60, 65, 70, 75, 80, 90, 100},
	})

	// evaluationPhase counts recommended phases.
	// Labels: phase (1, 2, 3)
	evaluationPhase = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "phase_total",
		Help:      "Recommended phases",
	}, []string{"phase"})

	// evaluationDuration measures time spent evaluating one record.
	evaluationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "duration_seconds",
		Help:      "Evaluation latency in seconds",
		Buckets:   []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.005, 0.01},
	})

	// ticketsTotal counts minted tickets.
	// Labels: classification
	ticketsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ticket",
		Name:      "minted_total",
		Help:      "Tickets minted by classification",
	}, []string{"classification"})

	// kbSearchesTotal counts knowledge-base searches.
	// Labels: fallback (true when no snippet matched)
	kbSearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "kb",
		Name:      "searches_total",
		Help:      "Knowledge-base searches",
	}, []string{"fallback"})

	// httpRequests counts HTTP requests.
	// Labels: method, route, status
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	// httpLatency measures HTTP request latency.
	// Labels: method, route
	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// rateLimited counts requests rejected by the rate limiter.
	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the per-client rate limiter",
	})
)

// Cache outcomes for RecordEvaluation.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
	CacheOff  = "off"
)

// Evaluation outcomes for RecordEvaluation.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeInternal = "internal"
)

// RecordEvaluation records one evaluation attempt.
func RecordEvaluation(outcome, cache string) {
	evaluationsTotal.WithLabelValues(outcome, cache).Inc()
}

// RecordResult records the score and phase of a successful evaluation.
func RecordResult(score, phase int, durationSec float64) {
	evaluationScore.Observe(float64(score))
	evaluationPhase.WithLabelValues(strconv.Itoa(phase)).Inc()
	evaluationDuration.Observe(durationSec)
}

// RecordTicket records a minted ticket.
func RecordTicket(classification string) {
	ticketsTotal.WithLabelValues(classification).Inc()
}

// RecordKBSearch records a knowledge-base search.
func RecordKBSearch(fallback bool) {
	kbSearchesTotal.WithLabelValues(strconv.FormatBool(fallback)).Inc()
}

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(method, route string, status int, durationSec float64) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpLatency.WithLabelValues(method, route).Observe(durationSec)
}

// RecordRateLimited records a rejected request.
func RecordRateLimited() {
	rateLimited.Inc()
}

// Handler serves the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
