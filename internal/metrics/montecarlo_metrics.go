// Package metrics defines Monte Carlo and HTTP metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Run statuses
const (
	StatusSuccess   = "success"
	StatusInvalid   = "invalid"
	StatusCancelled = "cancelled"
)

// Monte Carlo metrics
var (
	MonteCarloRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "monte_carlo_runs_total",
		Help:      "Total number of Monte Carlo runs by status",
	}, []string{"status"})
	MonteCarloIterationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "monte_carlo_iterations_total",
		Help:      "Total number of Monte Carlo iterations evaluated",
	})
	MonteCarloDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "monte_carlo_duration_seconds",
		Help:      "Duration of Monte Carlo runs in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	})
	MonteCarloMedianPrice = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "monte_carlo_median_share_price",
		Help:      "Median sampled share price of the latest run per scenario",
	}, []string{"scenario_id"})
)

// HTTP metrics
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of API requests by route and status code",
	}, []string{"route", "code"})
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "API request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
	CacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "result_cache_lookups_total",
		Help:      "Monte Carlo result cache lookups by outcome",
	}, []string{"outcome"})
)

// RecordMonteCarloRun records a Monte Carlo run. Iterations and duration are
// only observed for successful runs.
func RecordMonteCarloRun(status string, iterations int, durationSeconds float64) {
	MonteCarloRunsTotal.WithLabelValues(status).Inc()
	if status != StatusSuccess {
		return
	}
	MonteCarloIterationsTotal.Add(float64(iterations))
	MonteCarloDuration.Observe(durationSeconds)
}

// UpdateMonteCarloMedian updates the median price gauge for a scenario.
func UpdateMonteCarloMedian(scenarioID string, median float64) {
	MonteCarloMedianPrice.WithLabelValues(scenarioID).Set(median)
}

// RecordHTTPRequest records an API request.
func RecordHTTPRequest(route, code string, durationSeconds float64) {
	HTTPRequestsTotal.WithLabelValues(route, code).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(durationSeconds)
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	CacheLookupsTotal.WithLabelValues(outcome).Inc()
}
