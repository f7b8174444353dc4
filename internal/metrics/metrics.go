// Package metrics provides centralized Prometheus metrics registry for the DCF simulator.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dcf_simulator"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	ValuationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "valuations_total",
		Help:      "Total number of deterministic valuations by status",
	}, []string{"status"})
	ScenarioWritesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scenario_writes_total",
		Help:      "Total number of scenario saves by store",
	}, []string{"store"})
)

// Gauge metrics
var (
	ScenarioSharePrice = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scenario_share_price",
		Help:      "Most recent deterministic share price per scenario",
	}, []string{"scenario_id"})
	ScenariosLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scenarios_loaded",
		Help:      "Number of scenarios available to the API",
	})
)

// Histogram metrics
var (
	ValuationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "valuation_duration_seconds",
		Help:      "Duration of deterministic valuations in seconds",
		Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(ValuationsTotal)
		registry.MustRegister(ScenarioWritesTotal)

		registry.MustRegister(ScenarioSharePrice)
		registry.MustRegister(ScenariosLoaded)

		registry.MustRegister(ValuationDuration)

		// Monte Carlo metrics
		registry.MustRegister(MonteCarloRunsTotal)
		registry.MustRegister(MonteCarloIterationsTotal)
		registry.MustRegister(MonteCarloDuration)
		registry.MustRegister(MonteCarloMedianPrice)

		// HTTP metrics
		registry.MustRegister(HTTPRequestsTotal)
		registry.MustRegister(HTTPRequestDuration)
		registry.MustRegister(CacheLookupsTotal)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordValuation records a deterministic valuation. status is "success" or "invalid".
func RecordValuation(status string, durationSeconds float64) {
	ValuationsTotal.WithLabelValues(status).Inc()
	if status == StatusSuccess {
		ValuationDuration.Observe(durationSeconds)
	}
}

// UpdateScenarioSharePrice updates the share price gauge for a scenario.
func UpdateScenarioSharePrice(scenarioID string, price float64) {
	ScenarioSharePrice.WithLabelValues(scenarioID).Set(price)
}

// UpdateScenariosLoaded sets the number of available scenarios.
func UpdateScenariosLoaded(count int) {
	ScenariosLoaded.Set(float64(count))
}

// RecordScenarioWrite records a scenario save.
func RecordScenarioWrite(store string) {
	ScenarioWritesTotal.WithLabelValues(store).Inc()
}
