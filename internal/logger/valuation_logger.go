// Package logger provides valuation-specific logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/dcf-simulator/internal/models"
)

// ValuationLogger provides dedicated logging for valuation runs.
type ValuationLogger struct {
	*logrus.Entry
}

// NewValuationLogger creates a new valuation logger.
func NewValuationLogger(baseLogger *logrus.Logger) *ValuationLogger {
	return &ValuationLogger{
		Entry: baseLogger.WithField("component", "valuation"),
	}
}

// LogValuation logs a deterministic valuation.
func (vl *ValuationLogger) LogValuation(scenarioID string, result models.ValuationResult, duration time.Duration) {
	vl.WithFields(logrus.Fields{
		"scenario_id":      scenarioID,
		"share_price":      result.SharePrice,
		"enterprise_value": result.EnterpriseValue,
		"equity_value":     result.EquityValue,
		"duration_ms":      float64(duration.Microseconds()) / 1000,
	}).Info("Valuation computed")
}

// LogMonteCarlo logs a completed Monte Carlo run.
func (vl *ValuationLogger) LogMonteCarlo(runID, scenarioID string, workers int, dist *models.MonteCarloDistribution, duration time.Duration) {
	if dist == nil {
		return
	}
	vl.WithFields(logrus.Fields{
		"run_id":      runID,
		"scenario_id": scenarioID,
		"iterations":  dist.Iterations,
		"seed":        dist.Seed,
		"workers":     workers,
		"p10":         dist.P10,
		"median":      dist.Median,
		"p90":         dist.P90,
		"duration_ms": float64(duration.Microseconds()) / 1000,
	}).Info("Monte Carlo completed")
}

// LogRejectedParameters logs parameters that failed validation.
func (vl *ValuationLogger) LogRejectedParameters(scenarioID string, err error) {
	vl.WithFields(logrus.Fields{
		"scenario_id": scenarioID,
		"error":       err.Error(),
	}).Warn("Valuation parameters rejected")
}
