// Package service coordinates scenarios, the valuation engine and the sampler
// for the CLI and the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/dcf-simulator/internal/logger"
	"github.com/yourusername/dcf-simulator/internal/metrics"
	"github.com/yourusername/dcf-simulator/internal/models"
	"github.com/yourusername/dcf-simulator/internal/repository"
	"github.com/yourusername/dcf-simulator/internal/simulation"
	"github.com/yourusername/dcf-simulator/internal/valuation"
)

// CustomScenarioID labels ad-hoc parameter sets that are not stored.
const CustomScenarioID = "custom"

// Request selects a stored scenario or supplies parameters directly. Params
// take precedence; ScenarioID then only supplies the name and notes.
type Request struct {
	ScenarioID string                      `json:"scenario_id,omitempty"`
	Params     *models.ValuationParameters `json:"params,omitempty"`
}

// SimulationRun is a Monte Carlo report tagged with its run id.
type SimulationRun struct {
	RunID   string `json:"run_id"`
	Workers int    `json:"workers"`
	simulation.Report
}

// ScenarioSummary is a scenario with its revenue preview.
type ScenarioSummary struct {
	models.Scenario
	RevenuePreview []valuation.YearRevenue `json:"revenue_preview"`
}

// Reference bundles the display-only history and market data with the EBIT
// series for a scenario.
type Reference struct {
	ScenarioID string                  `json:"scenario_id"`
	History    []models.HistoricalYear `json:"history"`
	Market     models.MarketReference  `json:"market"`
	EBITSeries []valuation.EBITPoint   `json:"ebit_series"`
}

// Options configures a ValuationService.
type Options struct {
	DefaultScenario string
	History         []models.HistoricalYear
	Market          models.MarketReference
}

// ValuationService runs valuations against stored scenarios
type ValuationService struct {
	scenarios       repository.ScenarioRepository
	valuationLog    *logger.ValuationLogger
	auditLog        *logger.AuditLogger
	logger          *logrus.Logger
	defaultScenario string
	history         []models.HistoricalYear
	market          models.MarketReference
	now             func() time.Time
	newRunID        func() string
}

// NewValuationService creates a new valuation service
func NewValuationService(
	scenarios repository.ScenarioRepository,
	opts Options,
	log *logrus.Logger,
) *ValuationService {
	return &ValuationService{
		scenarios:       scenarios,
		valuationLog:    logger.NewValuationLogger(log),
		auditLog:        logger.NewAuditLogger(log),
		logger:          log,
		defaultScenario: opts.DefaultScenario,
		history:         opts.History,
		market:          opts.Market,
		now:             time.Now,
		newRunID:        uuid.NewString,
	}
}

// Resolve turns a request into the scenario to value
func (s *ValuationService) Resolve(ctx context.Context, req Request) (models.Scenario, error) {
	id := req.ScenarioID
	if req.Params == nil {
		if id == "" {
			id = s.defaultScenario
		}
		return s.scenarios.Get(ctx, id)
	}

	custom := models.Scenario{ID: CustomScenarioID, Name: "Custom", Params: *req.Params}
	if id == "" {
		return custom, nil
	}
	stored, err := s.scenarios.Get(ctx, id)
	if errors.Is(err, models.ErrScenarioNotFound) {
		custom.ID = id
		return custom, nil
	}
	if err != nil {
		return models.Scenario{}, err
	}
	stored.Params = *req.Params
	return stored, nil
}

// Value runs the deterministic DCF for a scenario
func (s *ValuationService) Value(ctx context.Context, sc models.Scenario) (simulation.Report, error) {
	start := s.now()
	result, err := valuation.CalculateValuation(sc.Params)
	elapsed := s.now().Sub(start)
	if err != nil {
		metrics.RecordValuation(metrics.StatusInvalid, elapsed.Seconds())
		s.valuationLog.LogRejectedParameters(sc.ID, err)
		return simulation.Report{}, err
	}

	metrics.RecordValuation(metrics.StatusSuccess, elapsed.Seconds())
	metrics.UpdateScenarioSharePrice(sc.ID, result.SharePrice)
	s.valuationLog.LogValuation(sc.ID, result, elapsed)
	return simulation.NewReport(sc, result, s.market), nil
}

// Simulate runs the Monte Carlo sampler for a scenario
func (s *ValuationService) Simulate(ctx context.Context, sc models.Scenario, cfg simulation.Config) (SimulationRun, error) {
	runID := s.newRunID()
	start := s.now()
	result, err := simulation.RunMonteCarlo(ctx, sc.Params, cfg)
	elapsed := s.now().Sub(start)
	if err != nil {
		status := metrics.StatusInvalid
		if ctx.Err() != nil {
			status = metrics.StatusCancelled
		}
		metrics.RecordMonteCarloRun(status, cfg.Iterations, elapsed.Seconds())
		s.valuationLog.LogRejectedParameters(sc.ID, err)
		return SimulationRun{}, err
	}

	workers := simulation.EffectiveWorkers(cfg.Workers, cfg.Iterations)
	dist := result.MonteCarloDistribution
	metrics.RecordMonteCarloRun(metrics.StatusSuccess, dist.Iterations, elapsed.Seconds())
	metrics.UpdateMonteCarloMedian(sc.ID, dist.Median)
	s.valuationLog.LogMonteCarlo(runID, sc.ID, workers, dist, elapsed)

	return SimulationRun{
		RunID:   runID,
		Workers: workers,
		Report:  simulation.NewReport(sc, result, s.market),
	}, nil
}

// ListScenarios returns every stored scenario with its revenue preview
func (s *ValuationService) ListScenarios(ctx context.Context) ([]ScenarioSummary, error) {
	scenarios, err := s.scenarios.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	metrics.UpdateScenariosLoaded(len(scenarios))

	out := make([]ScenarioSummary, 0, len(scenarios))
	for _, sc := range scenarios {
		out = append(out, summarize(sc))
	}
	return out, nil
}

// GetScenario returns one scenario with its revenue preview
func (s *ValuationService) GetScenario(ctx context.Context, id string) (ScenarioSummary, error) {
	sc, err := s.scenarios.Get(ctx, id)
	if err != nil {
		return ScenarioSummary{}, err
	}
	return summarize(sc), nil
}

// SaveScenario validates and stores a scenario. It reports whether the id was new.
func (s *ValuationService) SaveScenario(ctx context.Context, sc models.Scenario) (bool, error) {
	if err := valuation.ValidateScenario(sc); err != nil {
		s.valuationLog.LogRejectedParameters(sc.ID, err)
		return false, err
	}

	created, err := s.scenarios.Save(ctx, sc)
	if err != nil {
		return false, fmt.Errorf("failed to save scenario %s: %w", sc.ID, err)
	}

	metrics.RecordScenarioWrite(s.scenarios.Kind())
	s.auditLog.LogScenarioSaved(sc.ID, sc.Name, s.scenarios.Kind(), created, s.now())
	return created, nil
}

// Reference returns history, market data and the EBIT series for a scenario
func (s *ValuationService) Reference(ctx context.Context, id string) (Reference, error) {
	sc, err := s.Resolve(ctx, Request{ScenarioID: id})
	if err != nil {
		return Reference{}, err
	}
	result, err := valuation.CalculateValuation(sc.Params)
	if err != nil {
		return Reference{}, err
	}

	return Reference{
		ScenarioID: sc.ID,
		History:    s.history,
		Market:     s.market,
		EBITSeries: valuation.EBITSeries(result, s.history),
	}, nil
}

// RevalueAll values every stored scenario, refreshing the per-scenario price
// gauges. Invalid scenarios are skipped and reported in the returned error.
func (s *ValuationService) RevalueAll(ctx context.Context) (int, error) {
	scenarios, err := s.scenarios.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list scenarios: %w", err)
	}
	metrics.UpdateScenariosLoaded(len(scenarios))

	valued := 0
	var errs []error
	for _, sc := range scenarios {
		if err := ctx.Err(); err != nil {
			return valued, err
		}
		if _, err := s.Value(ctx, sc); err != nil {
			errs = append(errs, err)
			continue
		}
		valued++
	}
	return valued, errors.Join(errs...)
}

// Market returns the market reference used for comparisons
func (s *ValuationService) Market() models.MarketReference {
	return s.market
}

func summarize(sc models.Scenario) ScenarioSummary {
	return ScenarioSummary{
		Scenario:       sc,
		RevenuePreview: valuation.RevenuePreview(sc.Params),
	}
}
