// Package api exposes the valuation engine and the Monte Carlo sampler as a
// JSON HTTP API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/dcf-simulator/internal/metrics"
	"github.com/yourusername/dcf-simulator/internal/models"
	"github.com/yourusername/dcf-simulator/internal/service"
	"github.com/yourusername/dcf-simulator/internal/simulation"
)

const maxBodyBytes = 1 << 20

var (
	errRateLimited  = errors.New("rate limit exceeded")
	errIDMismatch   = errors.New("scenario id in body does not match path")
	errInvalidInput = errors.New("invalid request body")
)

// MonteCarloRequest selects the scenario and overrides the configured sampler
// settings. Zero values keep the configured defaults.
type MonteCarloRequest struct {
	service.Request
	Iterations int    `json:"iterations,omitempty"`
	Seed       uint64 `json:"seed,omitempty"`
	Workers    int    `json:"workers,omitempty"`
}

// MonteCarloResponse is a run plus whether it was served from the cache.
type MonteCarloResponse struct {
	service.SimulationRun
	Cached bool `json:"cached"`
}

// SaveScenarioResponse is returned by PUT /api/scenarios/{id}.
type SaveScenarioResponse struct {
	Created  bool                    `json:"created"`
	Scenario service.ScenarioSummary `json:"scenario"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler serves the valuation API
type Handler struct {
	svc      *service.ValuationService
	cache    *ResultCache
	defaults simulation.Config
	logger   *logrus.Logger
}

// NewHandler creates a new API handler. cache may be nil.
func NewHandler(svc *service.ValuationService, cache *ResultCache, defaults simulation.Config, logger *logrus.Logger) *Handler {
	return &Handler{
		svc:      svc,
		cache:    cache,
		defaults: defaults,
		logger:   logger,
	}
}

// Register mounts the API routes on mux. limiter guards the Monte Carlo route
// and may be nil.
func (h *Handler) Register(mux *http.ServeMux, limiter *rate.Limiter) {
	mux.Handle("POST /api/valuation", instrument("valuation", http.HandlerFunc(h.handleValuation)))
	mux.Handle("POST /api/montecarlo", instrument("montecarlo", RateLimit(limiter, http.HandlerFunc(h.handleMonteCarlo))))
	mux.Handle("GET /api/scenarios", instrument("scenarios_list", http.HandlerFunc(h.handleListScenarios)))
	mux.Handle("GET /api/scenarios/{id}", instrument("scenarios_get", http.HandlerFunc(h.handleGetScenario)))
	mux.Handle("PUT /api/scenarios/{id}", instrument("scenarios_put", http.HandlerFunc(h.handlePutScenario)))
	mux.Handle("GET /api/reference", instrument("reference", http.HandlerFunc(h.handleReference)))
}

func (h *Handler) handleValuation(w http.ResponseWriter, r *http.Request) {
	var req service.Request
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sc, err := h.svc.Resolve(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	report, err := h.svc.Value(r.Context(), sc)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleMonteCarlo(w http.ResponseWriter, r *http.Request) {
	var req MonteCarloRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sc, err := h.svc.Resolve(r.Context(), req.Request)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	cfg := h.samplerConfig(req)
	if err := cfg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var key CacheKey
	cacheable := h.cache != nil && cfg.Seed != 0
	if cacheable {
		if key, err = NewCacheKey(sc, cfg.Seed, cfg.Iterations); err != nil {
			h.writeServiceError(w, err)
			return
		}
		if run, ok := h.cache.Get(key); ok {
			writeJSON(w, http.StatusOK, MonteCarloResponse{SimulationRun: run, Cached: true})
			return
		}
	}

	run, err := h.svc.Simulate(r.Context(), sc, cfg)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if cacheable {
		h.cache.Set(key, run)
	}
	writeJSON(w, http.StatusOK, MonteCarloResponse{SimulationRun: run})
}

func (h *Handler) samplerConfig(req MonteCarloRequest) simulation.Config {
	cfg := h.defaults
	if req.Iterations != 0 {
		cfg.Iterations = req.Iterations
	}
	if req.Seed != 0 {
		cfg.Seed = req.Seed
	}
	if req.Workers != 0 {
		cfg.Workers = req.Workers
	}
	return cfg
}

func (h *Handler) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListScenarios(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.GetScenario(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) handlePutScenario(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var sc models.Scenario
	if err := decodeJSON(w, r, &sc); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if sc.ID == "" {
		sc.ID = id
	}
	if sc.ID != id {
		writeError(w, http.StatusBadRequest, errIDMismatch)
		return
	}

	created, err := h.svc.SaveScenario(r.Context(), sc)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	saved, err := h.svc.GetScenario(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, SaveScenarioResponse{Created: created, Scenario: saved})
}

func (h *Handler) handleReference(w http.ResponseWriter, r *http.Request) {
	ref, err := h.svc.Reference(r.Context(), r.URL.Query().Get("scenario"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ref)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrScenarioNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidParameters),
		errors.Is(err, models.ErrDegenerateTerminalValue),
		errors.Is(err, models.ErrInvalidIterations),
		errors.Is(err, models.ErrScenarioIDRequired):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError && h.logger != nil {
		h.logger.WithError(err).Error("API request failed")
	}
	writeError(w, status, err)
}

// decodeJSON reads a single JSON object. An empty body leaves v unchanged.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %v", errInvalidInput, err)
	}
	return nil
}

// writeJSON encodes v before writing the header. Encode failures become a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logrus.WithError(err).Error("Failed to encode response")
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(ErrorResponse{Error: "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument records request count and latency per route.
func instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.RecordHTTPRequest(route, strconv.Itoa(rec.status), time.Since(start).Seconds())
	})
}
