package api

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/yourusername/dcf-simulator/internal/config"
	"github.com/yourusername/dcf-simulator/internal/health"
	"github.com/yourusername/dcf-simulator/internal/models"
	"github.com/yourusername/dcf-simulator/internal/repository"
	"github.com/yourusername/dcf-simulator/internal/scenario"
	"github.com/yourusername/dcf-simulator/internal/service"
	"github.com/yourusername/dcf-simulator/internal/simulation"
)

func newTestHandler(t *testing.T) (*Handler, *ResultCache) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	repo := repository.NewMemoryScenarioRepository(scenario.Presets())
	svc := service.NewValuationService(repo, service.Options{
		DefaultScenario: scenario.BaseID,
		History:         scenario.Historical(),
		Market:          scenario.Market(),
	}, log)
	cache := NewResultCache(time.Minute, 16)
	return NewHandler(svc, cache, simulation.Config{Iterations: 200, Workers: 2}, log), cache
}

func newTestMux(t *testing.T, limiter *rate.Limiter) (*http.ServeMux, *ResultCache) {
	t.Helper()
	h, cache := newTestHandler(t)
	mux := http.NewServeMux()
	h.Register(mux, limiter)
	return mux, cache
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, reader))
	return rec
}

func TestValuationEndpoint(t *testing.T) {
	mux, _ := newTestMux(t, nil)

	degenerate := scenario.BaseParams()
	degenerate.Macro.TerminalGrowthRate = degenerate.Macro.DiscountRate

	totalDiscount := scenario.BaseParams()
	totalDiscount.Macro.DiscountRate = -100
	totalDiscount.Macro.TerminalGrowthRate = -150

	tests := []struct {
		name     string
		body     any
		wantCode int
		wantID   string
	}{
		{name: "empty body uses default", body: nil, wantCode: http.StatusOK, wantID: scenario.BaseID},
		{name: "stored scenario", body: service.Request{ScenarioID: scenario.ElonID}, wantCode: http.StatusOK, wantID: scenario.ElonID},
		{name: "custom params", body: service.Request{Params: ptr(scenario.AnalystParams())}, wantCode: http.StatusOK, wantID: service.CustomScenarioID},
		{name: "unknown scenario", body: service.Request{ScenarioID: "bear"}, wantCode: http.StatusNotFound},
		{name: "degenerate terminal value", body: service.Request{Params: &degenerate}, wantCode: http.StatusBadRequest},
		{name: "discount rate of minus 100", body: service.Request{Params: &totalDiscount}, wantCode: http.StatusBadRequest},
		{name: "unknown field", body: `{"scenario":"base"}`, wantCode: http.StatusBadRequest},
		{name: "malformed json", body: `{`, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, mux, http.MethodPost, "/api/valuation", tt.body)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			if tt.wantCode != http.StatusOK {
				var errResp ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
				assert.NotEmpty(t, errResp.Error)
				return
			}

			var report simulation.Report
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
			assert.Equal(t, tt.wantID, report.ScenarioID)
			assert.Positive(t, report.Result.SharePrice)
			assert.Len(t, report.Result.YearlyProjections, 3)
		})
	}
}

func TestMonteCarloEndpointCachesSeededRuns(t *testing.T) {
	mux, cache := newTestMux(t, nil)
	req := MonteCarloRequest{Request: service.Request{ScenarioID: scenario.BaseID}, Seed: 42, Iterations: 300}

	first := do(t, mux, http.MethodPost, "/api/montecarlo", req)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	var firstResp MonteCarloResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &firstResp))
	assert.False(t, firstResp.Cached)
	require.NotNil(t, firstResp.Result.MonteCarloDistribution)
	assert.Equal(t, 300, firstResp.Result.MonteCarloDistribution.Iterations)
	assert.Equal(t, uint64(42), firstResp.Result.MonteCarloDistribution.Seed)
	assert.NotEmpty(t, firstResp.RunID)

	req.Workers = 5
	second := do(t, mux, http.MethodPost, "/api/montecarlo", req)
	require.Equal(t, http.StatusOK, second.Code)
	var secondResp MonteCarloResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &secondResp))
	assert.True(t, secondResp.Cached)
	assert.Equal(t, firstResp.RunID, secondResp.RunID)
	assert.Equal(t, firstResp.Result.MonteCarloDistribution.Median, secondResp.Result.MonteCarloDistribution.Median)

	hits, misses, _ := cache.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestMonteCarloEndpointCacheKeepsScenarioIdentity(t *testing.T) {
	mux, cache := newTestMux(t, nil)
	params := scenario.BaseParams()

	run := func(id string) MonteCarloResponse {
		t.Helper()
		req := MonteCarloRequest{Request: service.Request{ScenarioID: id, Params: &params}, Seed: 7, Iterations: 100}
		rec := do(t, mux, http.MethodPost, "/api/montecarlo", req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp MonteCarloResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp
	}

	alpha := run("alpha")
	beta := run("beta")
	alphaAgain := run("alpha")

	assert.Equal(t, "alpha", alpha.ScenarioID)
	assert.False(t, alpha.Cached)
	assert.Equal(t, "beta", beta.ScenarioID)
	assert.False(t, beta.Cached)
	assert.NotEqual(t, alpha.RunID, beta.RunID)

	assert.True(t, alphaAgain.Cached)
	assert.Equal(t, "alpha", alphaAgain.ScenarioID)
	assert.Equal(t, alpha.RunID, alphaAgain.RunID)

	hits, misses, _ := cache.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(2), misses)
}

func TestWriteJSONEncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]float64{"share_price": math.NaN()})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.NotEmpty(t, errResp.Error)
}

func TestMonteCarloEndpointUnseededRunsAreNotCached(t *testing.T) {
	mux, cache := newTestMux(t, nil)

	rec := do(t, mux, http.MethodPost, "/api/montecarlo", MonteCarloRequest{Iterations: 50})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp MonteCarloResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotZero(t, resp.Result.MonteCarloDistribution.Seed)
	assert.Zero(t, cache.ItemCount())
}

func TestMonteCarloEndpointErrors(t *testing.T) {
	mux, _ := newTestMux(t, nil)

	tests := []struct {
		name     string
		body     any
		wantCode int
	}{
		{name: "negative iterations", body: MonteCarloRequest{Iterations: -5}, wantCode: http.StatusBadRequest},
		{name: "too many iterations", body: MonteCarloRequest{Iterations: simulation.MaxIterations + 1}, wantCode: http.StatusBadRequest},
		{name: "unknown scenario", body: MonteCarloRequest{Request: service.Request{ScenarioID: "bear"}}, wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, mux, http.MethodPost, "/api/montecarlo", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}
}

func TestMonteCarloEndpointRateLimited(t *testing.T) {
	mux, _ := newTestMux(t, rate.NewLimiter(rate.Every(time.Hour), 1))
	req := MonteCarloRequest{Iterations: 20, Seed: 1}

	assert.Equal(t, http.StatusOK, do(t, mux, http.MethodPost, "/api/montecarlo", req).Code)

	rec := do(t, mux, http.MethodPost, "/api/montecarlo", req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// other routes are not limited
	assert.Equal(t, http.StatusOK, do(t, mux, http.MethodPost, "/api/valuation", nil).Code)
}

func TestScenarioEndpoints(t *testing.T) {
	mux, _ := newTestMux(t, nil)

	rec := do(t, mux, http.MethodGet, "/api/scenarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []service.ScenarioSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 3)
	assert.Equal(t, scenario.BaseID, list[0].ID)
	assert.Len(t, list[0].RevenuePreview, 3)

	rec = do(t, mux, http.MethodGet, "/api/scenarios/"+scenario.ElonID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var one service.ScenarioSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &one))
	assert.Equal(t, scenario.ElonParams(), one.Params)

	assert.Equal(t, http.StatusNotFound, do(t, mux, http.MethodGet, "/api/scenarios/bear", nil).Code)
}

func TestPutScenario(t *testing.T) {
	mux, _ := newTestMux(t, nil)

	custom := models.Scenario{Name: "Custom", Params: scenario.BaseParams()}
	custom.Params.Macro.DiscountRate = 11

	rec := do(t, mux, http.MethodPut, "/api/scenarios/custom", custom)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var saved SaveScenarioResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.True(t, saved.Created)
	assert.Equal(t, "custom", saved.Scenario.ID)
	assert.False(t, saved.Scenario.UpdatedAt.IsZero())

	rec = do(t, mux, http.MethodPut, "/api/scenarios/custom", custom)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, mux, http.MethodPost, "/api/valuation", service.Request{ScenarioID: "custom"})
	require.Equal(t, http.StatusOK, rec.Code)

	mismatched := custom
	mismatched.ID = "other"
	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodPut, "/api/scenarios/custom", mismatched).Code)

	invalid := custom
	invalid.Params.Macro.ShareCount = 0
	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodPut, "/api/scenarios/custom", invalid).Code)
}

func TestReferenceEndpoint(t *testing.T) {
	mux, _ := newTestMux(t, nil)

	rec := do(t, mux, http.MethodGet, "/api/reference?scenario="+scenario.AnalystID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var ref service.Reference
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ref))
	assert.Equal(t, scenario.AnalystID, ref.ScenarioID)
	assert.Equal(t, scenario.Market(), ref.Market)
	assert.Len(t, ref.History, 3)
	assert.Len(t, ref.EBITSeries, 6)

	assert.Equal(t, http.StatusNotFound, do(t, mux, http.MethodGet, "/api/reference?scenario=bear", nil).Code)
}

func TestRoutes(t *testing.T) {
	h, _ := newTestHandler(t)
	cfg := &config.Config{
		Server:  config.ServerConfig{RateLimitPerSecond: 0},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
	checker := health.NewChecker(health.Config{ServiceName: "dcf-simulator"})
	routes := Routes(cfg, h, checker)

	assert.Equal(t, http.StatusOK, do(t, routes, http.MethodGet, "/live", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, routes, http.MethodGet, "/ready", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, routes, http.MethodGet, "/metrics", nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, routes, http.MethodDelete, "/api/scenarios/base", nil).Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: models.ErrScenarioNotFound, want: http.StatusNotFound},
		{err: models.ErrInvalidParameters, want: http.StatusBadRequest},
		{err: models.ErrDegenerateTerminalValue, want: http.StatusBadRequest},
		{err: models.ErrInvalidIterations, want: http.StatusBadRequest},
		{err: models.ErrScenarioIDRequired, want: http.StatusBadRequest},
		{err: io.ErrUnexpectedEOF, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}
