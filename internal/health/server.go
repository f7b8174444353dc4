// Package health provides liveness and readiness endpoints for the valuation API.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Pinger checks connectivity of a dependency such as the scenario database.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp,omitempty"`
	Version   string `json:"version,omitempty"`
	Store     string `json:"store,omitempty"`
}

// ReadyResponse represents the JSON response for readiness check endpoints.
type ReadyResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Checks   map[string]string `json:"checks,omitempty"`
	Duration string            `json:"duration,omitempty"`
}

// Config holds the configuration for the health checker.
type Config struct {
	ServiceName string
	Version     string
	Store       string
	Logger      *logrus.Logger
	DB          Pinger
	PingTimeout time.Duration
}

// Checker serves health endpoints. DB is optional; the in-memory store has nothing to ping.
type Checker struct {
	serviceName string
	version     string
	store       string
	logger      *logrus.Logger
	db          Pinger
	pingTimeout time.Duration
	mu          sync.RWMutex
	ready       bool
	now         func() time.Time
}

// NewChecker creates a new health checker. It starts not ready.
func NewChecker(cfg Config) *Checker {
	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Checker{
		serviceName: cfg.ServiceName,
		version:     cfg.Version,
		store:       cfg.Store,
		logger:      cfg.Logger,
		db:          cfg.DB,
		pingTimeout: timeout,
		now:         time.Now,
	}
}

// SetReady marks the service as ready to accept traffic.
func (c *Checker) SetReady(ready bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ready = ready
}

// IsReady returns whether the service is ready.
func (c *Checker) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// RegisterRoutes mounts /health, /live and /ready on mux.
func (c *Checker) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", c.handleHealth)
	mux.HandleFunc("GET /live", c.handleLive)
	mux.HandleFunc("GET /ready", c.handleReady)
}

func (c *Checker) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   c.serviceName,
		Timestamp: c.now().UTC().Format(time.RFC3339),
		Version:   c.version,
		Store:     c.store,
	})
}

func (c *Checker) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: c.serviceName,
	})
}

// handleReady reports 503 until SetReady(true) and while the database ping fails.
func (c *Checker) handleReady(w http.ResponseWriter, r *http.Request) {
	start := c.now()
	checks := make(map[string]string)
	allHealthy := true

	if !c.IsReady() {
		allHealthy = false
		checks["service"] = "not_ready"
	} else {
		checks["service"] = "ok"
	}

	if c.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), c.pingTimeout)
		defer cancel()

		if err := c.db.Ping(ctx); err != nil {
			allHealthy = false
			checks["database"] = fmt.Sprintf("error: %v", err)
			if c.logger != nil {
				c.logger.WithError(err).Warn("Readiness check failed database ping")
			}
		} else {
			checks["database"] = "ok"
		}
	}

	response := ReadyResponse{
		Service:  c.serviceName,
		Checks:   checks,
		Duration: time.Since(start).String(),
	}

	status := http.StatusOK
	response.Status = "ok"
	if !allHealthy {
		status = http.StatusServiceUnavailable
		response.Status = "not_ready"
	}
	writeJSON(w, status, response)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
