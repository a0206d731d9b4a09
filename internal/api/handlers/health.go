package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/petergfitz2/athena-ai-sub000/internal/api/response"
	"github.com/petergfitz2/athena-ai-sub000/internal/infra/database/postgres"
)

// DatabaseChecker reports database health, e.g. *postgres.Pool.
type DatabaseChecker interface {
	Health(ctx context.Context) *postgres.HealthStatus
}

// Pinger checks a dependency's connectivity, e.g. the result cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db        DatabaseChecker
	cache     Pinger
	startTime time.Time
	version   string
}

// NewHealthHandler creates a new health handler. db and cache may be nil when
// the server runs without them.
func NewHealthHandler(db DatabaseChecker, cache Pinger, version string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		cache:     cache,
		startTime: time.Now(),
		version:   version,
	}
}

// SimpleHealthResponse represents a simple health check response
type SimpleHealthResponse struct {
	Status        string    `json:"status"`
	Version       string    `json:"version"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	Timestamp     time.Time `json:"timestamp"`
}

// ReadyResponse represents a readiness check response
type ReadyResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
	Message   string            `json:"message,omitempty"`
}

// Health returns simple liveness check
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, SimpleHealthResponse{
		Status:        "healthy",
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Timestamp:     time.Now(),
	})
}

// Database returns the connection pool status
// GET /health/db
func (h *HealthHandler) Database(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		response.JSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}

	status := h.db.Health(r.Context())
	code := http.StatusOK
	if status.Status == postgres.StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	response.JSON(w, code, status)
}

// Ready returns readiness check with dependency checks
// GET /health/ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	ready := true
	message := ""

	if h.db != nil {
		if h.db.Health(r.Context()).Status == postgres.StatusUnhealthy {
			checks["database"] = "error"
			ready = false
			message = "Database connection failed"
		} else {
			checks["database"] = "ok"
		}
	}

	// cache failures degrade latency only
	if h.cache != nil {
		if err := h.cache.Ping(r.Context()); err != nil {
			checks["cache"] = "error"
		} else {
			checks["cache"] = "ok"
		}
	}

	status, code := "ready", http.StatusOK
	if !ready {
		status, code = "not_ready", http.StatusServiceUnavailable
	}

	response.JSON(w, code, ReadyResponse{
		Status:    status,
		Timestamp: time.Now(),
		Checks:    checks,
		Message:   message,
	})
}
