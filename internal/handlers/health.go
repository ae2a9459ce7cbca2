package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/benvon/virality-checker/internal/models"
)

// ServiceName is reported by the health endpoint
const ServiceName = "X Virality Checker API"

// Pinger is a dependency whose reachability can be checked
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker handles health check requests
type HealthChecker struct {
	redis Pinger
}

// NewHealthChecker creates a new health checker. redis may be nil when the
// rate limiter keeps its state in memory.
func NewHealthChecker(redis Pinger) *HealthChecker {
	return &HealthChecker{redis: redis}
}

// Health handles GET /health
func (h *HealthChecker) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   ServiceName,
	})
}

// HealthCheck handles the /healthz endpoint
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := models.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   ServiceName,
	}

	if r.URL.Query().Get("mode") != "extended" {
		respondJSON(w, http.StatusOK, response)
		return
	}

	checks := make(map[string]string)
	if h.redis == nil {
		checks["redis"] = "not_configured"
	} else if err := h.checkRedis(r.Context()); err != nil {
		response.Status = "unhealthy"
		checks["redis"] = "unhealthy: " + sanitizeErrorMessage(err.Error())
	} else {
		checks["redis"] = "healthy"
	}
	response.Checks = checks

	statusCode := http.StatusOK
	if response.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}
	respondJSON(w, statusCode, response)
}

// checkRedis verifies the limiter store connection
func (h *HealthChecker) checkRedis(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return h.redis.Ping(ctx)
}
