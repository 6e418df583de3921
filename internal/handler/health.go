package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Payphone-Digital/eventhub/pkg/health"
	"github.com/Payphone-Digital/eventhub/pkg/logger"
	"github.com/gin-gonic/gin"
)

const readinessTimeout = 5 * time.Second

type HealthHandler struct {
	monitor   *health.Monitor
	startedAt time.Time
}

type LivenessResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    float64   `json:"uptime"`
}

type ReadinessResponse struct {
	Status    string               `json:"status"`
	Timestamp time.Time            `json:"timestamp"`
	Checks    []health.CheckResult `json:"checks"`
}

func NewHealthHandler(monitor *health.Monitor) *HealthHandler {
	return &HealthHandler{
		monitor:   monitor,
		startedAt: time.Now(),
	}
}

// Liveness answers load balancers; it never touches dependencies.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, LivenessResponse{
		Status:    "OK",
		Timestamp: time.Now(),
		Uptime:    time.Since(h.startedAt).Seconds(),
	})
}

// Readiness runs every registered check. A failing critical dependency
// (the database) turns the answer into 503.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	results := h.monitor.CheckAll(ctx)

	response := ReadinessResponse{
		Status:    "READY",
		Timestamp: time.Now(),
		Checks:    results,
	}
	statusCode := http.StatusOK
	if !health.Ready(results) {
		response.Status = "NOT_READY"
		statusCode = http.StatusServiceUnavailable
	}

	logger.DebugWithContext(ctx, "Readiness check performed").
		String("status", response.Status).
		Int("checks", len(results)).
		Log()

	c.JSON(statusCode, response)
}
