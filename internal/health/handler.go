package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/nagumeena22/ColabSphere/internal/metrics"

	"github.com/gin-gonic/gin"
)

const probeTimeout = 2 * time.Second

// Checker probes one dependency.
type Checker func(ctx context.Context) error

type Handler struct {
	checks  map[string]Checker
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewHandler(checks map[string]Checker, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		checks:  checks,
		metrics: m,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready runs every dependency check and answers 503 when any fails.
func (h *Handler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	resp := HealthResponse{Status: "ready", Checks: make(map[string]string, len(h.checks))}
	code := http.StatusOK

	for name, check := range h.checks {
		start := time.Now()
		err := check(ctx)
		h.metrics.Health.RecordDependencyCheck(ctx, name, time.Since(start), err)

		if err != nil {
			h.logger.WarnContext(ctx, "readiness check failed", "dependency", name, "error", err)
			resp.Checks[name] = "down"
			resp.Status = "not ready"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "up"
	}

	c.JSON(code, resp)
}
