package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/volpulse/internal/domain/dto"
)

// HealthHandler provides liveness and readiness endpoints for the service.
//
// Responsibilities:
//   - /healthCheck: Published liveness endpoint (static acknowledgment).
//   - /healthz: Basic liveness probe (always returns 200 OK).
//   - /readyz: Readiness probe (depends on the injected readiness check).
type HealthHandler struct {
	ready func() error // Reports whether the service can serve traffic
}

// NewHealthHandler constructs a HealthHandler with the provided readiness
// check. A nil check means always ready.
func NewHealthHandler(ready func() error) *HealthHandler {
	return &HealthHandler{ready: ready}
}

// Register mounts the health endpoints into the provided Gin router.
//
// Routes:
//   - GET /healthCheck: Always returns 200 with {"message": "Server is running."}.
//   - GET /healthz: Always returns 200 OK.
//   - GET /readyz: Returns 200 OK if the readiness check passes, 503 otherwise.
func (h *HealthHandler) Register(r *gin.Engine) {
	// Published liveness endpoint.
	// @Summary      Health check
	// @Description  Returns OK if the server is running
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  dto.HealthCheckResponse
	// @Router       /healthCheck [get]
	r.GET("/healthCheck", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.HealthCheckResponse{Message: "Server is running."})
	})

	// Liveness probe (just checks if the service is up)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness probe
	r.GET("/readyz", func(c *gin.Context) {
		if h.ready != nil && h.ready() != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
}
