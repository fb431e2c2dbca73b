package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dasbridge/bridge/pkg/api/types"
	"github.com/dasbridge/bridge/pkg/shadow"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	broker shadow.Broker
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(broker shadow.Broker) *HealthHandler {
	return &HealthHandler{broker: broker}
}

// Health handles GET /health
// @Summary      Health check
// @Description  Returns the health status of the API and shadow broker
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.HealthResponse  "Service is healthy"
// @Failure      503  {object}  types.HealthResponse  "Service is degraded"
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	brokerStatus := "disconnected"
	if h.broker.IsConnected() {
		brokerStatus = "connected"
	}

	status := "healthy"
	httpStatus := http.StatusOK

	if brokerStatus != "connected" {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, types.HealthResponse{
		Status:    status,
		Broker:    brokerStatus,
		Timestamp: time.Now(),
	})
}
