package types

import (
	"time"

	"github.com/dasbridge/bridge/pkg/thing"
)

// --- Response DTOs ---

// ErrorResponse represents a management-API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned from GET /health
type HealthResponse struct {
	Status    string    `json:"status"`
	Broker    string    `json:"broker"`
	Timestamp time.Time `json:"timestamp"`
}

// StatusResponse is returned from GET /status
type StatusResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ListDevicesResponse is returned from GET /devices
type ListDevicesResponse struct {
	Devices []thing.Description `json:"devices"`
	Count   int                 `json:"count"`
}

// DeviceResponse is returned from GET /devices/:id
type DeviceResponse struct {
	Device thing.Description `json:"device"`
}

// ProvisionResponse is returned from POST /devices
type ProvisionResponse struct {
	Device thing.Spec `json:"device"`
}
