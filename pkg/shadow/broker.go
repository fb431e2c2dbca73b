package shadow

import "context"

// Broker defines the interface to the device-shadow message broker.
// Endpoint resolution and connection lifecycle belong to implementations;
// callers address shadows by device name only.
type Broker interface {
	// GetShadow returns the raw shadow payload for a device
	GetShadow(ctx context.Context, deviceName string) ([]byte, error)

	// UpdateDesiredState submits a desired-state delta for a device
	UpdateDesiredState(ctx context.Context, deviceName string, delta any) error

	// IsConnected returns true if the broker connection is up
	IsConnected() bool

	// Close disconnects from the broker
	Close()
}
