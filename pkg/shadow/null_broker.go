package shadow

import "context"

// NullBroker is a no-op broker used when the MQTT endpoint is unavailable.
// It allows the API to run in limited mode: directive handling fails with
// ErrNotConnected while the management API stays functional.
type NullBroker struct{}

// NewNullBroker creates a new NullBroker.
func NewNullBroker() *NullBroker {
	return &NullBroker{}
}

func (b *NullBroker) GetShadow(ctx context.Context, deviceName string) ([]byte, error) {
	return nil, ErrNotConnected
}

func (b *NullBroker) UpdateDesiredState(ctx context.Context, deviceName string, delta any) error {
	return ErrNotConnected
}

func (b *NullBroker) IsConnected() bool {
	return false
}

func (b *NullBroker) Close() {}
