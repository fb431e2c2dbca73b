package shadow

import "errors"

var (
	// ErrNotFound indicates the broker holds no shadow for the device
	ErrNotFound = errors.New("shadow not found")

	// ErrDecoding indicates a shadow payload arrived in an unexpected encoding
	ErrDecoding = errors.New("shadow decoding error")

	// ErrBroker indicates a broker call failed
	ErrBroker = errors.New("broker error")

	// ErrNotConnected indicates the broker client is not connected
	ErrNotConnected = errors.New("broker not connected")
)
