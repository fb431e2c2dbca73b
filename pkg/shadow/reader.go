package shadow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dasbridge/bridge/pkg/identity"
)

// fetchTimeout bounds a single shadow fetch so one dead device cannot
// hang a whole multi-device batch.
const fetchTimeout = 10 * time.Second

// DeviceNamer lists the registered thing names of a user, optionally
// narrowed to a single name. Implemented by the registry device store.
type DeviceNamer interface {
	ThingNames(ctx context.Context, userID, nameFilter string) ([]string, error)
}

// Reader materializes shadow documents for a user's registered devices.
type Reader struct {
	broker  Broker
	devices DeviceNamer
}

// NewReader creates a Reader over the given broker and device registry.
func NewReader(broker Broker, devices DeviceNamer) *Reader {
	return &Reader{broker: broker, devices: devices}
}

// FetchShadow fetches and decodes a single device's shadow.
func (r *Reader) FetchShadow(ctx context.Context, deviceName string) (*Document, error) {
	payload, err := r.broker.GetShadow(ctx, deviceName)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("device %s: %w", deviceName, err)
	}
	return doc, nil
}

// FetchShadowsForUser fetches the shadows of every device registered to the
// user, concurrently, keyed by device name. If nameFilter is non-empty the
// lookup is narrowed to that device. The operation is all-or-nothing: any
// single failed fetch fails the whole call and no partial result is
// returned. Duplicate device names overwrite (devices are unique per user).
func (r *Reader) FetchShadowsForUser(ctx context.Context, user *identity.UserProfile, nameFilter string) (map[string]*Document, error) {
	names, err := r.devices.ThingNames(ctx, user.UserID, nameFilter)
	if err != nil {
		return nil, fmt.Errorf("listing devices for user %s: %w", user.UserID, err)
	}

	var mu sync.Mutex
	result := make(map[string]*Document, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range names {
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(gctx, fetchTimeout)
			defer cancel()

			doc, err := r.FetchShadow(fctx, name)
			if err != nil {
				return err
			}

			mu.Lock()
			result[name] = doc
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
