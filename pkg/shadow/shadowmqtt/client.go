package shadowmqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dasbridge/bridge/pkg/shadow"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultRequestTimeout = 10 * time.Second

	qosAtLeastOnce byte = 1
)

// Config holds the broker connection settings.
type Config struct {
	// URL is the broker address, e.g. tcp://host:1883 or ssl://host:8883
	URL string

	// ClientID identifies this bridge to the broker
	ClientID string

	Username string
	Password string

	// ConnectTimeout bounds the initial connection attempt
	ConnectTimeout time.Duration

	// RequestTimeout bounds each get/update request-reply exchange
	RequestTimeout time.Duration
}

// Client is a shadow.Broker over MQTT. Shadow reads and desired-state
// writes are request-reply exchanges against the broker's per-thing shadow
// topics; reconnection is handled by the underlying MQTT client, so callers
// never deal with endpoint resolution.
type Client struct {
	client         pahomqtt.Client
	requestTimeout time.Duration

	connected bool
	connMu    sync.RWMutex
}

// rejection is the error body published on a rejected reply topic.
type rejection struct {
	Code        int    `json:"code"`
	Message     string `json:"message"`
	ClientToken string `json:"clientToken,omitempty"`
}

// Connect establishes a connection to the shadow broker.
func Connect(cfg Config) (*Client, error) {
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	c := &Client{requestTimeout: cfg.RequestTimeout}

	opts := pahomqtt.NewClientOptions().
		AddBroker(cfg.URL).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetConnectTimeout(cfg.ConnectTimeout)

	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		c.setConnected(true)
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		c.setConnected(false)
		log.Warn().Err(err).Msg("shadow broker connection lost")
	})

	c.client = pahomqtt.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(cfg.ConnectTimeout) {
		return nil, fmt.Errorf("%w: connect timeout after %v", shadow.ErrBroker, cfg.ConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", shadow.ErrBroker, err)
	}

	c.setConnected(true)
	return c, nil
}

// GetShadow fetches the current shadow document of a device. The payload is
// returned exactly as published on the accepted topic; decoding is the
// caller's concern.
func (c *Client) GetShadow(ctx context.Context, deviceName string) ([]byte, error) {
	clientToken := uuid.NewString()
	request, err := json.Marshal(map[string]string{"clientToken": clientToken})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shadow.ErrBroker, err)
	}

	payload, rej, err := c.exchange(ctx, exchangeRequest{
		requestTopic:  topicGet(deviceName),
		acceptedTopic: topicGetAccepted(deviceName),
		rejectedTopic: topicGetRejected(deviceName),
		payload:       request,
		clientToken:   clientToken,
	})
	if err != nil {
		return nil, fmt.Errorf("shadow get %s: %w", deviceName, err)
	}
	if rej != nil {
		if rej.Code == 404 {
			return nil, fmt.Errorf("%w: %s", shadow.ErrNotFound, deviceName)
		}
		return nil, fmt.Errorf("%w: shadow get %s rejected (%d): %s",
			shadow.ErrBroker, deviceName, rej.Code, rej.Message)
	}
	return payload, nil
}

// UpdateDesiredState publishes a desired-state delta for a device and waits
// for the broker to accept it. The accepted topic carries every update of
// the shadow, so the request is tagged with a client token and only the
// matching acknowledgment counts.
func (c *Client) UpdateDesiredState(ctx context.Context, deviceName string, delta any) error {
	raw, err := json.Marshal(delta)
	if err != nil {
		return fmt.Errorf("%w: encoding delta: %v", shadow.ErrBroker, err)
	}

	body := map[string]any{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return fmt.Errorf("%w: delta must be a JSON object: %v", shadow.ErrBroker, err)
	}
	clientToken := uuid.NewString()
	body["clientToken"] = clientToken

	request, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: encoding delta: %v", shadow.ErrBroker, err)
	}

	_, rej, err := c.exchange(ctx, exchangeRequest{
		requestTopic:  topicUpdate(deviceName),
		acceptedTopic: topicUpdateAccepted(deviceName),
		rejectedTopic: topicUpdateRejected(deviceName),
		payload:       request,
		clientToken:   clientToken,
	})
	if err != nil {
		return fmt.Errorf("shadow update %s: %w", deviceName, err)
	}
	if rej != nil {
		return fmt.Errorf("%w: shadow update %s rejected (%d): %s",
			shadow.ErrBroker, deviceName, rej.Code, rej.Message)
	}
	return nil
}

type exchangeRequest struct {
	requestTopic  string
	acceptedTopic string
	rejectedTopic string
	payload       []byte

	// clientToken, when set, filters replies to this exchange only
	clientToken string
}

type exchangeReply struct {
	payload  []byte
	rejected bool
}

// exchange runs one request-reply round trip: subscribe to the reply
// topics, publish the request, wait for the first matching reply.
func (c *Client) exchange(ctx context.Context, req exchangeRequest) ([]byte, *rejection, error) {
	if !c.IsConnected() {
		return nil, nil, shadow.ErrNotConnected
	}

	replies := make(chan exchangeReply, 2)

	handler := func(rejected bool) pahomqtt.MessageHandler {
		return func(_ pahomqtt.Client, msg pahomqtt.Message) {
			if req.clientToken != "" && !matchesToken(msg.Payload(), req.clientToken) {
				return
			}
			select {
			case replies <- exchangeReply{payload: msg.Payload(), rejected: rejected}:
			default:
			}
		}
	}

	for topic, rejected := range map[string]bool{
		req.acceptedTopic: false,
		req.rejectedTopic: true,
	} {
		token := c.client.Subscribe(topic, qosAtLeastOnce, handler(rejected))
		if !token.WaitTimeout(c.requestTimeout) || token.Error() != nil {
			return nil, nil, fmt.Errorf("%w: subscribing %s", shadow.ErrBroker, topic)
		}
	}
	defer c.client.Unsubscribe(req.acceptedTopic, req.rejectedTopic)

	token := c.client.Publish(req.requestTopic, qosAtLeastOnce, false, req.payload)
	if !token.WaitTimeout(c.requestTimeout) || token.Error() != nil {
		return nil, nil, fmt.Errorf("%w: publishing %s", shadow.ErrBroker, req.requestTopic)
	}

	timer := time.NewTimer(c.requestTimeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("%w: %v", shadow.ErrBroker, ctx.Err())
	case <-timer.C:
		return nil, nil, fmt.Errorf("%w: no reply within %v", shadow.ErrBroker, c.requestTimeout)
	case reply := <-replies:
		if reply.rejected {
			rej := &rejection{}
			if err := json.Unmarshal(reply.payload, rej); err != nil {
				rej = &rejection{Message: string(reply.payload)}
			}
			return nil, rej, nil
		}
		return reply.payload, nil, nil
	}
}

// matchesToken reports whether a reply payload carries the given client
// token. Payloads without a token pass the filter.
func matchesToken(payload []byte, token string) bool {
	var probe struct {
		ClientToken string `json:"clientToken"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return false
	}
	return probe.ClientToken == "" || probe.ClientToken == token
}

// IsConnected returns the current connection state.
func (c *Client) IsConnected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.connected && c.client.IsConnected()
}

func (c *Client) setConnected(up bool) {
	c.connMu.Lock()
	c.connected = up
	c.connMu.Unlock()
}

// Close disconnects from the broker, allowing pending operations a short
// quiesce period.
func (c *Client) Close() {
	if c.client == nil {
		return
	}
	c.client.Disconnect(250)
	c.setConnected(false)
}
