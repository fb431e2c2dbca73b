package alexa

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dasbridge/bridge/pkg/shadow"
)

// SetState translates a generic set-state directive (e.g. SetColor) into a
// desired-state delta and submits it to the broker. The delta replaces the
// entire <namespace>.<payloadVersion> subtree of the shadow's desired state
// with the directive payload. Any broker failure propagates unretried.
func SetState(ctx context.Context, broker shadow.Broker, endpointID string, req *Request) (*Response, error) {
	namespace := req.Directive.Header.Namespace
	version := req.Directive.Header.PayloadVersion

	payload := map[string]any{}
	if len(req.Directive.Payload) > 0 {
		if err := json.Unmarshal(req.Directive.Payload, &payload); err != nil {
			return nil, fmt.Errorf("decoding directive payload: %w", err)
		}
	}

	delta := map[string]any{
		"state": map[string]any{
			"desired": map[string]any{
				namespace: map[string]any{
					version: payload,
				},
			},
		},
	}

	if err := broker.UpdateDesiredState(ctx, endpointID, delta); err != nil {
		return nil, err
	}

	name, value := firstEntry(payload)
	return ackResponse(req, endpointID, Property{
		Namespace:                 namespace,
		Name:                      name,
		Value:                     value,
		TimeOfSample:              isoTime(time.Now()),
		UncertaintyInMilliseconds: uncertaintyMillis,
	}), nil
}

// PowerController handles the power specialization: TurnOff writes the
// literal "OFF", everything else on the power namespace writes "ON", always
// to the fixed Alexa.PowerController/3/powerState path.
func PowerController(ctx context.Context, broker shadow.Broker, endpointID string, req *Request) (*Response, error) {
	desired := "ON"
	if req.Directive.Header.Name == NameTurnOff {
		desired = "OFF"
	}

	delta := map[string]any{
		"state": map[string]any{
			"desired": map[string]any{
				NamespacePower: map[string]any{
					"3": map[string]any{"powerState": desired},
				},
			},
		},
	}

	if err := broker.UpdateDesiredState(ctx, endpointID, delta); err != nil {
		return nil, err
	}

	return ackResponse(req, endpointID, Property{
		Namespace:                 req.Directive.Header.Namespace,
		Name:                      "powerState",
		Value:                     desired,
		TimeOfSample:              isoTime(time.Now()),
		UncertaintyInMilliseconds: uncertaintyMillis,
	}), nil
}

// ackResponse synthesizes the Alexa/Response acknowledgment for a handled
// command, echoing the endpoint scope and carrying one reported property.
func ackResponse(req *Request, endpointID string, prop Property) *Response {
	header := req.Directive.Header
	header.Namespace = NamespaceAlexa
	header.Name = "Response"
	header.MessageID = uuid.NewString()

	endpoint := &Endpoint{EndpointID: endpointID}
	if req.Directive.Endpoint != nil {
		endpoint.Scope = req.Directive.Endpoint.Scope
	}

	return &Response{
		Event: Event{
			Header:   header,
			Endpoint: endpoint,
			Payload:  struct{}{},
		},
		Context: &Context{Properties: []Property{prop}},
	}
}

// firstEntry returns the lexicographically first key of the payload and its
// value. Observed command payloads carry a single key; ordering only matters
// for determinism.
func firstEntry(payload map[string]any) (string, any) {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return "", nil
	}
	sort.Strings(keys)
	return keys[0], payload[keys[0]]
}
