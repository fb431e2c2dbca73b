package alexa

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dasbridge/bridge/pkg/identity"
	"github.com/dasbridge/bridge/pkg/shadow"
	"github.com/dasbridge/bridge/pkg/thing"
)

// Error types of the platform's ErrorResponse payload.
const (
	errTypeAcceptGrantFailed = "ACCEPT_GRANT_FAILED"
	errTypeInvalidCredential = "INVALID_AUTHORIZATION_CREDENTIAL"
	errTypeNoSuchEndpoint    = "NO_SUCH_ENDPOINT"
	errTypeBridgeUnreachable = "BRIDGE_UNREACHABLE"
	errTypeInvalidDirective  = "INVALID_DIRECTIVE"
	errTypeInternalError     = "INTERNAL_ERROR"
)

// Skill routes inbound directives: it classifies the namespace/name pair,
// resolves the caller, runs the matching assembler or translator against
// the shadow broker and shapes the response envelope. Failures are returned
// as ErrorResponse envelopes, never as transport errors.
type Skill struct {
	provider identity.Provider
	reader   *shadow.Reader
	broker   shadow.Broker
	clock    func() time.Time
}

// NewSkill creates a Skill over the given collaborators.
func NewSkill(provider identity.Provider, reader *shadow.Reader, broker shadow.Broker) *Skill {
	return &Skill{
		provider: provider,
		reader:   reader,
		broker:   broker,
		clock:    time.Now,
	}
}

type acceptGrantPayload struct {
	Grantee Scope `json:"grantee"`
}

type discoveryPayload struct {
	Scope Scope `json:"scope"`
}

// Handle processes one directive envelope and always returns a response
// envelope.
func (s *Skill) Handle(ctx context.Context, req *Request) *Response {
	header := req.Directive.Header

	log.Debug().
		Str("namespace", header.Namespace).
		Str("name", header.Name).
		Msg("directive received")

	switch {
	case header.Namespace == NamespaceAuthorization:
		return s.acceptGrant(ctx, req)

	case header.Namespace == NamespaceDiscovery:
		return s.discover(ctx, req)

	case header.Namespace == NamespacePower &&
		(header.Name == NameTurnOn || header.Name == NameTurnOff):
		return s.command(ctx, req, PowerController)

	case header.Namespace == NamespaceColor && header.Name == NameSetColor:
		return s.command(ctx, req, SetState)

	case header.Namespace == NamespaceAlexa && header.Name == NameReportState:
		return s.reportState(ctx, req)

	default:
		return errorResponse(header.Namespace, errTypeInvalidDirective,
			"unsupported directive "+header.Namespace+"/"+header.Name)
	}
}

func (s *Skill) acceptGrant(ctx context.Context, req *Request) *Response {
	var payload acceptGrantPayload
	if err := json.Unmarshal(req.Directive.Payload, &payload); err != nil {
		return errorResponse(NamespaceAuthorization, errTypeAcceptGrantFailed, err.Error())
	}

	profile, err := s.provider.Resolve(ctx, payload.Grantee.Type, payload.Grantee.Token)
	if err != nil {
		log.Warn().Err(err).Msg("accept grant failed")
		return errorResponse(NamespaceAuthorization, errTypeAcceptGrantFailed, err.Error())
	}

	log.Info().Str("user_id", profile.UserID).Msg("grant accepted")

	return &Response{
		Event: Event{
			Header: Header{
				Namespace:      NamespaceAuthorization,
				Name:           "AcceptGrant.Response",
				PayloadVersion: PayloadVersion,
				MessageID:      uuid.NewString(),
			},
			Payload: struct{}{},
		},
	}
}

func (s *Skill) discover(ctx context.Context, req *Request) *Response {
	var payload discoveryPayload
	if err := json.Unmarshal(req.Directive.Payload, &payload); err != nil {
		return errorEnvelope(err)
	}

	profile, err := s.provider.Resolve(ctx, payload.Scope.Type, payload.Scope.Token)
	if err != nil {
		return errorEnvelope(err)
	}

	shadows, err := s.reader.FetchShadowsForUser(ctx, profile, "")
	if err != nil {
		return errorEnvelope(err)
	}

	endpoints, err := Discover(shadows, s.clock().Unix())
	if err != nil {
		return errorEnvelope(err)
	}

	log.Info().
		Str("user_id", profile.UserID).
		Int("endpoints", len(endpoints)).
		Msg("discovery complete")

	return &Response{
		Event: Event{
			Header: Header{
				Namespace:      NamespaceDiscovery,
				Name:           "Discover.Response",
				PayloadVersion: PayloadVersion,
				MessageID:      uuid.NewString(),
			},
			Payload: DiscoveryPayload{Endpoints: endpoints},
		},
	}
}

func (s *Skill) reportState(ctx context.Context, req *Request) *Response {
	profile, endpointID, resp := s.authorizeEndpoint(ctx, req)
	if resp != nil {
		return resp
	}

	shadows, err := s.reader.FetchShadowsForUser(ctx, profile, endpointID)
	if err != nil {
		return errorEnvelope(err)
	}

	doc, ok := shadows[endpointID]
	if !ok {
		return errorEnvelope(shadow.ErrNotFound)
	}

	return ReportState(doc, endpointID, req.Directive.Header, s.clock().Unix())
}

// commandFunc is the shape shared by the generic and power translators.
type commandFunc func(ctx context.Context, broker shadow.Broker, endpointID string, req *Request) (*Response, error)

func (s *Skill) command(ctx context.Context, req *Request, run commandFunc) *Response {
	_, endpointID, resp := s.authorizeEndpoint(ctx, req)
	if resp != nil {
		return resp
	}

	answer, err := run(ctx, s.broker, endpointID, req)
	if err != nil {
		return errorEnvelope(err)
	}
	return answer
}

// authorizeEndpoint resolves the caller from an endpoint-scoped directive.
// A non-nil response is the error envelope to return immediately.
func (s *Skill) authorizeEndpoint(ctx context.Context, req *Request) (*identity.UserProfile, string, *Response) {
	if req.Directive.Endpoint == nil || req.Directive.Endpoint.Scope == nil {
		return nil, "", errorEnvelope(identity.ErrAuth)
	}

	scope := req.Directive.Endpoint.Scope
	profile, err := s.provider.Resolve(ctx, scope.Type, scope.Token)
	if err != nil {
		return nil, "", errorEnvelope(err)
	}

	return profile, req.Directive.Endpoint.EndpointID, nil
}

// errorEnvelope maps an internal error onto the platform's ErrorResponse
// taxonomy.
func errorEnvelope(err error) *Response {
	errType := errTypeInternalError
	switch {
	case errors.Is(err, identity.ErrAuth):
		errType = errTypeInvalidCredential
	case errors.Is(err, shadow.ErrNotFound):
		errType = errTypeNoSuchEndpoint
	case errors.Is(err, shadow.ErrNotConnected):
		errType = errTypeBridgeUnreachable
	case errors.Is(err, thing.ErrBadName), errors.Is(err, shadow.ErrDecoding),
		errors.Is(err, shadow.ErrBroker):
		errType = errTypeInternalError
	}

	log.Warn().Err(err).Str("error_type", errType).Msg("directive failed")

	return errorResponse(NamespaceAlexa, errType, err.Error())
}

func errorResponse(namespace, errType, message string) *Response {
	return &Response{
		Event: Event{
			Header: Header{
				Namespace:      namespace,
				Name:           "ErrorResponse",
				PayloadVersion: PayloadVersion,
				MessageID:      uuid.NewString(),
			},
			Payload: ErrorPayload{Type: errType, Message: message},
		},
	}
}
