package alexa

import "encoding/json"

// Namespaces and names of the directive taxonomy this skill handles.
const (
	NamespaceAlexa         = "Alexa"
	NamespaceAuthorization = "Alexa.Authorization"
	NamespaceDiscovery     = "Alexa.Discovery"
	NamespacePower         = "Alexa.PowerController"
	NamespaceColor         = "Alexa.ColorController"
	NamespaceTemperature   = "Alexa.TemperatureSensor"

	NameReportState = "ReportState"
	NameTurnOn      = "TurnOn"
	NameTurnOff     = "TurnOff"
	NameSetColor    = "SetColor"
)

// PayloadVersion is the only protocol version this skill speaks.
const PayloadVersion = "3"

// Header identifies a directive or event message.
type Header struct {
	Namespace        string `json:"namespace"`
	Name             string `json:"name"`
	PayloadVersion   string `json:"payloadVersion"`
	MessageID        string `json:"messageId"`
	CorrelationToken string `json:"correlationToken,omitempty"`
}

// Scope carries the caller's credentials.
type Scope struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// Endpoint addresses one device in a directive or event.
type Endpoint struct {
	Scope      *Scope            `json:"scope,omitempty"`
	EndpointID string            `json:"endpointId,omitempty"`
	Cookie     map[string]string `json:"cookie,omitempty"`
}

// Directive is one inbound command or query from the voice platform.
type Directive struct {
	Header   Header          `json:"header"`
	Endpoint *Endpoint       `json:"endpoint,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// Request is the outer envelope of an inbound message.
type Request struct {
	Directive Directive `json:"directive"`
}

// Property is one reported state entry in a response context.
type Property struct {
	Namespace                 string `json:"namespace"`
	Name                      string `json:"name"`
	Value                     any    `json:"value"`
	TimeOfSample              string `json:"timeOfSample"`
	UncertaintyInMilliseconds int    `json:"uncertaintyInMilliseconds"`
}

// Context carries the reported properties attached to a response event.
type Context struct {
	Properties []Property `json:"properties"`
}

// Event is the body of an outbound response.
type Event struct {
	Header   Header    `json:"header"`
	Endpoint *Endpoint `json:"endpoint,omitempty"`
	Payload  any       `json:"payload"`
}

// Response is the outer envelope of an outbound message.
type Response struct {
	Event   Event    `json:"event"`
	Context *Context `json:"context,omitempty"`
}

// ErrorPayload is the payload of an ErrorResponse event.
type ErrorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// CapabilityProperties lists the property names a capability supports.
type CapabilityProperties struct {
	Supported []PropertyName `json:"supported"`
}

// PropertyName names one supported property.
type PropertyName struct {
	Name string `json:"name"`
}

// Capability advertises one interface of a discovered endpoint.
type Capability struct {
	Type                string                `json:"type"`
	Interface           string                `json:"interface"`
	Version             string                `json:"version"`
	Properties          *CapabilityProperties `json:"properties,omitempty"`
	ProactivelyReported *bool                 `json:"proactivelyReported,omitempty"`
	Retrievable         *bool                 `json:"retrievable,omitempty"`
}

// DiscoveryEndpoint is one device in a discovery response. Built fresh on
// every discovery request, never persisted.
type DiscoveryEndpoint struct {
	EndpointID        string       `json:"endpointId"`
	FriendlyName      string       `json:"friendlyName"`
	Description       string       `json:"description"`
	ManufacturerName  string       `json:"manufacturerName"`
	DisplayCategories []string     `json:"displayCategories"`
	Capabilities      []Capability `json:"capabilities"`
}

// DiscoveryPayload is the payload of a Discover.Response event.
type DiscoveryPayload struct {
	Endpoints []DiscoveryEndpoint `json:"endpoints"`
}

func boolPtr(b bool) *bool { return &b }
