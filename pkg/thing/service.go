package thing

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dasbridge/bridge/pkg/identity"
	"github.com/dasbridge/bridge/pkg/registry"
)

// Request asks for a new thing to be provisioned for a user.
type Request struct {
	ThingID   string `json:"thingId"`
	ThingType string `json:"thingType"`
}

// Description is the management-API view of a registered device. ThingName
// carries the short form only.
type Description struct {
	CertificateID  string `json:"certificateId"`
	CertificateARN string `json:"certificateArn"`
	ThingID        string `json:"thingId"`
	ThingARN       string `json:"thingArn"`
	ThingName      string `json:"thingName"`
	ThingType      string `json:"thingType"`
}

// Spec is everything a freshly provisioned device needs to connect:
// identity material from the issuer plus the broker endpoint.
type Spec struct {
	Endpoint string `json:"endpoint"`
	Certificate
	ThingID   string `json:"thingId"`
	ThingARN  string `json:"thingArn"`
	ThingName string `json:"thingName"`
	ThingType string `json:"thingType"`
}

// Service registers and describes a user's things.
type Service struct {
	devices  registry.DeviceStore
	issuer   Issuer
	endpoint string
}

// NewService creates a Service. endpoint is the broker address handed to
// newly provisioned devices.
func NewService(devices registry.DeviceStore, issuer Issuer, endpoint string) *Service {
	return &Service{devices: devices, issuer: issuer, endpoint: endpoint}
}

// List returns all of a user's devices with short-form names.
func (s *Service) List(ctx context.Context, user *identity.UserProfile) ([]Description, error) {
	records, err := s.devices.QueryByUser(ctx, user.UserID, "")
	if err != nil {
		return nil, err
	}

	result := make([]Description, 0, len(records))
	for _, r := range records {
		d, err := describe(r)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, nil
}

// Describe returns one of a user's devices by thing id, short-form name.
func (s *Service) Describe(ctx context.Context, user *identity.UserProfile, thingID string) (*Description, error) {
	r, err := s.devices.GetByThingID(ctx, user.UserID, thingID)
	if err != nil {
		return nil, err
	}
	d, err := describe(*r)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Provision mints a certificate for a new thing, registers the device
// record and returns the connection spec. The thing name is the owner's
// short id joined to the requested thing id.
func (s *Service) Provision(ctx context.Context, user *identity.UserProfile, req Request) (*Spec, error) {
	thingName := user.ShortID + "_" + req.ThingID

	cert, err := s.issuer.Issue(ctx, req.ThingType)
	if err != nil {
		return nil, fmt.Errorf("issuing certificate for %s: %w", thingName, err)
	}

	record := &registry.DeviceRecord{
		UserID:         user.UserID,
		ThingID:        req.ThingID,
		ThingName:      thingName,
		ThingType:      req.ThingType,
		CertificateID:  cert.ID,
		CertificateARN: cert.ARN,
		ThingARN:       "urn:dasbridge:thing:" + thingName,
	}
	if err := s.devices.Put(ctx, record); err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", user.UserID).
		Str("thing_name", thingName).
		Msg("device provisioned")

	return &Spec{
		Endpoint:    s.endpoint,
		Certificate: *cert,
		ThingID:     record.ThingID,
		ThingARN:    record.ThingARN,
		ThingName:   record.ThingName,
		ThingType:   record.ThingType,
	}, nil
}

func describe(r registry.DeviceRecord) (Description, error) {
	short, err := ShortName(r.ThingName)
	if err != nil {
		return Description{}, err
	}
	return Description{
		CertificateID:  r.CertificateID,
		CertificateARN: r.CertificateARN,
		ThingID:        r.ThingID,
		ThingARN:       r.ThingARN,
		ThingName:      short,
		ThingType:      r.ThingType,
	}, nil
}
