package thing

import (
	"context"

	"github.com/google/uuid"
)

// Certificate is the device identity an Issuer mints for a new thing.
type Certificate struct {
	ID         string `json:"certificateId"`
	ARN        string `json:"certificateArn"`
	PEM        string `json:"certificatePem,omitempty"`
	PublicKey  string `json:"publicKey,omitempty"`
	PrivateKey string `json:"privateKey,omitempty"`
	Policy     string `json:"thingPolicy,omitempty"`
}

// Issuer mints device certificates. Certificate lifecycle belongs to the
// external provisioning service; this interface is the only surface the
// bridge needs.
type Issuer interface {
	Issue(ctx context.Context, thingType string) (*Certificate, error)
}

// NullIssuer is a no-op issuer used when no provisioning service is
// configured. It mints placeholder identities so device registration keeps
// working in limited mode; no key material is produced.
type NullIssuer struct{}

// NewNullIssuer creates a new NullIssuer.
func NewNullIssuer() *NullIssuer {
	return &NullIssuer{}
}

func (i *NullIssuer) Issue(ctx context.Context, thingType string) (*Certificate, error) {
	id := uuid.NewString()
	return &Certificate{
		ID:  id,
		ARN: "urn:dasbridge:cert:" + id,
	}, nil
}
