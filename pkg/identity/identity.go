package identity

import (
	"context"
	"errors"
)

// Token types accepted by Resolve. UserId is a debugging path that maps the
// token directly to a stored user id; BearerToken is the production path
// resolved against the login provider.
const (
	TokenTypeUserID = "UserId"
	TokenTypeBearer = "BearerToken"
)

var (
	// ErrAuth indicates a token could not be resolved to exactly one user
	ErrAuth = errors.New("authorization error")
)

// UserProfile identifies the authenticated owner of a set of devices.
// It is created or refreshed on each authorization and read-only to the
// rest of the system.
type UserProfile struct {
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	APIKey      string `json:"api_key,omitempty"`
	ShortID     string `json:"short_id"`
	LastUpdated int64  `json:"last_updated,omitempty"`
}

// Provider resolves inbound credentials to user profiles.
type Provider interface {
	// Resolve maps a token of the given type to a user profile
	Resolve(ctx context.Context, tokenType, token string) (*UserProfile, error)

	// ResolveAPIKey maps a management-API key id to a user profile
	ResolveAPIKey(ctx context.Context, apiKeyID string) (*UserProfile, error)
}

// UserStore is the registry surface the provider reads and refreshes
// profiles through.
type UserStore interface {
	GetByID(ctx context.Context, userID string) (*UserProfile, error)
	GetByShortID(ctx context.Context, shortID string) (*UserProfile, error)
	Upsert(ctx context.Context, p *UserProfile) error
}

// KeyStore maps management-API key ids to user short ids.
type KeyStore interface {
	ShortIDForKey(ctx context.Context, apiKeyID string) (string, error)
}
