package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultProfileURL is the login provider's profile endpoint.
const DefaultProfileURL = "https://api.amazon.com/user/profile"

// shortIDPrefix is stripped from provider user ids to form the short id.
const shortIDPrefix = "amzn1.account."

// AmazonProvider resolves bearer tokens against the Amazon profile endpoint
// and refreshes the resolved profile in the registry. The UserId token type
// is a debugging path that reads the registry directly.
type AmazonProvider struct {
	users      UserStore
	keys       KeyStore
	client     *http.Client
	profileURL string
}

// NewAmazonProvider creates a provider over the given stores. profileURL
// may be empty to use the production endpoint.
func NewAmazonProvider(users UserStore, keys KeyStore, profileURL string) *AmazonProvider {
	if profileURL == "" {
		profileURL = DefaultProfileURL
	}
	return &AmazonProvider{
		users:      users,
		keys:       keys,
		client:     &http.Client{Timeout: 10 * time.Second},
		profileURL: profileURL,
	}
}

// Resolve maps a token to a user profile. Unknown token types and lookups
// that do not yield exactly one user fail with ErrAuth.
func (p *AmazonProvider) Resolve(ctx context.Context, tokenType, token string) (*UserProfile, error) {
	switch tokenType {
	case TokenTypeUserID:
		profile, err := p.users.GetByID(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("%w: user id %s: %v", ErrAuth, token, err)
		}
		return profile, nil

	case TokenTypeBearer:
		return p.resolveBearer(ctx, token)

	default:
		return nil, fmt.Errorf("%w: unexpected token type %q", ErrAuth, tokenType)
	}
}

func (p *AmazonProvider) resolveBearer(ctx context.Context, token string) (*UserProfile, error) {
	endpoint := p.profileURL + "?access_token=" + url.QueryEscape(token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: profile lookup: %v", ErrAuth, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: profile lookup returned %d", ErrAuth, resp.StatusCode)
	}

	profile := &UserProfile{}
	if err := json.NewDecoder(resp.Body).Decode(profile); err != nil {
		return nil, fmt.Errorf("%w: decoding profile: %v", ErrAuth, err)
	}

	profile.ShortID = strings.TrimPrefix(profile.UserID, shortIDPrefix)
	profile.LastUpdated = time.Now().Unix()

	// Always refresh; creates the user on first authorization
	if err := p.users.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("storing profile for %s: %w", profile.UserID, err)
	}

	log.Debug().Str("user_id", profile.UserID).Msg("profile refreshed")

	return profile, nil
}

// ResolveAPIKey maps an API key id to its owning user by following the key
// record's short id into the user table.
func (p *AmazonProvider) ResolveAPIKey(ctx context.Context, apiKeyID string) (*UserProfile, error) {
	shortID, err := p.keys.ShortIDForKey(ctx, apiKeyID)
	if err != nil {
		return nil, fmt.Errorf("%w: no users found for key %s", ErrAuth, apiKeyID)
	}

	profile, err := p.users.GetByShortID(ctx, shortID)
	if err != nil {
		return nil, fmt.Errorf("%w: no users found for key %s", ErrAuth, apiKeyID)
	}

	profile.APIKey = apiKeyID
	return profile, nil
}
