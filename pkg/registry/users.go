package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dasbridge/bridge/pkg/identity"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrKeyNotFound  = errors.New("api key not found")
)

// UserStore provides user profile lookups and upserts. It satisfies
// identity.UserStore.
type UserStore interface {
	GetByID(ctx context.Context, userID string) (*identity.UserProfile, error)
	GetByShortID(ctx context.Context, shortID string) (*identity.UserProfile, error)
	Upsert(ctx context.Context, p *identity.UserProfile) error
}

// Users returns a UserStore for this database.
func (db *DB) Users() UserStore {
	return &userStore{db: db}
}

type userStore struct {
	db *DB
}

func (s *userStore) GetByID(ctx context.Context, userID string) (*identity.UserProfile, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `
		SELECT user_id, name, email, short_id, last_updated
		FROM users WHERE user_id = ?
	`, userID))
}

func (s *userStore) GetByShortID(ctx context.Context, shortID string) (*identity.UserProfile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, name, email, short_id, last_updated
		FROM users WHERE short_id = ? LIMIT 2
	`, shortID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var profiles []*identity.UserProfile
	for rows.Next() {
		p := &identity.UserProfile{}
		if err := rows.Scan(&p.UserID, &p.Name, &p.Email, &p.ShortID, &p.LastUpdated); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Zero or multiple matches are both lookup failures
	if len(profiles) != 1 {
		return nil, fmt.Errorf("%w: short id %s matched %d users", ErrUserNotFound, shortID, len(profiles))
	}
	return profiles[0], nil
}

func (s *userStore) Upsert(ctx context.Context, p *identity.UserProfile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (user_id, name, email, short_id, last_updated)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			short_id = excluded.short_id,
			last_updated = excluded.last_updated
	`, p.UserID, p.Name, p.Email, p.ShortID, p.LastUpdated)
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", p.UserID, err)
	}
	return nil
}

func (s *userStore) scanOne(row *sql.Row) (*identity.UserProfile, error) {
	p := &identity.UserProfile{}
	err := row.Scan(&p.UserID, &p.Name, &p.Email, &p.ShortID, &p.LastUpdated)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// KeyStore maps management API keys to user short ids. It satisfies
// identity.KeyStore.
type KeyStore interface {
	ShortIDForKey(ctx context.Context, apiKeyID string) (string, error)
	Create(ctx context.Context, apiKeyID, shortID string, created int64) error
}

// Keys returns a KeyStore for this database.
func (db *DB) Keys() KeyStore {
	return &keyStore{db: db}
}

type keyStore struct {
	db *DB
}

func (s *keyStore) ShortIDForKey(ctx context.Context, apiKeyID string) (string, error) {
	var shortID string
	err := s.db.QueryRowContext(ctx, `
		SELECT short_id FROM api_keys WHERE api_key = ?
	`, apiKeyID).Scan(&shortID)
	if err == sql.ErrNoRows {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return shortID, nil
}

func (s *keyStore) Create(ctx context.Context, apiKeyID, shortID string, created int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO api_keys (api_key, short_id, created) VALUES (?, ?, ?)
	`, apiKeyID, shortID, created)
	if err != nil {
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}
