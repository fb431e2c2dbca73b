package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrNoActiveProfile = errors.New("no active profile found")

// Config is the complete runtime configuration loaded from the database.
type Config struct {
	ProfileName string
	Server      Server
	Broker      Broker
}

// Server is the HTTP listen configuration.
type Server struct {
	Host string
	Port int
}

// Address returns the listen address (host:port).
func (s Server) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Broker is the shadow broker connection configuration.
type Broker struct {
	URL      string
	ClientID string
	Username string
	Password string
}

// ActiveConfig loads the complete configuration for the active profile.
func (db *DB) ActiveConfig(ctx context.Context) (*Config, error) {
	var profileID int64
	cfg := &Config{}

	err := db.QueryRowContext(ctx, `
		SELECT id, name FROM profiles WHERE is_active = 1 LIMIT 1
	`).Scan(&profileID, &cfg.ProfileName)
	if err == sql.ErrNoRows {
		return nil, ErrNoActiveProfile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active profile: %w", err)
	}

	err = db.QueryRowContext(ctx, `
		SELECT host, port FROM servers WHERE profile_id = ?
	`, profileID).Scan(&cfg.Server.Host, &cfg.Server.Port)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get server config: %w", err)
	}
	if err == sql.ErrNoRows {
		cfg.Server = Server{Host: "0.0.0.0", Port: 8080}
	}

	err = db.QueryRowContext(ctx, `
		SELECT url, client_id, username, password FROM brokers WHERE profile_id = ?
	`, profileID).Scan(&cfg.Broker.URL, &cfg.Broker.ClientID, &cfg.Broker.Username, &cfg.Broker.Password)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get broker config: %w", err)
	}
	if err == sql.ErrNoRows {
		cfg.Broker = Broker{URL: "tcp://localhost:1883", ClientID: "dasbridge"}
	}

	return cfg, nil
}
