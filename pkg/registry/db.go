package registry

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// DB is the bridge's registry database: users, api keys, provisioned
// devices and runtime configuration, all in one SQLite file.
type DB struct {
	*sql.DB
	path string
}

// Open opens or creates the registry at the given path. An empty path
// selects the default location under the user config directory. Foreign
// keys, WAL journaling and a write-busy timeout are always enabled.
func Open(path string) (*DB, error) {
	path, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating registry directory: %w", err)
	}

	dsn := path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening registry: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("connecting to registry: %w", err)
	}

	return &DB{DB: sqlDB, path: path}, nil
}

// resolvePath expands an empty or ~-prefixed registry path.
func resolvePath(path string) (string, error) {
	switch {
	case path == "":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "dasbridge", "bridge.db"), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("determining registry path: %w", err)
		}
		return filepath.Join(home, ".config", "dasbridge", "bridge.db"), nil

	case strings.HasPrefix(path, "~"):
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding registry path: %w", err)
		}
		return filepath.Join(home, path[1:]), nil

	default:
		return path, nil
	}
}

// Path returns the path to the registry file.
func (db *DB) Path() string {
	return db.path
}

// Close closes the registry.
func (db *DB) Close() error {
	return db.DB.Close()
}
