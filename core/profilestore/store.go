// Package profilestore persists user profiles for the pairing engine.
// Two backends implement pairing.ProfileStore: a SQL store on the users
// table (PostgreSQL or sqlite through sqlx) and a Redis hash store.
package profilestore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/aura650/anon-go-bot/core/pairing"
)

const (
	BackendSQL   = "sql"
	BackendRedis = "redis"

	component = "store"
)

var (
	// ErrUserNotFound is returned by setters for a user that was never upserted.
	ErrUserNotFound = errors.New("profilestore: user not found")
	// ErrUnsupportedBackend is returned for an unknown store.backend value.
	ErrUnsupportedBackend = errors.New("profilestore: unsupported backend")
)

// RedisConfig points at the Redis instance used by the redis backend.
type RedisConfig struct {
	Addr      string `yaml:"addr" envconfig:"REDIS_ADDR"`
	Password  string `yaml:"password" envconfig:"REDIS_PASSWORD"`
	DB        int    `yaml:"db" envconfig:"REDIS_DB"`
	KeyPrefix string `yaml:"key_prefix" envconfig:"REDIS_KEY_PREFIX"`
}

// Config selects and configures the profile store backend.
type Config struct {
	Backend string      `yaml:"backend" envconfig:"STORE_BACKEND"`
	Redis   RedisConfig `yaml:"redis"`
}

// Normalize validates the backend and fills Redis defaults.
func (c *Config) Normalize() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = BackendSQL
	}
	switch c.Backend {
	case BackendSQL:
	case BackendRedis:
		if strings.TrimSpace(c.Redis.Addr) == "" {
			return fmt.Errorf("store.redis.addr is required for backend %q", BackendRedis)
		}
		if c.Redis.KeyPrefix == "" {
			c.Redis.KeyPrefix = defaultKeyPrefix
		}
	default:
		return fmt.Errorf("%w: %q; allowed: sql, redis", ErrUnsupportedBackend, c.Backend)
	}
	return nil
}

// Store is a pairing.ProfileStore that can release its resources.
type Store interface {
	pairing.ProfileStore
	Close() error
}

// Open builds the configured backend. db is required for the sql backend and ignored otherwise.
func Open(cfg Config, db *sqlx.DB) (Store, error) {
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case BackendRedis:
		return NewRedis(cfg.Redis), nil
	default:
		if db == nil {
			return nil, errors.New("profilestore: sql backend needs a database connection")
		}
		return NewSQL(db), nil
	}
}
