package database

import (
	"fmt"
	"strings"
)

const (
	// DriverPostgres selects the lib/pq backed PostgreSQL driver.
	DriverPostgres = "postgres"
	// DriverSQLite selects the pure-Go modernc.org/sqlite driver.
	DriverSQLite = "sqlite"

	defaultMigrationsDir = "migrations"
	defaultSQLitePath    = "data/anongo.db"
)

// Config holds database connection settings.
type Config struct {
	Driver         string `yaml:"driver" envconfig:"DB_DRIVER"`
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
	// Path is the sqlite database file; ":memory:" keeps everything in process.
	Path          string `yaml:"path" envconfig:"DB_PATH"`
	MigrationsDir string `yaml:"migrations_dir" envconfig:"DB_MIGRATIONS_DIR"`
}

// Normalize validates the driver specific fields and fills defaults.
func (c *Config) Normalize() error {
	c.Driver = strings.ToLower(strings.TrimSpace(c.Driver))
	switch c.Driver {
	case "", "pg", "postgresql":
		c.Driver = DriverPostgres
	case "sqlite3":
		c.Driver = DriverSQLite
	}

	switch c.Driver {
	case DriverPostgres:
		if strings.TrimSpace(c.Host) == "" {
			return fmt.Errorf("database.host is required for driver %q", c.Driver)
		}
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("database.name is required for driver %q", c.Driver)
		}
		if c.Port == "" {
			c.Port = "5432"
		}
		if c.SSLMode == "" {
			c.SSLMode = "disable"
		}
		if c.MaxConnections <= 0 {
			c.MaxConnections = 10
		}
	case DriverSQLite:
		if strings.TrimSpace(c.Path) == "" {
			c.Path = defaultSQLitePath
		}
		// sqlite allows a single writer
		c.MaxConnections = 1
	default:
		return fmt.Errorf("%w: %q; allowed: postgres, sqlite", ErrUnsupportedDriver, c.Driver)
	}

	if strings.TrimSpace(c.MigrationsDir) == "" {
		c.MigrationsDir = defaultMigrationsDir
	}
	return nil
}
