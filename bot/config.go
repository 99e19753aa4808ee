package bot

import (
	"errors"
	"time"

	coreconfig "github.com/aura650/anon-go-bot/core/config"
	"github.com/aura650/anon-go-bot/core/database"
	"github.com/aura650/anon-go-bot/core/pairing"
	"github.com/aura650/anon-go-bot/core/profilestore"
	"github.com/aura650/anon-go-bot/core/telegram/sender"
)

// MatchingConfig tunes the pairing engine.
type MatchingConfig struct {
	MoodTTLSeconds int `yaml:"mood_ttl_seconds" envconfig:"MOOD_TTL_SECONDS"`
	StoreTimeoutMS int `yaml:"store_timeout_ms" envconfig:"STORE_TIMEOUT_MS"`
}

// SenderConfig sizes the outbound Bot API worker pool.
type SenderConfig struct {
	QueueSize    int `yaml:"queue_size" envconfig:"SENDER_QUEUE_SIZE"`
	Workers      int `yaml:"workers" envconfig:"SENDER_WORKERS"`
	MaxRetries   int `yaml:"max_retries" envconfig:"SENDER_MAX_RETRIES"`
	RetryDelayMS int `yaml:"retry_delay_ms" envconfig:"SENDER_RETRY_DELAY_MS"`
}

// Config is the full Anon-Go configuration: the core sections plus the
// database, profile store, matching and sender sections.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database database.Config     `yaml:"database"`
	Store    profilestore.Config `yaml:"store"`
	Matching MatchingConfig      `yaml:"matching"`
	Sender   SenderConfig        `yaml:"sender"`
}

// CoreConfig exposes the embedded core configuration to core/cmd.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// Load reads path (optional) and the environment, then validates every section.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates the sections in place. The database section is only
// checked when the SQL store backend needs it.
func (c *Config) Normalize() error {
	if err := coreconfig.Normalize(&c.Config); err != nil {
		return err
	}
	if err := c.Store.Normalize(); err != nil {
		return err
	}
	if c.Store.Backend == profilestore.BackendSQL {
		if err := c.Database.Normalize(); err != nil {
			return err
		}
	}
	if c.Matching.MoodTTLSeconds < 0 || c.Matching.StoreTimeoutMS < 0 {
		return errors.New("matching.mood_ttl_seconds and matching.store_timeout_ms must be >= 0")
	}
	if c.Matching.MoodTTLSeconds == 0 {
		c.Matching.MoodTTLSeconds = int(pairing.DefaultMoodTTL / time.Second)
	}
	if c.Matching.StoreTimeoutMS == 0 {
		c.Matching.StoreTimeoutMS = int(pairing.DefaultStoreTimeout / time.Millisecond)
	}
	if c.Sender.MaxRetries < 0 {
		return errors.New("sender.max_retries must be >= 0")
	}
	return nil
}

// EngineOptions converts the matching section.
func (c *Config) EngineOptions() pairing.Options {
	return pairing.Options{
		MoodTTL:      time.Duration(c.Matching.MoodTTLSeconds) * time.Second,
		StoreTimeout: time.Duration(c.Matching.StoreTimeoutMS) * time.Millisecond,
	}
}

// SenderOptions converts the sender section; zero values take the dispatcher defaults.
func (c *Config) SenderOptions() sender.Options {
	return sender.Options{
		QueueSize:    c.Sender.QueueSize,
		Workers:      c.Sender.Workers,
		MaxRetries:   c.Sender.MaxRetries,
		RetryBackoff: time.Duration(c.Sender.RetryDelayMS) * time.Millisecond,
	}
}
