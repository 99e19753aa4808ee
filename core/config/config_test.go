package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeYAML(t, `
telegram:
  token: from-file
  run_mode: polling
logging:
  level: debug
rate_limit:
  exclude_updates: [" Callback ", ""]
`)
	t.Setenv("BOT_TOKEN", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Telegram.Token)
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, DefaultRateLimitInterval, cfg.RateLimit.IntervalMS)
	assert.Equal(t, []string{UpdateCallback}, cfg.RateLimit.ExcludeUpdates)
}

func TestLoadWithoutFile(t *testing.T) {
	t.Setenv("BOT_TOKEN", "env-only")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env-only", cfg.Telegram.Token)
}

func TestDecodeRejectsBrokenYAML(t *testing.T) {
	var cfg Config
	err := Decode(writeYAML(t, "telegram: ["), &cfg)
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "missing token", cfg: Config{}, wantErr: true},
		{name: "longpoll default", cfg: Config{Telegram: TelegramConfig{Token: "t"}}},
		{name: "negative poll timeout", cfg: Config{Telegram: TelegramConfig{Token: "t", LongPollTimeoutSeconds: -1}}, wantErr: true},
		{name: "webhook without url", cfg: Config{Telegram: TelegramConfig{Token: "t", RunMode: "webhook"}}, wantErr: true},
		{
			name: "webhook complete",
			cfg: Config{
				Telegram: TelegramConfig{Token: "t", RunMode: "WEBHOOK"},
				Webhook:  WebhookConfig{URL: "https://example.org/hook", Listen: "0.0.0.0", Port: 8443},
			},
		},
		{name: "unknown mode", cfg: Config{Telegram: TelegramConfig{Token: "t", RunMode: "push"}}, wantErr: true},
		{
			name:    "unknown exclusion",
			cfg:     Config{Telegram: TelegramConfig{Token: "t"}, RateLimit: RateLimitConfig{ExcludeUpdates: []string{"poll"}}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Normalize(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, tt.cfg.Telegram.RunMode)
		})
	}
}

func TestNormalizeKeepsDisabledRateLimit(t *testing.T) {
	cfg := Config{Telegram: TelegramConfig{Token: "t"}, RateLimit: RateLimitConfig{IntervalMS: -1}}
	require.NoError(t, Normalize(&cfg))
	assert.Equal(t, -1, cfg.RateLimit.IntervalMS)
}
