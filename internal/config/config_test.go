package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Scan.PageSize != 50 {
		t.Fatalf("expected default page size 50, got %d", cfg.Scan.PageSize)
	}
	if cfg.Scan.WindowDays != 60 {
		t.Fatalf("expected default window 60 days, got %d", cfg.Scan.WindowDays)
	}
	if cfg.Retry.MaxAttempts != 3 || cfg.Backoff() != 60*time.Second {
		t.Fatalf("expected default retry policy, got %d/%v", cfg.Retry.MaxAttempts, cfg.Backoff())
	}
	if cfg.Store.Provider != "file" || cfg.Store.Capacity != 2000 {
		t.Fatalf("expected default file store, got %+v", cfg.Store)
	}
	if cfg.Telegram.Token != "" {
		t.Fatalf("expected no token by default")
	}
}

func TestLoadWithFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
server:
  port: 9090
scan:
  interval_minutes: 5
  window_days: 30
  page_size: 25
retry:
  max_attempts: 5
  backoff_seconds: 10
store:
  provider: redis
  capacity: 500
  redis:
    url: redis://localhost:6379
telegram:
  operator_chat_id: "111"
logging:
  development: true
subscribers:
  - id: "111"
    subscriptions: ["ALL"]
  - id: "222"
    subscriptions: ["Data", "Infra"]
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Scan.IntervalMinutes != 5 || cfg.Scan.WindowDays != 30 || cfg.Scan.PageSize != 25 {
		t.Fatalf("expected scan overrides to apply: %+v", cfg.Scan)
	}
	if cfg.Retry.MaxAttempts != 5 || cfg.Backoff() != 10*time.Second {
		t.Fatalf("expected retry overrides to apply: %+v", cfg.Retry)
	}
	if cfg.Store.Provider != "redis" || cfg.Store.Redis.URL != "redis://localhost:6379" {
		t.Fatalf("expected redis store config: %+v", cfg.Store)
	}
	if len(cfg.Subscribers) != 2 {
		t.Fatalf("expected two subscribers, got %d", len(cfg.Subscribers))
	}
	if cfg.Subscribers[1].ID != "222" || len(cfg.Subscribers[1].Subscriptions) != 2 {
		t.Fatalf("expected subscriber list to be preserved: %+v", cfg.Subscribers)
	}
}

func TestLoadReadsEnvironmentWithoutFile(t *testing.T) {
	t.Setenv("TENDERWATCH_TELEGRAM_TOKEN", "123456:secret")
	t.Setenv("TENDERWATCH_TELEGRAM_OPERATOR_CHAT_ID", "4242")
	t.Setenv("TENDERWATCH_STORE_REDIS_URL", "redis://localhost:6379")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Telegram.Token != "123456:secret" {
		t.Fatalf("expected token from environment, got %q", cfg.Telegram.Token)
	}
	if cfg.Telegram.OperatorChatID != "4242" {
		t.Fatalf("expected operator chat id from environment, got %q", cfg.Telegram.OperatorChatID)
	}
	if cfg.Store.Redis.URL != "redis://localhost:6379" {
		t.Fatalf("expected redis url from environment, got %q", cfg.Store.Redis.URL)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	base := func() Config {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"zero interval", func(c *Config) { c.Scan.IntervalMinutes = 0 }},
		{"zero page size", func(c *Config) { c.Scan.PageSize = 0 }},
		{"zero attempts", func(c *Config) { c.Retry.MaxAttempts = 0 }},
		{"unknown provider", func(c *Config) { c.Store.Provider = "s3" }},
		{"redis without url", func(c *Config) { c.Store.Provider = "redis"; c.Store.Redis.URL = "" }},
		{"subscriber without id", func(c *Config) {
			c.Subscribers = []SubscriberConfig{{Subscriptions: []string{"ALL"}}}
		}},
		{"subscriber without subscriptions", func(c *Config) {
			c.Subscribers = []SubscriberConfig{{ID: "111"}}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
		})
	}
}
