// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server      ServerConfig       `mapstructure:"server"`
	Scan        ScanConfig         `mapstructure:"scan"`
	Retry       RetryConfig        `mapstructure:"retry"`
	Store       StoreConfig        `mapstructure:"store"`
	Headless    HeadlessConfig     `mapstructure:"headless"`
	Telegram    TelegramConfig     `mapstructure:"telegram"`
	Logging     LoggingConfig      `mapstructure:"logging"`
	Subscribers []SubscriberConfig `mapstructure:"subscribers"`
}

// ServerConfig controls the health/metrics HTTP surface.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// ScanConfig governs the crawl pipeline.
type ScanConfig struct {
	IntervalMinutes int `mapstructure:"interval_minutes"`
	WindowDays      int `mapstructure:"window_days"`
	PageSize        int `mapstructure:"page_size"`
	MaxPages        int `mapstructure:"max_pages"`
}

// RetryConfig bounds the retry loop around one scan cycle.
type RetryConfig struct {
	MaxAttempts    int `mapstructure:"max_attempts"`
	BackoffSeconds int `mapstructure:"backoff_seconds"`
}

// StoreConfig selects and parameterizes the seen-offer store backend.
type StoreConfig struct {
	Provider string           `mapstructure:"provider"`
	Capacity int              `mapstructure:"capacity"`
	File     FileStoreConfig  `mapstructure:"file"`
	Redis    RedisStoreConfig `mapstructure:"redis"`
}

// FileStoreConfig parameterizes the JSON-file backend.
type FileStoreConfig struct {
	Path string `mapstructure:"path"`
}

// RedisStoreConfig parameterizes the Redis backend.
type RedisStoreConfig struct {
	URL string `mapstructure:"url"`
	Key string `mapstructure:"key"`
}

// HeadlessConfig configures the headless rendering subsystem.
type HeadlessConfig struct {
	UserAgent      string `mapstructure:"user_agent"`
	NavTimeoutSec  int    `mapstructure:"nav_timeout_seconds"`
	SettleDelaySec int    `mapstructure:"settle_delay_seconds"`
}

// TelegramConfig holds the notification channel settings. The token comes
// from the environment; leaving it empty disables delivery.
type TelegramConfig struct {
	Token          string `mapstructure:"token"`
	OperatorChatID string `mapstructure:"operator_chat_id"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// SubscriberConfig declares one alert recipient and its category
// subscriptions ("ALL" for everything).
type SubscriberConfig struct {
	ID            string   `mapstructure:"id"`
	Subscriptions []string `mapstructure:"subscriptions"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TENDERWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("scan.interval_minutes", 15)
	v.SetDefault("scan.window_days", 60)
	v.SetDefault("scan.page_size", 50)
	v.SetDefault("scan.max_pages", 20)
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.backoff_seconds", 60)
	v.SetDefault("store.provider", "file")
	v.SetDefault("store.capacity", 2000)
	v.SetDefault("store.file.path", "data/seen_offers.json")
	v.SetDefault("store.redis.url", "")
	v.SetDefault("store.redis.key", "tenderwatch:seen")
	// Secrets default to empty so viper knows the keys; without a
	// registered key AutomaticEnv never reaches Unmarshal and the
	// TENDERWATCH_* variables would be dropped on the floor.
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.operator_chat_id", "")
	v.SetDefault("headless.user_agent", "tenderwatch/1.0 (+https://github.com/tenderwatch/tenderwatch)")
	v.SetDefault("headless.nav_timeout_seconds", 90)
	v.SetDefault("headless.settle_delay_seconds", 5)
	v.SetDefault("logging.development", false)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Scan.IntervalMinutes <= 0 {
		return fmt.Errorf("scan.interval_minutes must be > 0")
	}
	if c.Scan.PageSize <= 0 {
		return fmt.Errorf("scan.page_size must be > 0")
	}
	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("retry.max_attempts must be > 0")
	}
	if c.Store.Capacity <= 0 {
		return fmt.Errorf("store.capacity must be > 0")
	}
	switch c.Store.Provider {
	case "file":
		if c.Store.File.Path == "" {
			return fmt.Errorf("store.file.path must be set for the file provider")
		}
	case "redis":
		if c.Store.Redis.URL == "" {
			return fmt.Errorf("store.redis.url must be set for the redis provider")
		}
	default:
		return fmt.Errorf("unknown store provider: %s", c.Store.Provider)
	}
	for i, sub := range c.Subscribers {
		if sub.ID == "" {
			return fmt.Errorf("subscribers[%d].id must be set", i)
		}
		if len(sub.Subscriptions) == 0 {
			return fmt.Errorf("subscribers[%d].subscriptions must not be empty", i)
		}
	}
	return nil
}

// Backoff converts the retry backoff into a duration.
func (c Config) Backoff() time.Duration {
	return time.Duration(c.Retry.BackoffSeconds) * time.Second
}

// NavTimeout converts the navigation timeout into a duration.
func (c Config) NavTimeout() time.Duration {
	return time.Duration(c.Headless.NavTimeoutSec) * time.Second
}

// SettleDelay converts the settle delay into a duration.
func (c Config) SettleDelay() time.Duration {
	return time.Duration(c.Headless.SettleDelaySec) * time.Second
}
