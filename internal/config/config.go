package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all NEO Sentinel configuration.
type Config struct {
	Feed     FeedConfig     `mapstructure:"feed"`
	Sentinel SentinelConfig `mapstructure:"sentinel"`
	Alerts   AlertsConfig   `mapstructure:"alerts"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// FeedConfig defines the upstream telemetry provider and cache settings.
type FeedConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	APIKey       string `mapstructure:"api_key"`
	WindowDays   int    `mapstructure:"window_days"`
	CacheTTL     string `mapstructure:"cache_ttl"`
	FetchTimeout string `mapstructure:"fetch_timeout"`
	RedisAddr    string `mapstructure:"redis_addr"`
	Mock         bool   `mapstructure:"mock"`
}

// SentinelConfig defines the scan cadence and trigger thresholds.
type SentinelConfig struct {
	Interval             string  `mapstructure:"interval"`
	DistanceThresholdKm  float64 `mapstructure:"distance_threshold_km"`
	SizeThresholdM       float64 `mapstructure:"size_threshold_m"`
	VelocityThresholdKph float64 `mapstructure:"velocity_threshold_kph"`
}

// AlertsConfig defines the alert channels.
type AlertsConfig struct {
	Email EmailConfig `mapstructure:"email"`
}

// EmailConfig defines SMTP settings. An empty username selects the
// simulated-send mode.
type EmailConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	From      string `mapstructure:"from"`
	Recipient string `mapstructure:"recipient"`
}

// StorageConfig defines database settings.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig defines the HTTP API settings.
type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("find home directory: %w", err)
		}

		v.AddConfigPath(filepath.Join(home, ".neo-sentinel"))
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Defaults
	home, _ := os.UserHomeDir()
	v.SetDefault("feed.base_url", "https://api.nasa.gov/neo/rest/v1")
	v.SetDefault("feed.api_key", "DEMO_KEY")
	v.SetDefault("feed.window_days", 5)
	v.SetDefault("feed.cache_ttl", "1h")
	v.SetDefault("feed.fetch_timeout", "10s")
	v.SetDefault("sentinel.interval", "60s")
	v.SetDefault("sentinel.distance_threshold_km", 5_000_000)
	v.SetDefault("sentinel.size_threshold_m", 100)
	v.SetDefault("sentinel.velocity_threshold_kph", 50_000)
	v.SetDefault("alerts.email.enabled", true)
	v.SetDefault("alerts.email.port", 587)
	v.SetDefault("alerts.email.from", "sentinel@cosmic.watch")
	v.SetDefault("alerts.email.recipient", "admin@cosmic.watch")
	v.SetDefault("storage.path", filepath.Join(home, ".neo-sentinel", "sentinel.db"))
	v.SetDefault("server.listen", ":8080")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Environment variables
	v.SetEnvPrefix("NEO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate enforces the startup-fatal constraints. A config that fails here
// prevents the sentinel from starting at all.
func (c *Config) Validate() error {
	if c.Feed.WindowDays <= 0 {
		return fmt.Errorf("config: feed.window_days must be positive, got %d", c.Feed.WindowDays)
	}
	if _, err := time.ParseDuration(c.Feed.CacheTTL); err != nil {
		return fmt.Errorf("config: invalid feed.cache_ttl %q: %w", c.Feed.CacheTTL, err)
	}
	if _, err := time.ParseDuration(c.Feed.FetchTimeout); err != nil {
		return fmt.Errorf("config: invalid feed.fetch_timeout %q: %w", c.Feed.FetchTimeout, err)
	}
	if _, err := time.ParseDuration(c.Sentinel.Interval); err != nil {
		return fmt.Errorf("config: invalid sentinel.interval %q: %w", c.Sentinel.Interval, err)
	}
	if c.Sentinel.DistanceThresholdKm <= 0 {
		return fmt.Errorf("config: sentinel.distance_threshold_km must be positive")
	}
	if c.Sentinel.SizeThresholdM <= 0 {
		return fmt.Errorf("config: sentinel.size_threshold_m must be positive")
	}
	if c.Sentinel.VelocityThresholdKph <= 0 {
		return fmt.Errorf("config: sentinel.velocity_threshold_kph must be positive")
	}
	return nil
}

// CacheTTL returns the parsed cache TTL.
func (c *Config) CacheTTL() time.Duration {
	d, _ := time.ParseDuration(c.Feed.CacheTTL)
	return d
}

// FetchTimeout returns the parsed upstream fetch timeout.
func (c *Config) FetchTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Feed.FetchTimeout)
	return d
}

// Interval returns the parsed scan interval.
func (c *Config) Interval() time.Duration {
	d, _ := time.ParseDuration(c.Sentinel.Interval)
	return d
}
