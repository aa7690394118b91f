package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
)

// Config holds all application configuration.
type Config struct {
	Logging LogConfig
	Input   InputConfig
	Metrics MetricsConfig
	Hass    HassConfig
	Fix     FixConfig
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"ROOMDATA_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"ROOMDATA_LOG_DEV" default:"false"`
}

// InputConfig holds the default dump location.
type InputConfig struct {
	Path string `envconfig:"ROOMDATA_INPUT" default:"mockup-Room_entity_data.json"`
}

// MetricsConfig holds metrics export configuration.
type MetricsConfig struct {
	File string `envconfig:"ROOMDATA_METRICS_FILE"`
}

// HassConfig holds Home Assistant REST API configuration.
type HassConfig struct {
	URL               string        `envconfig:"ROOMDATA_HASS_URL" default:"http://homeassistant.local:8123/api"`
	Token             string        `envconfig:"ROOMDATA_HASS_TOKEN"`
	Timeout           time.Duration `envconfig:"ROOMDATA_HASS_TIMEOUT" default:"30s"`
	Retries           int           `envconfig:"ROOMDATA_HASS_RETRIES" default:"3"`
	RequestsPerSecond float64       `envconfig:"ROOMDATA_HASS_RPS" default:"0"`
}

// FixConfig holds HTML attribute fixer configuration.
type FixConfig struct {
	TargetsFile string `envconfig:"ROOMDATA_FIX_TARGETS"`
}

// Load loads configuration from environment variables and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects values that would only fail later, mid-run.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("ROOMDATA_LOG_LEVEL: %w", err)
	}
	if c.Hass.Timeout <= 0 {
		return fmt.Errorf("ROOMDATA_HASS_TIMEOUT: must be positive, got %s", c.Hass.Timeout)
	}
	if c.Hass.Retries < 0 {
		return fmt.Errorf("ROOMDATA_HASS_RETRIES: must not be negative, got %d", c.Hass.Retries)
	}
	if c.Hass.RequestsPerSecond < 0 {
		return fmt.Errorf("ROOMDATA_HASS_RPS: must not be negative, got %g", c.Hass.RequestsPerSecond)
	}
	return nil
}
