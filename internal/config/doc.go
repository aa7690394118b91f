// Package config provides 12-factor configuration management for roomdata.
//
// Configuration is loaded from environment variables with sensible defaults
// and validated once at startup. CLI flags override environment variables.
//
// Configuration Sections:
//   - Logging: Log level and output format
//   - Input: Default dump path for extract/analyze/dump-attrs
//   - Metrics: Optional Prometheus textfile destination
//   - Hass: Home Assistant REST API connection
//   - Fix: Target map override for the HTML attribute fixer
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//		return err
//	}
//	fmt.Printf("Reading %s\n", cfg.Input.Path)
//
// Environment Variables:
//   - ROOMDATA_LOG_LEVEL, ROOMDATA_LOG_DEV
//   - ROOMDATA_INPUT, ROOMDATA_METRICS_FILE
//   - ROOMDATA_HASS_URL, ROOMDATA_HASS_TOKEN, ROOMDATA_HASS_TIMEOUT,
//     ROOMDATA_HASS_RETRIES, ROOMDATA_HASS_RPS
//   - ROOMDATA_FIX_TARGETS
package config
