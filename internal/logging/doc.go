// Package logging provides structured logging using uber/zap.
//
// This package offers production-ready logging with two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Output goes to stderr; stdout carries command results.
//
// Log Levels:
//   - Debug: Verbose debugging information
//   - Info: General informational messages
//   - Warn: Warning messages
//   - Error: Error messages
//   - Fatal: Fatal errors (exits process)
//
// Features:
//   - Zero-allocation logging in production
//   - Structured fields for context
//   - Configurable output paths
//   - Per-run child loggers (run_id, command)
//
// Example Usage:
//
//	logger := logging.FromConfig("info", false).WithRun(id.NewRunID().String(), "extract")
//	logger.Info("Extraction finished", zap.Int("records", len(records)))
//	logger.Error("Failed to read input", zap.Error(err))
package logging
