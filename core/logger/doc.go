// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production)
// and produces the human-readable progress lines emitted during schema reconciliation runs.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Reconciliation started")
//
//	// Per-table correlation:
//	l := logger.WithTable(log, "youth_profiles")
//	l.Error("Table failed", zap.Error(err))
package logger
