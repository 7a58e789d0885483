// Package logger provides structured logging for GridMap.
//
// This package wraps log/slog for structured logging:
//
//   - logger.go: handler configuration and initialization
//   - context.go: context-aware logging with request/connection IDs
//
// Features:
//
//   - JSON and text output formats
//   - Dynamic log level adjustment at runtime
//   - Package-level default logger for convenience
package logger
