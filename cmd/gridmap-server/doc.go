// Package main provides the entry point for gridmap-server.
//
// The server hosts a fixed-capacity concurrent hash table behind:
//
//   - A Redis-compatible (RESP) protocol endpoint for data access
//   - An admin HTTP endpoint for health, metrics and statistics
//
// Usage:
//
//	gridmap-server [flags]
//	gridmap-server --config /path/to/config.yaml
//
// The server loads configuration, initializes the table and telemetry,
// and starts all enabled listeners.
//
// @design DS-1001
package main
