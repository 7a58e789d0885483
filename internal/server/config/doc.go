// Package config defines the server configuration structure for
// gridmap-server: the table section (capacity, bucket placement), the
// RESP and admin HTTP endpoints, and logging. Values load through
// internal/infra/confloader with priority Env > File > Default.
package config
