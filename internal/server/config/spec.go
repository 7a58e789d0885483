// Package config defines the server configuration structure.
package config

import "time"

// ServerConfig is the root configuration for gridmap-server.
type ServerConfig struct {
	Map    MapSection    `koanf:"map"`
	Server ServerSection `koanf:"server"`
	Log    LogSection    `koanf:"log"`
}

// MapSection configures the backing table.
type MapSection struct {
	// Capacity is the fixed bucket count. Must be positive; the table
	// never resizes, so size this for the expected key population.
	Capacity int `koanf:"capacity"`

	// ScatterHash switches bucket placement from key-modulo to a murmur3
	// hash, which evens out chain depth under sequential key ranges.
	ScatterHash bool `koanf:"scatter_hash"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	Resp RespConfig `koanf:"resp"`
	HTTP HTTPConfig `koanf:"http"`
}

// RespConfig configures the RESP protocol server.
type RespConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`

	// AuthPassword, when non-empty, requires AUTH before any data command.
	AuthPassword string `koanf:"auth_password"`

	// RateLimit is the maximum commands per second per client IP.
	// 0 disables rate limiting.
	RateLimit int `koanf:"rate_limit"`

	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

// HTTPConfig configures the admin HTTP server.
type HTTPConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`

	// RateLimit is the maximum requests per second per client IP.
	// 0 disables rate limiting.
	RateLimit int `koanf:"rate_limit"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
