// Package config defines the server configuration structure.
package config

import "time"

// Default configuration values.
const (
	DefaultCapacity = 1024

	DefaultRespAddr = "127.0.0.1:6390"
	DefaultHTTPAddr = "127.0.0.1:5190"

	DefaultRespRateLimit = 5000

	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 30 * time.Second
	DefaultIdleTimeout  = 5 * time.Minute

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Map: MapSection{
			Capacity: DefaultCapacity,
		},
		Server: ServerSection{
			Resp: RespConfig{
				Enabled:      true,
				Addr:         DefaultRespAddr,
				RateLimit:    DefaultRespRateLimit,
				ReadTimeout:  DefaultReadTimeout,
				WriteTimeout: DefaultWriteTimeout,
				IdleTimeout:  DefaultIdleTimeout,
			},
			HTTP: HTTPConfig{
				Enabled: true,
				Addr:    DefaultHTTPAddr,
			},
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
