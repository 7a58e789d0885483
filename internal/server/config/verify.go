// Package config defines the server configuration structure.
package config

import (
	"fmt"
	"net"
	"strings"
)

// Verify checks the configuration for values that would make the server
// start in a broken state. It fails fast rather than patching values up.
func (c *ServerConfig) Verify() error {
	if c.Map.Capacity <= 0 {
		return fmt.Errorf("map.capacity must be positive, got %d", c.Map.Capacity)
	}

	if c.Server.Resp.Enabled {
		if err := verifyAddr("server.resp.addr", c.Server.Resp.Addr); err != nil {
			return err
		}
		if c.Server.Resp.RateLimit < 0 {
			return fmt.Errorf("server.resp.rate_limit must not be negative, got %d", c.Server.Resp.RateLimit)
		}
	}

	if c.Server.HTTP.Enabled {
		if err := verifyAddr("server.http.addr", c.Server.HTTP.Addr); err != nil {
			return err
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text", "console":
	default:
		return fmt.Errorf("log.format %q is not one of json, text", c.Log.Format)
	}

	return nil
}

func verifyAddr(field, addr string) error {
	if addr == "" {
		return fmt.Errorf("%s must not be empty", field)
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("%s %q is not a host:port address: %w", field, addr, err)
	}
	return nil
}
