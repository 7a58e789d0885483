// Package connection implements the minimal RESP client used by the
// gridmap-cli binary to talk to a gridmap-server.
package connection
