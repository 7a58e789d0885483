// Package buildinfo exposes build-time version information injected via
// ldflags, shared by the server and CLI binaries.
package buildinfo
