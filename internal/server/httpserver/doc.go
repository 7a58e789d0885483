// Package httpserver provides the admin HTTP endpoint for GridMap.
//
// It serves liveness (/healthz), Prometheus metrics (/metrics), table
// statistics (/api/v1/stats) and a small JSON key-value surface under
// /api/v1/keys/{key}. It is an operational side door, not the data
// plane; the RESP server is the primary protocol.
package httpserver
