// Package service implements the application service layer for GridMap.
//
// KVService wraps a single chainmap.Map with context-aware methods,
// structured logging, Prometheus instrumentation, and translation from
// the library's sentinel/flag results into DomainErrors at the API
// boundary. Both wire surfaces (RESP and admin HTTP) and the CLI bench
// harness talk to the map through this layer.
package service
