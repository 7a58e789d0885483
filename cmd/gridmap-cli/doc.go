// Package main provides the entry point for gridmap-cli.
//
// gridmap-cli is the command-line client for gridmap-server. It speaks
// the RESP protocol and exposes the key-value operations plus table
// diagnostics and an in-process benchmark.
//
// Usage:
//
//	gridmap-cli --server 127.0.0.1:6390 set 7 42
//	gridmap-cli get 7
//	gridmap-cli stats
//
// @design DS-1002
package main
