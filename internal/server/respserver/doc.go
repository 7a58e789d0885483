// Package respserver provides a Redis-protocol-compatible server for GridMap.
//
// It implements a subset of the RESP protocol over TCP so that standard
// Redis clients (and redis-cli) can drive the table:
//
//	GET / SET / GETSET / GETDEL / DEL / EXISTS / DBSIZE
//	GM.OPS / GM.STATS / GM.DUMP
//	PING / AUTH / QUIT
//
// Keys and values are int64; arguments that do not parse as integers are
// rejected with GM-KV-4003. Connections are guarded by read/write/idle
// deadlines, an optional shared AUTH password, and a per-IP rate limit.
package respserver
