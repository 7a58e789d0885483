// Package domain defines the core domain types and errors for GridMap.
//
// GridMap's domain is deliberately small: integer keys, integer values,
// and a structured error taxonomy shared by the RESP and HTTP surfaces.
// Error codes follow the GM-<AREA>-<NNNN> convention, where the numeric
// part mirrors the closest HTTP status.
package domain
