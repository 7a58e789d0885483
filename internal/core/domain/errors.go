// Package domain defines the core domain types and errors for GridMap.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
//
// @req RQ-0104
// @design DS-0104
type DomainError struct {
	Code    string // Error code (e.g., "GM-KV-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison by code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks whether the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Key-value errors (KV)
// ============================================================================

var (
	// ErrKeyNotFound indicates the requested key is absent.
	ErrKeyNotFound = NewDomainError("GM-KV-4040", "key not found")

	// ErrInvalidCapacity indicates a non-positive bucket capacity.
	ErrInvalidCapacity = NewDomainError("GM-KV-4000", "capacity must be positive")

	// ErrReservedValue indicates an attempt to store the not-found sentinel.
	ErrReservedValue = NewDomainError("GM-KV-4001", "value is reserved")

	// ErrNotInteger indicates a wire argument that is not a valid int64.
	ErrNotInteger = NewDomainError("GM-KV-4003", "key or value is not an integer")

	// ErrStoreClosed indicates the store has been torn down.
	ErrStoreClosed = NewDomainError("GM-KV-5030", "store is closed")
)

// ============================================================================
// Auth / rate errors
// ============================================================================

var (
	// ErrInvalidCredentials indicates a failed AUTH attempt.
	ErrInvalidCredentials = NewDomainError("GM-AUTH-4010", "invalid credentials")

	// ErrRateLimited indicates the per-client rate limit was exceeded.
	ErrRateLimited = NewDomainError("GM-RATE-4290", "rate limit exceeded")
)
