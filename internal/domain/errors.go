package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UpstreamError indicates the blob store origin refused or failed a fetch.
	// Distinct from NotFoundError: the reference existed but the origin failed.
	UpstreamError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string   { return e.Message }
func (e *ValidationError) Error() string { return e.Message }
func (e *UpstreamError) Error() string   { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int   { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }
func (e *UpstreamError) StatusCode() int   { return http.StatusBadGateway }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("validation failed")
	ErrUpstream   = errors.New("upstream fetch failed")
)

// Is allows errors.Is() to match against the sentinels
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (folder, file, book)
	ResourceID   string // ID of the existing/conflicting resource
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
