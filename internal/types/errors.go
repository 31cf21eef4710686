package types

import (
	"errors"
	"fmt"
)

// Error kinds for classifying failures across both providers
const (
	ErrInvalidRequest   = "invalid_request"
	ErrUnauthorized     = "unauthorized"
	ErrNotFound         = "not_found"
	ErrUpstreamRejected = "upstream_rejected"
	ErrNetwork          = "network_error"
	ErrUnknownUpstream  = "unknown_upstream_error"
)

// APIError carries a classified failure from a provider call. Status is the
// upstream HTTP status when one was received (0 for transport failures), Op
// labels the call for log readability, Body preserves the raw upstream
// response.
type APIError struct {
	Kind    string
	Status  int
	Op      string
	Message string
	Body    string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s failed (%d): %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// NewAPIError creates a classified error with a formatted message.
func NewAPIError(kind, op, format string, args ...interface{}) *APIError {
	return &APIError{
		Kind:    kind,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}

// KindOf returns the classification of err, or ErrUnknownUpstream when err
// carries no APIError in its chain.
func KindOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ErrUnknownUpstream
}

// IsNotFound reports whether err is a provider 404.
func IsNotFound(err error) bool {
	return KindOf(err) == ErrNotFound
}
