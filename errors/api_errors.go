package errors

import (
	"fmt"
	"net/http"
)

// APIError is the standardized JSON error body returned by every endpoint.
type APIError struct {
	Code     string   `json:"error"`
	Message  string   `json:"message,omitempty"`
	Details  []string `json:"details,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Status   int      `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error taxonomy codes.
const (
	Unauthenticated  = "unauthenticated"
	NotFound         = "not_found"
	Forbidden        = "forbidden"
	PolicyViolation  = "policy_violation"
	ValidationFailed = "validation_failed"
	InvalidRequest   = "invalid_request"
	Internal         = "internal"
)

// Common error constructors

func NewUnauthenticated(message string) *APIError {
	return &APIError{
		Code:    Unauthenticated,
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

func NewNotFound(message string) *APIError {
	return &APIError{
		Code:    NotFound,
		Message: message,
		Status:  http.StatusNotFound,
	}
}

func NewForbidden(message string) *APIError {
	return &APIError{
		Code:    Forbidden,
		Message: message,
		Status:  http.StatusForbidden,
	}
}

// NewPolicyViolation covers policy rejections that are not auth failures,
// notably the concurrent-session cap. Clients depend on the 429 status to
// tell policy violations from 401s.
func NewPolicyViolation(message string) *APIError {
	return &APIError{
		Code:    PolicyViolation,
		Message: message,
		Status:  http.StatusTooManyRequests,
	}
}

// NewValidationFailed carries the itemized security-policy errors and
// warnings alongside a 401.
func NewValidationFailed(details, warnings []string) *APIError {
	return &APIError{
		Code:     ValidationFailed,
		Message:  "security validation failed",
		Details:  details,
		Warnings: warnings,
		Status:   http.StatusUnauthorized,
	}
}

func NewInvalidRequest(message string) *APIError {
	return &APIError{
		Code:    InvalidRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewInternal returns the generic 500 body. Detail stays in server logs only.
func NewInternal() *APIError {
	return &APIError{
		Code:    Internal,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
	}
}
