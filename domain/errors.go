package domain

import "errors"

// Sentinel errors shared across repositories and services. Handlers map these
// to the API error taxonomy at the boundary; raw store errors never reach
// clients.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrProfileNotFound = errors.New("user profile not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrTooManySessions = errors.New("too many concurrent sessions")
	ErrNotFound        = errors.New("resource not found")
	ErrAlreadyExists   = errors.New("resource already exists")
)
