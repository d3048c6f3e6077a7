package domain

import "time"

// Identity is the decoded result of bearer-token verification against the
// identity provider. Immutable per request and never persisted.
type Identity struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
	// ExpiresAt mirrors the token's exp claim so caches never outlive it.
	ExpiresAt time.Time `json:"-"`
}
