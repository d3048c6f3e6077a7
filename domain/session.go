package domain

import "time"

// Session represents an active user session. Stored in MongoDB (TTL index on
// expires_at) or Redis (native key TTL) depending on configuration; the store
// owns actual expiry enforcement.
type Session struct {
	ID           string    `bson:"_id" json:"sessionId"`
	UserID       string    `bson:"user_id" json:"userId"`
	IPAddress    string    `bson:"ip_address,omitempty" json:"ipAddress,omitempty"`
	UserAgent    string    `bson:"user_agent,omitempty" json:"userAgent,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	LastActivity time.Time `bson:"last_activity" json:"lastActivity"`
	ExpiresAt    time.Time `bson:"expires_at" json:"expiresAt"`
	Revoked      bool      `bson:"revoked,omitempty" json:"-"`
}

// Live reports whether the session is still usable at the given instant.
func (s *Session) Live(now time.Time) bool {
	return !s.Revoked && now.Before(s.ExpiresAt)
}
