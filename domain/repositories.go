package domain

import (
	"context"
	"time"
)

// UserRepository provides access to stored user profiles.
type UserRepository interface {
	GetProfileByUID(ctx context.Context, uid string) (*UserProfile, error)
	GetProfileByEmail(ctx context.Context, email string) (*UserProfile, error)
	UpsertProfile(ctx context.Context, profile *UserProfile) error
	// SetApprovalStatus updates only the approval status of a profile.
	SetApprovalStatus(ctx context.Context, uid string, status ApprovalStatus) error
	// ListProfiles returns a page of profiles plus the next page token
	// (empty when exhausted).
	ListProfiles(ctx context.Context, pageToken string, pageSize int) ([]*UserProfile, string, error)
}

// SessionRepository persists user sessions. The store owns TTL enforcement;
// callers never rely on it for synchronous eviction.
type SessionRepository interface {
	StoreSession(ctx context.Context, session *Session) error
	GetSessionByID(ctx context.Context, id string) (*Session, error)
	// TouchSession updates last_activity and pushes expires_at forward.
	TouchSession(ctx context.Context, id string, lastActivity, expiresAt time.Time) error
	RevokeSession(ctx context.Context, id string) error
	// CountActiveByUser counts live (unexpired, unrevoked) sessions for a uid.
	CountActiveByUser(ctx context.Context, userID string) (int64, error)
	ListSessionsByUserID(ctx context.Context, userID string) ([]*Session, error)
}

// ChatbotRepository stores tenant chatbot configurations. All lookups are
// owner-scoped: a foreign id behaves as missing.
type ChatbotRepository interface {
	Create(ctx context.Context, bot *Chatbot) error
	GetByID(ctx context.Context, ownerUID, id string) (*Chatbot, error)
	ListByOwner(ctx context.Context, ownerUID string) ([]*Chatbot, error)
	Update(ctx context.Context, bot *Chatbot) error
	Delete(ctx context.Context, ownerUID, id string) error
}

// WebsiteRepository stores WebVault websites and their attached services.
type WebsiteRepository interface {
	Create(ctx context.Context, site *Website) error
	GetByID(ctx context.Context, ownerUID, id string) (*Website, error)
	ListByOwner(ctx context.Context, ownerUID string) ([]*Website, error)
	Update(ctx context.Context, site *Website) error
	Delete(ctx context.Context, ownerUID, id string) error
	AddService(ctx context.Context, ownerUID, id string, svc WebsiteService) error
}

// AgentRepository stores tenant AI agent definitions.
type AgentRepository interface {
	Create(ctx context.Context, agent *Agent) error
	GetByID(ctx context.Context, ownerUID, id string) (*Agent, error)
	ListByOwner(ctx context.Context, ownerUID string) ([]*Agent, error)
	Update(ctx context.Context, agent *Agent) error
	Delete(ctx context.Context, ownerUID, id string) error
}
