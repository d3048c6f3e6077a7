package session

import (
	"context"
	"fmt"
	"time"

	"github.com/chathub-dev/chathub/domain"
	"github.com/chathub-dev/chathub/internal/audit"
	"github.com/chathub-dev/chathub/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Manager owns the session lifecycle: creation under the concurrency cap,
// validation with a sliding inactivity window, and revocation. It holds no
// state of its own; the repository is the source of truth and the store owns
// TTL enforcement.
type Manager struct {
	sessions      domain.SessionRepository
	ttl           time.Duration
	maxConcurrent int
}

// NewManager creates a new session Manager.
func NewManager(sessions domain.SessionRepository, ttl time.Duration, maxConcurrent int) *Manager {
	return &Manager{
		sessions:      sessions,
		ttl:           ttl,
		maxConcurrent: maxConcurrent,
	}
}

// newSessionID composes uid + millisecond timestamp + uuid suffix. The uuid
// suffix keeps two ids distinct even within one clock tick.
func newSessionID(uid string, now time.Time) string {
	return fmt.Sprintf("%s_%d_%s", uid, now.UnixMilli(), uuid.NewString()[:8])
}

// CreateSession persists a new session for uid after enforcing the
// concurrency cap. Returns domain.ErrTooManySessions (mapped to 429 by
// callers, never 401) when the cap is reached.
func (m *Manager) CreateSession(ctx context.Context, uid, ip, userAgent string) (*domain.Session, error) {
	count, err := m.sessions.CountActiveByUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("counting sessions for %s: %w", uid, err)
	}
	if count >= int64(m.maxConcurrent) {
		audit.Log("SessionManager", "CreateSession", uid, "", "Concurrent session cap reached", false, domain.ErrTooManySessions)
		return nil, domain.ErrTooManySessions
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:           newSessionID(uid, now),
		UserID:       uid,
		IPAddress:    ip,
		UserAgent:    userAgent,
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(m.ttl),
	}

	if err := m.sessions.StoreSession(ctx, session); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}

	metrics.SessionsCreatedTotal.Inc()
	metrics.ActiveSessionsGauge.Inc()
	log.Debug().Str("uid", uid).Str("session_id", session.ID).Msg("Session created")
	return session, nil
}

// ValidateSession checks that a session exists, belongs to uid, and is still
// live, then slides the inactivity window forward. A foreign session id
// behaves as missing and is never touched. Not-found and expired are distinct
// reasons for diagnostics; both surface as 401 to clients.
func (m *Manager) ValidateSession(ctx context.Context, uid, sessionID string) (*domain.Session, error) {
	session, err := m.sessions.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != uid {
		return nil, domain.ErrSessionNotFound
	}

	now := time.Now().UTC()
	if !session.Live(now) {
		return nil, domain.ErrSessionExpired
	}

	session.LastActivity = now
	session.ExpiresAt = now.Add(m.ttl)
	if err := m.sessions.TouchSession(ctx, sessionID, session.LastActivity, session.ExpiresAt); err != nil {
		// The session remains valid; a failed touch only shortens the window.
		log.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to touch session")
	}

	return session, nil
}

// CheckConcurrentSessions reports whether uid is below the concurrency cap:
// true iff the live-session count is strictly below the configured maximum.
// The check never evicts sessions; cleanup is the store's housekeeping.
func (m *Manager) CheckConcurrentSessions(ctx context.Context, uid, sessionID string) (bool, error) {
	count, err := m.sessions.CountActiveByUser(ctx, uid)
	if err != nil {
		return false, fmt.Errorf("counting sessions for %s: %w", uid, err)
	}
	ok := count < int64(m.maxConcurrent)
	if !ok {
		log.Warn().
			Str("uid", uid).
			Str("session_id", sessionID).
			Int64("count", count).
			Int("max", m.maxConcurrent).
			Msg("Concurrent session cap exceeded")
	}
	return ok, nil
}

// RevokeSession revokes a session (logout).
func (m *Manager) RevokeSession(ctx context.Context, sessionID string) error {
	if err := m.sessions.RevokeSession(ctx, sessionID); err != nil {
		return err
	}
	metrics.SessionsRevokedTotal.Inc()
	metrics.ActiveSessionsGauge.Dec()
	return nil
}

// ListSessions returns all sessions for a uid, for admin inspection.
func (m *Manager) ListSessions(ctx context.Context, uid string) ([]*domain.Session, error) {
	return m.sessions.ListSessionsByUserID(ctx, uid)
}
