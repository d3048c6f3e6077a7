package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chathub-dev/chathub/domain"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// SessionRepository implements domain.SessionRepository using Redis.
// Each session lives in a hash with a native key TTL; a per-user set indexes
// the session ids for the concurrency count. Stale set members (keys already
// expired by Redis) are pruned lazily during counting.
type SessionRepository struct {
	client *redis.Client
	prefix string // Optional prefix for keys
}

// NewSessionRepository creates a new [SessionRepository] instance.
func NewSessionRepository(client *redis.Client, prefix string) *SessionRepository {
	return &SessionRepository{
		client: client,
		prefix: prefix,
	}
}

func (r *SessionRepository) sessionKey(id string) string {
	return fmt.Sprintf("%s:session:%s", r.prefix, id)
}

func (r *SessionRepository) userSetKey(userID string) string {
	return fmt.Sprintf("%s:user_sessions:%s", r.prefix, userID)
}

// StoreSession stores a session hash with TTL and indexes it for the user.
func (r *SessionRepository) StoreSession(ctx context.Context, session *domain.Session) error {
	key := r.sessionKey(session.ID)

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	entry := map[string]interface{}{
		"data":       string(data),
		"user_id":    session.UserID,
		"expires_at": session.ExpiresAt.Unix(),
	}

	if _, err = r.client.HSet(ctx, key, entry).Result(); err != nil {
		return fmt.Errorf("failed to set session in Redis: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if _, err = r.client.Expire(ctx, key, ttl).Result(); err != nil {
		return fmt.Errorf("failed to set expiry for session in Redis: %w", err)
	}

	setKey := r.userSetKey(session.UserID)
	if err = r.client.SAdd(ctx, setKey, session.ID).Err(); err != nil {
		return fmt.Errorf("failed to index session for user in Redis: %w", err)
	}
	// The set outlives individual sessions; give it a generous TTL so idle
	// users do not leak keys.
	r.client.Expire(ctx, setKey, ttl+24*time.Hour)

	return nil
}

// GetSessionByID retrieves a session. Keys expired by Redis are gone, so an
// absent key reads as not found.
func (r *SessionRepository) GetSessionByID(ctx context.Context, id string) (*domain.Session, error) {
	res, err := r.client.HGetAll(ctx, r.sessionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get session from Redis: %w", err)
	}
	if len(res) == 0 {
		return nil, domain.ErrSessionNotFound
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(res["data"]), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// TouchSession refreshes last_activity, expires_at and the key TTL.
func (r *SessionRepository) TouchSession(ctx context.Context, id string, lastActivity, expiresAt time.Time) error {
	session, err := r.GetSessionByID(ctx, id)
	if err != nil {
		return err
	}
	session.LastActivity = lastActivity
	session.ExpiresAt = expiresAt

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	key := r.sessionKey(id)
	entry := map[string]interface{}{
		"data":       string(data),
		"expires_at": expiresAt.Unix(),
	}
	if _, err = r.client.HSet(ctx, key, entry).Result(); err != nil {
		return fmt.Errorf("failed to touch session in Redis: %w", err)
	}
	if _, err = r.client.Expire(ctx, key, time.Until(expiresAt)).Result(); err != nil {
		return fmt.Errorf("failed to refresh session TTL in Redis: %w", err)
	}
	return nil
}

// RevokeSession removes the session key and its user-set entry.
func (r *SessionRepository) RevokeSession(ctx context.Context, id string) error {
	session, err := r.GetSessionByID(ctx, id)
	if err != nil {
		return err
	}

	if err := r.client.Del(ctx, r.sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session from Redis: %w", err)
	}
	if err := r.client.SRem(ctx, r.userSetKey(session.UserID), id).Err(); err != nil {
		log.Warn().Err(err).Str("sessionID", id).Msg("Failed to remove session from user index")
	}
	return nil
}

// CountActiveByUser counts live sessions for a uid, pruning ids whose keys
// Redis has already expired.
func (r *SessionRepository) CountActiveByUser(ctx context.Context, userID string) (int64, error) {
	setKey := r.userSetKey(userID)
	ids, err := r.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to list user sessions in Redis: %w", err)
	}

	var count int64
	for _, id := range ids {
		exists, err := r.client.Exists(ctx, r.sessionKey(id)).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to check session existence in Redis: %w", err)
		}
		if exists == 0 {
			r.client.SRem(ctx, setKey, id)
			continue
		}
		count++
	}
	return count, nil
}

// ListSessionsByUserID retrieves all live sessions for a user.
func (r *SessionRepository) ListSessionsByUserID(ctx context.Context, userID string) ([]*domain.Session, error) {
	ids, err := r.client.SMembers(ctx, r.userSetKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list user sessions in Redis: %w", err)
	}

	sessions := make([]*domain.Session, 0, len(ids))
	for _, id := range ids {
		session, err := r.GetSessionByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				continue // expired between SMembers and HGetAll
			}
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// Ensure interface compliance
var _ domain.SessionRepository = (*SessionRepository)(nil)
