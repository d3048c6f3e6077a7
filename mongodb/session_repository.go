package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/chathub-dev/chathub/domain"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// SessionRepositoryMongo implements domain.SessionRepository using MongoDB.
// A TTL index on expires_at makes the store own expiry cleanup.
type SessionRepositoryMongo struct {
	collection *mongo.Collection
}

// NewSessionRepositoryMongo creates a new SessionRepositoryMongo.
// It also ensures that necessary indexes are created on the collection.
func NewSessionRepositoryMongo(ctx context.Context, db *mongo.Database) (domain.SessionRepository, error) {
	repo := &SessionRepositoryMongo{
		collection: db.Collection(SessionsCollection),
	}

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index(), // Not unique, user can have multiple sessions
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0), // TTL index for automatic cleanup
		},
		{
			Keys:    bson.D{{Key: "revoked", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := repo.collection.Indexes().CreateMany(ctx, indexModels, options.CreateIndexes())
	if err != nil {
		log.Warn().Err(err).Msg("Issue creating indexes for sessions collection (might already exist)")
	} else {
		log.Info().Msg("Indexes for sessions collection ensured.")
	}

	return repo, nil
}

// StoreSession creates a new session.
func (r *SessionRepositoryMongo) StoreSession(ctx context.Context, session *domain.Session) error {
	if session.ID == "" {
		return errors.New("session ID is required")
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	// ExpiresAt is set by the session manager.

	_, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyExists
		}
		log.Error().Err(err).Msg("Error storing session in MongoDB")
		return err
	}
	return nil
}

// GetSessionByID retrieves a session by its primary ID.
func (r *SessionRepositoryMongo) GetSessionByID(ctx context.Context, id string) (*domain.Session, error) {
	var session domain.Session
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSessionNotFound
		}
		log.Error().Err(err).Str("id", id).Msg("Error getting session by ID from MongoDB")
		return nil, err
	}
	return &session, nil
}

// TouchSession updates last_activity and pushes expires_at forward.
func (r *SessionRepositoryMongo) TouchSession(ctx context.Context, id string, lastActivity, expiresAt time.Time) error {
	update := bson.M{"$set": bson.M{
		"last_activity": lastActivity,
		"expires_at":    expiresAt,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		log.Error().Err(err).Str("sessionID", id).Msg("Error touching session in MongoDB")
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// RevokeSession marks a session as revoked without deleting the record.
func (r *SessionRepositoryMongo) RevokeSession(ctx context.Context, id string) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"revoked": true}})
	if err != nil {
		log.Error().Err(err).Str("sessionID", id).Msg("Error revoking session in MongoDB")
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// CountActiveByUser counts live (unexpired, unrevoked) sessions for a uid.
// The TTL monitor lags expiry, so the expires_at filter is applied here too.
func (r *SessionRepositoryMongo) CountActiveByUser(ctx context.Context, userID string) (int64, error) {
	filter := bson.M{
		"user_id":    userID,
		"revoked":    bson.M{"$ne": true},
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("Error counting active sessions in MongoDB")
		return 0, err
	}
	return count, nil
}

// ListSessionsByUserID retrieves sessions for a user, newest first.
func (r *SessionRepositoryMongo) ListSessionsByUserID(ctx context.Context, userID string) ([]*domain.Session, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("Error listing sessions by user ID from MongoDB")
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []*domain.Session
	if err = cursor.All(ctx, &sessions); err != nil {
		log.Error().Err(err).Msg("Error decoding listed sessions from MongoDB")
		return nil, err
	}
	return sessions, nil
}

// Ensure interface compliance
var _ domain.SessionRepository = (*SessionRepositoryMongo)(nil)
