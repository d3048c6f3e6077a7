package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/chathub-dev/chathub/domain"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// UserRepository implements domain.UserRepository on MongoDB.
type UserRepository struct {
	users *mongo.Collection
}

// NewUserRepository creates a new UserRepository and ensures indexes.
func NewUserRepository(ctx context.Context, db *mongo.Database) (domain.UserRepository, error) {
	repo := &UserRepository{
		users: db.Collection(UsersCollection),
	}
	if err := repo.createIndexes(ctx); err != nil {
		// Index creation commonly fails when compatible indexes already
		// exist; log and continue rather than block startup.
		log.Warn().Err(err).Msg("Failed to create user indexes (may already exist)")
	}
	return repo, nil
}

func (r *UserRepository) createIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetCollation(&options.Collation{Locale: "en", Strength: 2}),
		},
		{
			Keys:    bson.D{{Key: "approval_status", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := r.users.Indexes().CreateMany(ctx, indexModels, options.CreateIndexes())
	if err != nil {
		return fmt.Errorf("failed to create indexes for users collection: %w", err)
	}
	log.Info().Msg("Indexes for users collection ensured.")
	return nil
}

// GetProfileByUID retrieves a profile by the identity provider uid.
func (r *UserRepository) GetProfileByUID(ctx context.Context, uid string) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	err := r.users.FindOne(ctx, bson.M{"_id": uid}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		log.Error().Err(err).Str("uid", uid).Msg("Error getting profile by uid from MongoDB")
		return nil, err
	}
	return &profile, nil
}

// GetProfileByEmail retrieves a profile by email.
func (r *UserRepository) GetProfileByEmail(ctx context.Context, email string) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		log.Error().Err(err).Str("email", email).Msg("Error getting profile by email from MongoDB")
		return nil, err
	}
	return &profile, nil
}

// UpsertProfile inserts or replaces a profile document, keeping CreatedAt on
// first write.
func (r *UserRepository) UpsertProfile(ctx context.Context, profile *domain.UserProfile) error {
	if profile.UID == "" {
		return errors.New("profile uid is required")
	}
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	if profile.ApprovalStatus == "" {
		profile.ApprovalStatus = domain.ApprovalStatusPending
	}

	opts := options.Replace().SetUpsert(true)
	_, err := r.users.ReplaceOne(ctx, bson.M{"_id": profile.UID}, profile, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyExists
		}
		log.Error().Err(err).Str("uid", profile.UID).Msg("Error upserting profile in MongoDB")
		return err
	}
	return nil
}

// SetApprovalStatus updates only the approval status of a profile.
func (r *UserRepository) SetApprovalStatus(ctx context.Context, uid string, status domain.ApprovalStatus) error {
	update := bson.M{"$set": bson.M{
		"approval_status": status,
		"updated_at":      time.Now().UTC(),
	}}
	result, err := r.users.UpdateOne(ctx, bson.M{"_id": uid}, update)
	if err != nil {
		log.Error().Err(err).Str("uid", uid).Msg("Error updating approval status in MongoDB")
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// ListProfiles retrieves a paginated list of profiles.
// pageToken is used as skip offset, returns next pageToken (next offset).
func (r *UserRepository) ListProfiles(ctx context.Context, pageToken string, pageSize int) ([]*domain.UserProfile, string, error) {
	if pageSize <= 0 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}

	skip := int64(0)
	if pageToken != "" {
		parsedSkip, err := strconv.ParseInt(pageToken, 10, 64)
		if err == nil && parsedSkip > 0 {
			skip = parsedSkip
		} else if err != nil {
			log.Warn().Err(err).Str("pageToken", pageToken).Msg("Invalid pageToken, using default skip 0")
		}
	}

	findOptions := options.Find()
	findOptions.SetSkip(skip)
	findOptions.SetLimit(int64(pageSize))
	findOptions.SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.users.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		log.Error().Err(err).Msg("Error listing profiles from MongoDB")
		return nil, "", err
	}
	defer cursor.Close(ctx)

	var profiles []*domain.UserProfile
	if err = cursor.All(ctx, &profiles); err != nil {
		log.Error().Err(err).Msg("Error decoding listed profiles from MongoDB")
		return nil, "", err
	}

	nextPageToken := ""
	if len(profiles) == pageSize {
		nextPageToken = strconv.FormatInt(skip+int64(pageSize), 10)
	}

	return profiles, nextPageToken, nil
}

// Ensure interface compliance
var _ domain.UserRepository = (*UserRepository)(nil)
