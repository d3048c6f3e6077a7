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

// WebsiteRepositoryMongo implements domain.WebsiteRepository using MongoDB.
type WebsiteRepositoryMongo struct {
	collection *mongo.Collection
}

// NewWebsiteRepositoryMongo creates a new WebsiteRepositoryMongo.
func NewWebsiteRepositoryMongo(ctx context.Context, db *mongo.Database) (domain.WebsiteRepository, error) {
	repo := &WebsiteRepositoryMongo{
		collection: db.Collection(WebsitesCollection),
	}

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_uid", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "domain", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := repo.collection.Indexes().CreateMany(ctx, indexModels, options.CreateIndexes())
	if err != nil {
		log.Warn().Err(err).Msg("Issue creating indexes for websites collection (might already exist)")
	}

	return repo, nil
}

// Create inserts a new website document.
func (r *WebsiteRepositoryMongo) Create(ctx context.Context, site *domain.Website) error {
	if site.ID == "" {
		site.ID = NewObjectID()
	}
	now := time.Now().UTC()
	site.CreatedAt = now
	site.UpdatedAt = now
	if site.Status == "" {
		site.Status = domain.WebsiteStatusProvisioning
	}

	_, err := r.collection.InsertOne(ctx, site)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyExists
		}
		log.Error().Err(err).Msg("Error creating website in MongoDB")
		return err
	}
	return nil
}

// GetByID retrieves a website by id within the owner's scope.
func (r *WebsiteRepositoryMongo) GetByID(ctx context.Context, ownerUID, id string) (*domain.Website, error) {
	var site domain.Website
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "owner_uid": ownerUID}).Decode(&site)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		log.Error().Err(err).Str("id", id).Msg("Error getting website from MongoDB")
		return nil, err
	}
	return &site, nil
}

// ListByOwner retrieves all websites owned by a uid, newest first.
func (r *WebsiteRepositoryMongo) ListByOwner(ctx context.Context, ownerUID string) ([]*domain.Website, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"owner_uid": ownerUID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		log.Error().Err(err).Str("ownerUID", ownerUID).Msg("Error listing websites from MongoDB")
		return nil, err
	}
	defer cursor.Close(ctx)

	var sites []*domain.Website
	if err = cursor.All(ctx, &sites); err != nil {
		log.Error().Err(err).Msg("Error decoding listed websites from MongoDB")
		return nil, err
	}
	return sites, nil
}

// Update replaces an existing website within the owner's scope.
func (r *WebsiteRepositoryMongo) Update(ctx context.Context, site *domain.Website) error {
	if site.ID == "" {
		return errors.New("website ID is required for update")
	}
	site.UpdatedAt = time.Now().UTC()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": site.ID, "owner_uid": site.OwnerUID}, site)
	if err != nil {
		log.Error().Err(err).Str("id", site.ID).Msg("Error updating website in MongoDB")
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a website within the owner's scope.
func (r *WebsiteRepositoryMongo) Delete(ctx context.Context, ownerUID, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "owner_uid": ownerUID})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("Error deleting website from MongoDB")
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddService appends a managed service entry to a website.
func (r *WebsiteRepositoryMongo) AddService(ctx context.Context, ownerUID, id string, svc domain.WebsiteService) error {
	if svc.CreatedAt.IsZero() {
		svc.CreatedAt = time.Now().UTC()
	}
	update := bson.M{
		"$push": bson.M{"services": svc},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "owner_uid": ownerUID}, update)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("Error adding service to website in MongoDB")
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Ensure interface compliance
var _ domain.WebsiteRepository = (*WebsiteRepositoryMongo)(nil)
