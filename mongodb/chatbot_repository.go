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

// ChatbotRepositoryMongo implements domain.ChatbotRepository using MongoDB.
// Every lookup filters on owner_uid so a foreign id behaves as missing.
type ChatbotRepositoryMongo struct {
	collection *mongo.Collection
}

// NewChatbotRepositoryMongo creates a new ChatbotRepositoryMongo.
func NewChatbotRepositoryMongo(ctx context.Context, db *mongo.Database) (domain.ChatbotRepository, error) {
	repo := &ChatbotRepositoryMongo{
		collection: db.Collection(ChatbotsCollection),
	}

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_uid", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := repo.collection.Indexes().CreateMany(ctx, indexModels, options.CreateIndexes())
	if err != nil {
		log.Warn().Err(err).Msg("Issue creating indexes for chatbots collection (might already exist)")
	}

	return repo, nil
}

// Create inserts a new chatbot configuration.
func (r *ChatbotRepositoryMongo) Create(ctx context.Context, bot *domain.Chatbot) error {
	if bot.ID == "" {
		bot.ID = NewObjectID()
	}
	now := time.Now().UTC()
	bot.CreatedAt = now
	bot.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, bot)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyExists
		}
		log.Error().Err(err).Msg("Error creating chatbot in MongoDB")
		return err
	}
	return nil
}

// GetByID retrieves a chatbot by id within the owner's scope.
func (r *ChatbotRepositoryMongo) GetByID(ctx context.Context, ownerUID, id string) (*domain.Chatbot, error) {
	var bot domain.Chatbot
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "owner_uid": ownerUID}).Decode(&bot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		log.Error().Err(err).Str("id", id).Msg("Error getting chatbot from MongoDB")
		return nil, err
	}
	return &bot, nil
}

// ListByOwner retrieves all chatbots owned by a uid, newest first.
func (r *ChatbotRepositoryMongo) ListByOwner(ctx context.Context, ownerUID string) ([]*domain.Chatbot, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"owner_uid": ownerUID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		log.Error().Err(err).Str("ownerUID", ownerUID).Msg("Error listing chatbots from MongoDB")
		return nil, err
	}
	defer cursor.Close(ctx)

	var bots []*domain.Chatbot
	if err = cursor.All(ctx, &bots); err != nil {
		log.Error().Err(err).Msg("Error decoding listed chatbots from MongoDB")
		return nil, err
	}
	return bots, nil
}

// Update replaces an existing chatbot configuration within the owner's scope.
func (r *ChatbotRepositoryMongo) Update(ctx context.Context, bot *domain.Chatbot) error {
	if bot.ID == "" {
		return errors.New("chatbot ID is required for update")
	}
	bot.UpdatedAt = time.Now().UTC()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": bot.ID, "owner_uid": bot.OwnerUID}, bot)
	if err != nil {
		log.Error().Err(err).Str("id", bot.ID).Msg("Error updating chatbot in MongoDB")
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a chatbot within the owner's scope.
func (r *ChatbotRepositoryMongo) Delete(ctx context.Context, ownerUID, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "owner_uid": ownerUID})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("Error deleting chatbot from MongoDB")
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Ensure interface compliance
var _ domain.ChatbotRepository = (*ChatbotRepositoryMongo)(nil)
