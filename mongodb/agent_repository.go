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

// AgentRepositoryMongo implements domain.AgentRepository using MongoDB.
type AgentRepositoryMongo struct {
	collection *mongo.Collection
}

// NewAgentRepositoryMongo creates a new AgentRepositoryMongo.
func NewAgentRepositoryMongo(ctx context.Context, db *mongo.Database) (domain.AgentRepository, error) {
	repo := &AgentRepositoryMongo{
		collection: db.Collection(AgentsCollection),
	}

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_uid", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := repo.collection.Indexes().CreateMany(ctx, indexModels, options.CreateIndexes())
	if err != nil {
		log.Warn().Err(err).Msg("Issue creating indexes for agents collection (might already exist)")
	}

	return repo, nil
}

// Create inserts a new agent definition.
func (r *AgentRepositoryMongo) Create(ctx context.Context, agent *domain.Agent) error {
	if agent.ID == "" {
		agent.ID = NewObjectID()
	}
	now := time.Now().UTC()
	agent.CreatedAt = now
	agent.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, agent)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyExists
		}
		log.Error().Err(err).Msg("Error creating agent in MongoDB")
		return err
	}
	return nil
}

// GetByID retrieves an agent by id within the owner's scope.
func (r *AgentRepositoryMongo) GetByID(ctx context.Context, ownerUID, id string) (*domain.Agent, error) {
	var agent domain.Agent
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "owner_uid": ownerUID}).Decode(&agent)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		log.Error().Err(err).Str("id", id).Msg("Error getting agent from MongoDB")
		return nil, err
	}
	return &agent, nil
}

// ListByOwner retrieves all agents owned by a uid, newest first.
func (r *AgentRepositoryMongo) ListByOwner(ctx context.Context, ownerUID string) ([]*domain.Agent, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"owner_uid": ownerUID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		log.Error().Err(err).Str("ownerUID", ownerUID).Msg("Error listing agents from MongoDB")
		return nil, err
	}
	defer cursor.Close(ctx)

	var agents []*domain.Agent
	if err = cursor.All(ctx, &agents); err != nil {
		log.Error().Err(err).Msg("Error decoding listed agents from MongoDB")
		return nil, err
	}
	return agents, nil
}

// Update replaces an existing agent within the owner's scope.
func (r *AgentRepositoryMongo) Update(ctx context.Context, agent *domain.Agent) error {
	if agent.ID == "" {
		return errors.New("agent ID is required for update")
	}
	agent.UpdatedAt = time.Now().UTC()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": agent.ID, "owner_uid": agent.OwnerUID}, agent)
	if err != nil {
		log.Error().Err(err).Str("id", agent.ID).Msg("Error updating agent in MongoDB")
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes an agent within the owner's scope.
func (r *AgentRepositoryMongo) Delete(ctx context.Context, ownerUID, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "owner_uid": ownerUID})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("Error deleting agent from MongoDB")
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Ensure interface compliance
var _ domain.AgentRepository = (*AgentRepositoryMongo)(nil)
