package mongodb

import (
	"context"

	"github.com/actinova/admin-backend/internal/repositories"
	mongodb "github.com/actinova/admin-backend/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure InteractionRepository implements the interface
var _ repositories.InteractionRepository = (*InteractionRepository)(nil)

// InteractionRepository counts documents of the interactions collection
type InteractionRepository struct {
	collection *mongo.Collection
}

// NewInteractionRepository creates a new InteractionRepository
func NewInteractionRepository(db *mongo.Database) *InteractionRepository {
	return &InteractionRepository{
		collection: db.Collection(mongodb.InteractionsCollection),
	}
}

// CountByUser counts every interaction of a user
func (r *InteractionRepository) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"userId": userID})
}

// CountByTarget counts interactions of one type against one document
func (r *InteractionRepository) CountByTarget(ctx context.Context, interactionType string, targetID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"type": interactionType, "targetId": targetID})
}
