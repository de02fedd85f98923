package mongodb

import (
	"context"

	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/repositories"
	mongodb "github.com/actinova/admin-backend/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure CardSetRepository implements the interface
var _ repositories.CardSetRepository = (*CardSetRepository)(nil)

// CardSetRepository handles MongoDB operations for flashcard sets
type CardSetRepository struct {
	collection *mongo.Collection
}

// NewCardSetRepository creates a new CardSetRepository
func NewCardSetRepository(db *mongo.Database) *CardSetRepository {
	return &CardSetRepository{
		collection: db.Collection(mongodb.CardSetsCollection),
	}
}

// FindByID finds a card set by ID
func (r *CardSetRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.CardSet, error) {
	var set models.CardSet
	if err := findOne(ctx, r.collection, bson.M{"_id": id}, &set); err != nil {
		return nil, err
	}
	return &set, nil
}

// List returns one page of card sets whose title matches search
func (r *CardSetRepository) List(ctx context.Context, search string, page models.PageRequest) ([]*models.CardSet, int64, error) {
	sets := []*models.CardSet{}
	total, err := findPage(ctx, r.collection, searchFilter(search, "title"), page, bson.D{{Key: "createdAt", Value: -1}}, &sets)
	if err != nil {
		return nil, 0, err
	}
	return sets, total, nil
}

// Delete deletes a card set by ID
func (r *CardSetRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id)
}

// DeleteMany deletes every listed card set
func (r *CardSetRepository) DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByUser counts the card sets a user generated
func (r *CardSetRepository) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"userId": userID})
}
