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

// Compile-time check to ensure TestRepository implements the interface
var _ repositories.TestRepository = (*TestRepository)(nil)

// TestRepository handles MongoDB operations for generated quizzes
type TestRepository struct {
	collection *mongo.Collection
}

// NewTestRepository creates a new TestRepository
func NewTestRepository(db *mongo.Database) *TestRepository {
	return &TestRepository{
		collection: db.Collection(mongodb.TestsCollection),
	}
}

// FindByID finds a test by ID
func (r *TestRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Test, error) {
	var test models.Test
	if err := findOne(ctx, r.collection, bson.M{"_id": id}, &test); err != nil {
		return nil, err
	}
	return &test, nil
}

// List returns one page of tests, newest first
func (r *TestRepository) List(ctx context.Context, filter models.TestFilter, page models.PageRequest) ([]*models.Test, int64, error) {
	query := searchFilter(filter.Search, "title", "subject")
	withExact(query, "difficulty", filter.Difficulty)

	tests := []*models.Test{}
	total, err := findPage(ctx, r.collection, query, page, bson.D{{Key: "createdAt", Value: -1}}, &tests)
	if err != nil {
		return nil, 0, err
	}
	return tests, total, nil
}

// Delete deletes a test by ID
func (r *TestRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id)
}

// CountByUser counts the tests a user generated
func (r *TestRepository) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"userId": userID})
}
