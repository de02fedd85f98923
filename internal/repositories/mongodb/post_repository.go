package mongodb

import (
	"context"
	"time"

	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/repositories"
	mongodb "github.com/actinova/admin-backend/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure PostRepository implements the interface
var _ repositories.PostRepository = (*PostRepository)(nil)

// PostRepository handles MongoDB operations for blog posts
type PostRepository struct {
	collection *mongo.Collection
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{
		collection: db.Collection(mongodb.PostsCollection),
	}
}

// Create inserts a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, post)
	return translate(err)
}

// FindByID finds a post by ID
func (r *PostRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	if err := findOne(ctx, r.collection, bson.M{"_id": id}, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns one page of posts, newest first
func (r *PostRepository) List(ctx context.Context, filter models.PostFilter, page models.PageRequest) ([]*models.Post, int64, error) {
	query := searchFilter(filter.Search, "title", "author")
	withExact(query, "status", filter.Status)

	posts := []*models.Post{}
	total, err := findPage(ctx, r.collection, query, page, bson.D{{Key: "createdAt", Value: -1}}, &posts)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// Update sets fields on one post
func (r *PostRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Post, error) {
	var post models.Post
	if err := updateByID(ctx, r.collection, id, set, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Delete deletes a post by ID
func (r *PostRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id)
}

// IncrementComments bumps the comment counter of a post
func (r *PostRepository) IncrementComments(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"commentsCount": 1},
		"$set": bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// DecrementComments lowers the comment counter of a post, never below zero
func (r *PostRepository) DecrementComments(ctx context.Context, id primitive.ObjectID) error {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"commentsCount": bson.M{"$max": bson.A{0, bson.M{"$subtract": bson.A{bson.M{"$ifNull": bson.A{"$commentsCount", 0}}, 1}}}},
			"updatedAt":     "$$NOW",
		}}},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, pipeline)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
