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

// Compile-time check to ensure CommentRepository implements the interface
var _ repositories.CommentRepository = (*CommentRepository)(nil)

// CommentRepository handles MongoDB operations for blog comments
type CommentRepository struct {
	collection *mongo.Collection
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{
		collection: db.Collection(mongodb.CommentsCollection),
	}
}

// Create inserts a new comment
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, comment)
	return err
}

// FindByID finds a comment by ID
func (r *CommentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	if err := findOne(ctx, r.collection, bson.M{"_id": id}, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost returns one page of a post's comments, newest first
func (r *CommentRepository) ListByPost(ctx context.Context, postID primitive.ObjectID, page models.PageRequest) ([]*models.Comment, int64, error) {
	comments := []*models.Comment{}
	total, err := findPage(ctx, r.collection, bson.M{"postId": postID}, page, bson.D{{Key: "createdAt", Value: -1}}, &comments)
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// Delete deletes a comment by ID
func (r *CommentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id)
}

// DeleteByPost deletes every comment of a post
func (r *CommentRepository) DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"postId": postID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
