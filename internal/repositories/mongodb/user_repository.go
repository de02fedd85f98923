package mongodb

import (
	"context"
	"strings"
	"time"

	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/repositories"
	mongodb "github.com/actinova/admin-backend/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure UserRepository implements the interface
var _ repositories.UserRepository = (*UserRepository)(nil)

// UserRepository handles MongoDB operations for User
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection(mongodb.UsersCollection),
	}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, user)
	return translate(err)
}

// FindByID finds a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := findOne(ctx, r.collection, bson.M{"_id": id}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := findOne(ctx, r.collection, bson.M{"email": strings.ToLower(email)}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns one page of users matching filter, newest first
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter, page models.PageRequest) ([]*models.User, int64, error) {
	users := []*models.User{}
	total, err := findPage(ctx, r.collection, userFilter(filter), page, bson.D{{Key: "createdAt", Value: -1}}, &users)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// userFilter translates a UserFilter into a query document
func userFilter(filter models.UserFilter) bson.M {
	query := searchFilter(filter.Search, "name", "email", "phone")
	withExact(query, "status", filter.Status)
	withExact(query, "subscription.plan", filter.Subscription)
	return query
}

// Update sets fields on one user and returns the updated document
func (r *UserRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error) {
	var user models.User
	if err := updateByID(ctx, r.collection, id, set, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateMany sets the same fields on every listed user
func (r *UserRepository) UpdateMany(ctx context.Context, ids []primitive.ObjectID, set bson.M) (int64, error) {
	set["updatedAt"] = time.Now()
	res, err := r.collection.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// Delete deletes a user by ID
func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id)
}

// DeleteMany deletes every listed user
func (r *UserRepository) DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// UpsertByEmail inserts the user or refreshes name, phone and plan of the
// existing user with the same email. It reports whether a user was created.
func (r *UserRepository) UpsertByEmail(ctx context.Context, user *models.User) (bool, error) {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"name":              user.Name,
			"phone":             user.Phone,
			"subscription.plan": user.Subscription.Plan,
			"updatedAt":         now,
		},
		"$setOnInsert": bson.M{
			"status":              models.UserStatusActive,
			"subscription.status": user.Subscription.Status,
			"billingHistory":      bson.A{},
			"generatedCardSets":   bson.A{},
			"courses":             bson.A{},
			"createdAt":           now,
		},
	}
	opts := options.Update().SetUpsert(true)
	res, err := r.collection.UpdateOne(ctx, bson.M{"email": strings.ToLower(user.Email)}, update, opts)
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

// FindRecent returns the newest users
func (r *UserRepository) FindRecent(ctx context.Context, limit int) ([]*models.User, error) {
	return r.findSorted(ctx, bson.M{}, limit)
}

// FindCreatedSince returns users created after since, newest first
func (r *UserRepository) FindCreatedSince(ctx context.Context, since time.Time, limit int) ([]*models.User, error) {
	return r.findSorted(ctx, bson.M{"createdAt": bson.M{"$gt": since}}, limit)
}

func (r *UserRepository) findSorted(ctx context.Context, filter bson.M, limit int) ([]*models.User, error) {
	users := []*models.User{}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(limit))
	if err := findAll(ctx, r.collection, filter, &users, opts); err != nil {
		return nil, err
	}
	return users, nil
}
