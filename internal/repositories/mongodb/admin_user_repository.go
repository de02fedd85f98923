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

// Ensure adminRepository implements repositories.AdminRepository
var _ repositories.AdminRepository = (*adminRepository)(nil)

type adminRepository struct {
	collection *mongo.Collection
}

// NewAdminRepository creates a new repository for admin accounts
func NewAdminRepository(db *mongo.Database) repositories.AdminRepository {
	return &adminRepository{
		collection: db.Collection(mongodb.AdminsCollection),
	}
}

// Create inserts a new admin
func (r *adminRepository) Create(ctx context.Context, admin *models.Admin) error {
	admin.ID = primitive.NewObjectID()
	admin.Email = strings.ToLower(admin.Email)
	_, err := r.collection.InsertOne(ctx, admin)
	return translate(err)
}

// FindByID finds an admin by ID
func (r *adminRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByEmail finds an admin by their email address
func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

// FindByResetToken finds the admin holding an unexpired reset token
func (r *adminRepository) FindByResetToken(ctx context.Context, token string) (*models.Admin, error) {
	return r.findOne(ctx, bson.M{
		"resetToken":   token,
		"resetExpires": bson.M{"$gt": time.Now()},
	})
}

func (r *adminRepository) findOne(ctx context.Context, filter bson.M) (*models.Admin, error) {
	var admin models.Admin
	if err := findOne(ctx, r.collection, filter, &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

// FindAll retrieves all admins, newest first
func (r *adminRepository) FindAll(ctx context.Context) ([]*models.Admin, error) {
	return r.findSorted(ctx, bson.M{})
}

// FindPending retrieves verified admins still waiting for approval
func (r *adminRepository) FindPending(ctx context.Context) ([]*models.Admin, error) {
	return r.findSorted(ctx, bson.M{"isVerified": true, "isApproved": false})
}

func (r *adminRepository) findSorted(ctx context.Context, filter bson.M) ([]*models.Admin, error) {
	admins := []*models.Admin{}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if err := findAll(ctx, r.collection, filter, &admins, opts); err != nil {
		return nil, err
	}
	return admins, nil
}

// Update sets fields on one admin
func (r *adminRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updatedAt"] = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// Delete deletes an admin by ID
func (r *adminRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id)
}
