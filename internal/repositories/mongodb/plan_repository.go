package mongodb

import (
	"context"

	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/repositories"
	mongodb "github.com/actinova/admin-backend/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure PlanRepository implements the interface
var _ repositories.PlanRepository = (*PlanRepository)(nil)

// PlanRepository handles MongoDB operations for subscription plans
type PlanRepository struct {
	collection *mongo.Collection
}

// NewPlanRepository creates a new PlanRepository
func NewPlanRepository(db *mongo.Database) *PlanRepository {
	return &PlanRepository{
		collection: db.Collection(mongodb.PlansCollection),
	}
}

// Create inserts a new plan
func (r *PlanRepository) Create(ctx context.Context, plan *models.Plan) error {
	plan.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, plan)
	return translate(err)
}

// FindByID finds a plan by ID
func (r *PlanRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Plan, error) {
	var plan models.Plan
	if err := findOne(ctx, r.collection, bson.M{"_id": id}, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// FindAll returns every plan ordered by price
func (r *PlanRepository) FindAll(ctx context.Context) ([]*models.Plan, error) {
	plans := []*models.Plan{}
	opts := options.Find().SetSort(bson.D{{Key: "price", Value: 1}})
	if err := findAll(ctx, r.collection, bson.M{}, &plans, opts); err != nil {
		return nil, err
	}
	return plans, nil
}

// Update sets fields on one plan
func (r *PlanRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Plan, error) {
	var plan models.Plan
	if err := updateByID(ctx, r.collection, id, set, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Delete deletes a plan by ID
func (r *PlanRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id)
}
