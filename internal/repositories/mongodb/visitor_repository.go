package mongodb

import (
	"context"
	"time"

	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/repositories"
	mongodb "github.com/actinova/admin-backend/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure VisitorRepository implements the interface
var _ repositories.VisitorRepository = (*VisitorRepository)(nil)

// VisitorRepository maintains one counter document per UTC day
type VisitorRepository struct {
	collection *mongo.Collection
}

// NewVisitorRepository creates a new VisitorRepository
func NewVisitorRepository(db *mongo.Database) *VisitorRepository {
	return &VisitorRepository{
		collection: db.Collection(mongodb.VisitorCountersCollection),
	}
}

// Increment adds one visit to the counter of day, creating it if needed
func (r *VisitorRepository) Increment(ctx context.Context, day time.Time) (*models.VisitorCounter, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	update := bson.M{
		"$inc": bson.M{"count": 1},
		"$set": bson.M{"updatedAt": time.Now()},
	}

	var counter models.VisitorCounter
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": day.UTC().Format(models.DayLayout)}, update, opts).Decode(&counter)
	if err != nil {
		return nil, translate(err)
	}
	return &counter, nil
}

// FindRange returns the counters from..to inclusive, oldest first.
// Days without visits have no document.
func (r *VisitorRepository) FindRange(ctx context.Context, from, to time.Time) ([]*models.VisitorCounter, error) {
	filter := bson.M{"_id": bson.M{
		"$gte": from.UTC().Format(models.DayLayout),
		"$lte": to.UTC().Format(models.DayLayout),
	}}
	counters := []*models.VisitorCounter{}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if err := findAll(ctx, r.collection, filter, &counters, opts); err != nil {
		return nil, err
	}
	return counters, nil
}
