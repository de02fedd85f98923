package mongodb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/repositories"
	mongodb "github.com/actinova/admin-backend/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure AnalyticsRepository implements the interface
var _ repositories.AnalyticsRepository = (*AnalyticsRepository)(nil)

// AnalyticsRepository runs the reporting queries. Every method is read-only.
type AnalyticsRepository struct {
	db *mongo.Database
}

// NewAnalyticsRepository creates a new AnalyticsRepository
func NewAnalyticsRepository(db *mongo.Database) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// CountUsers counts users matching filter
func (r *AnalyticsRepository) CountUsers(ctx context.Context, filter bson.M) (int64, error) {
	return r.db.Collection(mongodb.UsersCollection).CountDocuments(ctx, filter)
}

// UserGrowth counts sign-ups per UTC day since the given time
func (r *AnalyticsRepository) UserGrowth(ctx context.Context, since time.Time) ([]models.DateCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$createdAt"}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	points := []models.DateCount{}
	if err := aggregate(ctx, r.db.Collection(mongodb.UsersCollection), pipeline, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// SubscriptionDistribution counts users per subscription plan. Users with no
// plan recorded are left out.
func (r *AnalyticsRepository) SubscriptionDistribution(ctx context.Context) ([]models.LabelCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"subscription.plan": bson.M{"$nin": bson.A{nil, ""}}}}},
		{{Key: "$group", Value: bson.M{"_id": "$subscription.plan", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}
	buckets := []models.LabelCount{}
	if err := aggregate(ctx, r.db.Collection(mongodb.UsersCollection), pipeline, &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}

// CountActiveSubscriptions counts users on an active paid plan
func (r *AnalyticsRepository) CountActiveSubscriptions(ctx context.Context) (int64, error) {
	return r.CountUsers(ctx, bson.M{
		"subscription.status": "active",
		"subscription.plan":   bson.M{"$nin": bson.A{nil, "", models.PlanFree}},
	})
}

// CountOfficialCourses sums the embedded course arrays of every category
func (r *AnalyticsRepository) CountOfficialCourses(ctx context.Context) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"count": bson.M{"$sum": bson.M{"$size": bson.M{"$ifNull": bson.A{"$courses", bson.A{}}}}},
		}}},
	}
	var result []struct {
		Count int64 `bson:"count"`
	}
	if err := aggregate(ctx, r.db.Collection(mongodb.CategoryCoursesCollection), pipeline, &result); err != nil {
		return 0, err
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Count, nil
}

// CountLibraryCourses counts community courses
func (r *AnalyticsRepository) CountLibraryCourses(ctx context.Context) (int64, error) {
	return r.db.Collection(mongodb.LibraryCollection).CountDocuments(ctx, bson.M{})
}

// CountTrendingCourses counts trending topics
func (r *AnalyticsRepository) CountTrendingCourses(ctx context.Context) (int64, error) {
	return r.db.Collection(mongodb.TrendingCoursesCollection).CountDocuments(ctx, bson.M{})
}

// CourseDifficulty counts courses per difficulty across all three sources.
// Missing difficulties are reported as "unspecified".
func (r *AnalyticsRepository) CourseDifficulty(ctx context.Context) ([]models.LabelCount, error) {
	group := bson.D{{Key: "$group", Value: bson.M{
		"_id":   bson.M{"$ifNull": bson.A{"$difficulty", "unspecified"}},
		"count": bson.M{"$sum": 1},
	}}}
	official := mongo.Pipeline{
		{{Key: "$unwind", Value: "$courses"}},
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$courses"}}},
		group,
	}
	flat := mongo.Pipeline{group}

	merged := map[string]int64{}
	sources := []struct {
		collection string
		pipeline   mongo.Pipeline
	}{
		{mongodb.CategoryCoursesCollection, official},
		{mongodb.LibraryCollection, flat},
		{mongodb.TrendingCoursesCollection, flat},
	}
	for _, source := range sources {
		var buckets []models.LabelCount
		if err := aggregate(ctx, r.db.Collection(source.collection), source.pipeline, &buckets); err != nil {
			return nil, err
		}
		for _, b := range buckets {
			label := strings.ToLower(strings.TrimSpace(b.Label))
			if label == "" {
				label = "unspecified"
			}
			merged[label] += b.Count
		}
	}

	result := make([]models.LabelCount, 0, len(merged))
	for label, count := range merged {
		result = append(result, models.LabelCount{Label: label, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Label < result[j].Label })
	return result, nil
}

// CountCollection counts documents of any collection
func (r *AnalyticsRepository) CountCollection(ctx context.Context, collection string, filter bson.M) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	return r.db.Collection(collection).CountDocuments(ctx, filter)
}

// InteractionsByType counts interactions per type since the given time
func (r *AnalyticsRepository) InteractionsByType(ctx context.Context, since time.Time) ([]models.LabelCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{"_id": "$type", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}
	buckets := []models.LabelCount{}
	if err := aggregate(ctx, r.db.Collection(mongodb.InteractionsCollection), pipeline, &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}

// ContactsByStatus counts contacts per status
func (r *AnalyticsRepository) ContactsByStatus(ctx context.Context) ([]models.LabelCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	buckets := []models.LabelCount{}
	if err := aggregate(ctx, r.db.Collection(mongodb.ContactsCollection), pipeline, &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}
