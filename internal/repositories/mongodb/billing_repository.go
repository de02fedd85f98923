package mongodb

import (
	"context"
	"time"

	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/repositories"
	mongodb "github.com/actinova/admin-backend/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure BillingRepository implements the interface
var _ repositories.BillingRepository = (*BillingRepository)(nil)

// BillingRepository reports over the billing history embedded in users
type BillingRepository struct {
	collection *mongo.Collection
}

// NewBillingRepository creates a new BillingRepository
func NewBillingRepository(db *mongo.Database) *BillingRepository {
	return &BillingRepository{
		collection: db.Collection(mongodb.UsersCollection),
	}
}

// historySince unwinds billing history and keeps entries dated on or after since
func historySince(since time.Time, match bson.M) mongo.Pipeline {
	if match == nil {
		match = bson.M{}
	}
	match["billingHistory.date"] = bson.M{"$gte": since}
	return mongo.Pipeline{
		{{Key: "$unwind", Value: "$billingHistory"}},
		{{Key: "$match", Value: match}},
	}
}

func successful() bson.M {
	return bson.M{"billingHistory.status": models.PaymentSuccess}
}

// TotalRevenue sums successful payments since the given time
func (r *BillingRepository) TotalRevenue(ctx context.Context, since time.Time) (float64, error) {
	pipeline := append(historySince(since, successful()),
		bson.D{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$billingHistory.amount"}}}},
	)
	var result []struct {
		Total float64 `bson:"total"`
	}
	if err := aggregate(ctx, r.collection, pipeline, &result); err != nil {
		return 0, err
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Total, nil
}

// RevenueByMonth sums successful payments per calendar month (YYYY-MM)
func (r *BillingRepository) RevenueByMonth(ctx context.Context, since time.Time) ([]models.MonthRevenue, error) {
	pipeline := append(historySince(since, successful()),
		bson.D{{Key: "$group", Value: bson.M{
			"_id":     bson.M{"$dateToString": bson.M{"format": "%Y-%m", "date": "$billingHistory.date"}},
			"revenue": bson.M{"$sum": "$billingHistory.amount"},
			"count":   bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"_id": 1}}},
	)
	months := []models.MonthRevenue{}
	if err := aggregate(ctx, r.collection, pipeline, &months); err != nil {
		return nil, err
	}
	return months, nil
}

// RevenueByPlan sums successful payments per plan
func (r *BillingRepository) RevenueByPlan(ctx context.Context, since time.Time) ([]models.PlanRevenue, error) {
	pipeline := append(historySince(since, successful()),
		bson.D{{Key: "$group", Value: bson.M{
			"_id":     bson.M{"$ifNull": bson.A{"$billingHistory.plan", "unknown"}},
			"revenue": bson.M{"$sum": "$billingHistory.amount"},
			"count":   bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"revenue": -1}}},
	)
	plans := []models.PlanRevenue{}
	if err := aggregate(ctx, r.collection, pipeline, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// TransactionStatus counts billing entries per status since the given time
func (r *BillingRepository) TransactionStatus(ctx context.Context, since time.Time) ([]models.LabelCount, error) {
	pipeline := append(historySince(since, nil),
		bson.D{{Key: "$group", Value: bson.M{"_id": "$billingHistory.status", "count": bson.M{"$sum": 1}}}},
		bson.D{{Key: "$sort", Value: bson.M{"count": -1}}},
	)
	buckets := []models.LabelCount{}
	if err := aggregate(ctx, r.collection, pipeline, &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}

// ActiveSubscribersByPlan counts users with an active subscription per plan
func (r *BillingRepository) ActiveSubscribersByPlan(ctx context.Context) ([]models.LabelCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"subscription.status": "active"}}},
		{{Key: "$group", Value: bson.M{"_id": "$subscription.plan", "count": bson.M{"$sum": 1}}}},
	}
	buckets := []models.LabelCount{}
	if err := aggregate(ctx, r.collection, pipeline, &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}

// ListTransactions returns one page of billing entries flattened with
// their user, newest first
func (r *BillingRepository) ListTransactions(ctx context.Context, filter models.TransactionFilter, page models.PageRequest) ([]*models.Transaction, int64, error) {
	match := bson.M{}
	withExact(match, "billingHistory.status", filter.Status)
	withExact(match, "billingHistory.plan", filter.Plan)

	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$billingHistory"}},
		{{Key: "$match", Value: match}},
		{{Key: "$project", Value: bson.M{
			"_id":           0,
			"userId":        "$_id",
			"userName":      "$name",
			"userEmail":     "$email",
			"transactionId": "$billingHistory.transactionId",
			"amount":        "$billingHistory.amount",
			"status":        "$billingHistory.status",
			"plan":          "$billingHistory.plan",
			"date":          "$billingHistory.date",
		}}},
		{{Key: "$sort", Value: bson.M{"date": -1}}},
		{{Key: "$facet", Value: bson.M{
			"items": bson.A{
				bson.M{"$skip": page.Skip()},
				bson.M{"$limit": page.Limit},
			},
			"total": bson.A{bson.M{"$count": "count"}},
		}}},
	}

	var result []struct {
		Items []*models.Transaction `bson:"items"`
		Total []struct {
			Count int64 `bson:"count"`
		} `bson:"total"`
	}
	if err := aggregate(ctx, r.collection, pipeline, &result); err != nil {
		return nil, 0, err
	}
	if len(result) == 0 {
		return []*models.Transaction{}, 0, nil
	}

	var total int64
	if len(result[0].Total) > 0 {
		total = result[0].Total[0].Count
	}
	items := result[0].Items
	if items == nil {
		items = []*models.Transaction{}
	}
	return items, total, nil
}
