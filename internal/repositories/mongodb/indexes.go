package mongodb

import (
	"context"
	"fmt"

	mongodb "github.com/actinova/admin-backend/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collectionIndexes lists the indexes this service relies on. users.email is
// deliberately not unique: the learner app owns that collection and already
// holds duplicates.
var collectionIndexes = map[string][]mongo.IndexModel{
	mongodb.AdminsCollection: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "resetToken", Value: 1}}, Options: options.Index().SetSparse(true)},
	},
	mongodb.PlansCollection: {
		{Keys: bson.D{{Key: "planId", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	mongodb.UsersCollection: {
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "subscription.plan", Value: 1}, {Key: "subscription.status", Value: 1}}},
		{Keys: bson.D{{Key: "billingHistory.date", Value: 1}}},
	},
	mongodb.ContactsCollection: {
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
	},
	mongodb.CommentsCollection: {
		{Keys: bson.D{{Key: "postId", Value: 1}, {Key: "createdAt", Value: -1}}},
	},
	mongodb.InteractionsCollection: {
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "targetId", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	},
	mongodb.CourseCatalogCollection: {
		{Keys: bson.D{{Key: "reconciledAt", Value: 1}}},
	},
}

// EnsureIndexes creates any missing index. Existing indexes with the same
// keys and options are left untouched by the server.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for collection, models := range collectionIndexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", collection, err)
		}
	}
	return nil
}
