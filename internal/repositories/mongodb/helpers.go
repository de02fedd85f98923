package mongodb

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// searchFilter builds a case-insensitive substring match OR'ed across fields.
// The term is quoted so user input never acts as a pattern.
func searchFilter(term string, fields ...string) bson.M {
	term = strings.TrimSpace(term)
	if term == "" || len(fields) == 0 {
		return bson.M{}
	}
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	or := make(bson.A, 0, len(fields))
	for _, field := range fields {
		or = append(or, bson.M{field: pattern})
	}
	return bson.M{"$or": or}
}

// withExact adds an exact-match condition when value is non-empty
func withExact(filter bson.M, field, value string) bson.M {
	if value = strings.TrimSpace(value); value != "" {
		filter[field] = value
	}
	return filter
}

// findPage counts the documents matching filter and decodes one page of them into out
func findPage(ctx context.Context, coll *mongo.Collection, filter bson.M, page models.PageRequest, sort bson.D, out interface{}) (int64, error) {
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, err
	}

	opts := options.Find().
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit)).
		SetSort(sort)

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return 0, err
	}
	return total, nil
}

// updateByID applies $set to one document and decodes the result into out
func updateByID(ctx context.Context, coll *mongo.Collection, id interface{}, set bson.M, out interface{}) error {
	set["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(out)
	return translate(err)
}

// deleteByID deletes one document, reporting ErrNotFound when nothing matched
func deleteByID(ctx context.Context, coll *mongo.Collection, id interface{}) error {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// findOne decodes a single document into out
func findOne(ctx context.Context, coll *mongo.Collection, filter bson.M, out interface{}) error {
	return translate(coll.FindOne(ctx, filter).Decode(out))
}

// findAll decodes every document matching filter into out
func findAll(ctx context.Context, coll *mongo.Collection, filter bson.M, out interface{}, opts ...*options.FindOptions) error {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

// aggregate runs a pipeline and decodes every result into out
func aggregate(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline, out interface{}) error {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

// translate maps driver errors onto repository errors
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repositories.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repositories.ErrDuplicate
	default:
		return err
	}
}
