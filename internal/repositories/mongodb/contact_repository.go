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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure ContactRepository implements the interface
var _ repositories.ContactRepository = (*ContactRepository)(nil)

// ContactRepository handles MongoDB operations for contact form messages
type ContactRepository struct {
	collection *mongo.Collection
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db *mongo.Database) *ContactRepository {
	return &ContactRepository{
		collection: db.Collection(mongodb.ContactsCollection),
	}
}

// Create inserts a new contact
func (r *ContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	contact.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, contact)
	return err
}

// FindByID finds a contact by ID
func (r *ContactRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Contact, error) {
	var contact models.Contact
	if err := findOne(ctx, r.collection, bson.M{"_id": id}, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// List returns one page of contacts, newest first
func (r *ContactRepository) List(ctx context.Context, filter models.ContactFilter, page models.PageRequest) ([]*models.Contact, int64, error) {
	query := searchFilter(filter.Search, "name", "email", "subject")
	withExact(query, "status", filter.Status)

	contacts := []*models.Contact{}
	total, err := findPage(ctx, r.collection, query, page, bson.D{{Key: "createdAt", Value: -1}}, &contacts)
	if err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

// Update sets fields on one contact
func (r *ContactRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Contact, error) {
	var contact models.Contact
	if err := updateByID(ctx, r.collection, id, set, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// RecordResponse stores a reply in a single pipeline update: the status moves
// to in-progress, note is appended to the stored admin notes and the entry to
// the history. Both appends read the current document, so concurrent replies
// keep each other's lines.
func (r *ContactRepository) RecordResponse(ctx context.Context, id primitive.ObjectID, entry models.ResponseEntry, note string) (*models.Contact, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"status":          bson.M{"$literal": models.ContactStatusInProgress},
			"adminNotes":      appendLine("$adminNotes", note),
			"responseHistory": bson.M{"$concatArrays": bson.A{bson.M{"$ifNull": bson.A{"$responseHistory", bson.A{}}}, bson.A{bson.M{"$literal": entry}}}},
			"updatedAt":       "$$NOW",
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var contact models.Contact
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, pipeline, opts).Decode(&contact); err != nil {
		return nil, translate(err)
	}
	return &contact, nil
}

// appendLine is an aggregation expression adding line to the text in field
// on its own line, dropping trailing newlines first. Blank text is replaced.
func appendLine(field, line string) bson.M {
	return bson.M{"$let": bson.M{
		"vars": bson.M{"text": bson.M{"$rtrim": bson.M{"input": bson.M{"$ifNull": bson.A{field, ""}}, "chars": "\n"}}},
		"in": bson.M{"$cond": bson.A{
			bson.M{"$eq": bson.A{bson.M{"$trim": bson.M{"input": "$$text"}}, ""}},
			bson.M{"$literal": line},
			bson.M{"$concat": bson.A{"$$text", "\n", bson.M{"$literal": line}}},
		}},
	}}
}

// Delete deletes a contact by ID
func (r *ContactRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id)
}

// FindRecent returns the newest contacts
func (r *ContactRepository) FindRecent(ctx context.Context, limit int) ([]*models.Contact, error) {
	return r.findSorted(ctx, bson.M{}, limit)
}

// FindCreatedSince returns contacts created after since, newest first
func (r *ContactRepository) FindCreatedSince(ctx context.Context, since time.Time, limit int) ([]*models.Contact, error) {
	return r.findSorted(ctx, bson.M{"createdAt": bson.M{"$gt": since}}, limit)
}

func (r *ContactRepository) findSorted(ctx context.Context, filter bson.M, limit int) ([]*models.Contact, error) {
	contacts := []*models.Contact{}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(limit))
	if err := findAll(ctx, r.collection, filter, &contacts, opts); err != nil {
		return nil, err
	}
	return contacts, nil
}
