package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/repositories"
	mongodb "github.com/actinova/admin-backend/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure CourseRepository implements the interface
var _ repositories.CourseRepository = (*CourseRepository)(nil)

// CourseRepository reads the three course sources and writes the catalog
type CourseRepository struct {
	categories *mongo.Collection
	library    *mongo.Collection
	trending   *mongo.Collection
	catalog    *mongo.Collection
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{
		categories: db.Collection(mongodb.CategoryCoursesCollection),
		library:    db.Collection(mongodb.LibraryCollection),
		trending:   db.Collection(mongodb.TrendingCoursesCollection),
		catalog:    db.Collection(mongodb.CourseCatalogCollection),
	}
}

// FindCategories returns every official category with its embedded courses
func (r *CourseRepository) FindCategories(ctx context.Context) ([]*models.CourseCategory, error) {
	categories := []*models.CourseCategory{}
	if err := findAll(ctx, r.categories, bson.M{}, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// FindLibrary returns every community course
func (r *CourseRepository) FindLibrary(ctx context.Context) ([]*models.LibraryCourse, error) {
	courses := []*models.LibraryCourse{}
	if err := findAll(ctx, r.library, bson.M{}, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// FindTrending returns every trending topic
func (r *CourseRepository) FindTrending(ctx context.Context) ([]*models.TrendingCourse, error) {
	courses := []*models.TrendingCourse{}
	if err := findAll(ctx, r.trending, bson.M{}, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// UpsertCatalog replaces the catalog entries for the given keys in one bulk write
func (r *CourseRepository) UpsertCatalog(ctx context.Context, courses []*models.CatalogCourse) error {
	if len(courses) == 0 {
		return nil
	}
	writes := make([]mongo.WriteModel, 0, len(courses))
	for _, course := range courses {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": course.Key}).
			SetReplacement(course).
			SetUpsert(true))
	}
	_, err := r.catalog.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	return err
}

// InsertCatalog adds one entry and fails with ErrDuplicate when its key is taken
func (r *CourseRepository) InsertCatalog(ctx context.Context, course *models.CatalogCourse) error {
	_, err := r.catalog.InsertOne(ctx, course)
	return translate(err)
}

// DeleteCatalogBefore removes entries not refreshed since reconciledBefore
func (r *CourseRepository) DeleteCatalogBefore(ctx context.Context, reconciledBefore time.Time) (int64, error) {
	res, err := r.catalog.DeleteMany(ctx, bson.M{"reconciledAt": bson.M{"$lt": reconciledBefore}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListCatalog returns one page of catalog entries, alphabetically
func (r *CourseRepository) ListCatalog(ctx context.Context, filter models.CourseFilter, page models.PageRequest) ([]*models.CatalogCourse, int64, error) {
	query := searchFilter(filter.Search, "title", "creator", "category")
	withExact(query, "difficulty", filter.Difficulty)
	withExact(query, "source", filter.Source)

	courses := []*models.CatalogCourse{}
	sort := bson.D{{Key: "title", Value: 1}, {Key: "_id", Value: 1}}
	total, err := findPage(ctx, r.catalog, query, page, sort, &courses)
	if err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

// FindCatalog finds one catalog entry by key
func (r *CourseRepository) FindCatalog(ctx context.Context, key string) (*models.CatalogCourse, error) {
	var course models.CatalogCourse
	if err := findOne(ctx, r.catalog, bson.M{"_id": key}, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// UpdateCatalog sets fields on one catalog entry
func (r *CourseRepository) UpdateCatalog(ctx context.Context, key string, set bson.M) (*models.CatalogCourse, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var course models.CatalogCourse
	err := r.catalog.FindOneAndUpdate(ctx, bson.M{"_id": key}, bson.M{"$set": set}, opts).Decode(&course)
	if err != nil {
		return nil, translate(err)
	}
	return &course, nil
}

// DeleteCatalog removes one catalog entry
func (r *CourseRepository) DeleteCatalog(ctx context.Context, key string) error {
	return deleteByID(ctx, r.catalog, key)
}

// UpdateSource writes the editable fields back to the document the course
// was read from. Official courses are addressed by array position and must
// still carry the catalog title there.
func (r *CourseRepository) UpdateSource(ctx context.Context, course *models.CatalogCourse, update models.CourseUpdate) error {
	coll, err := r.sourceCollection(course.Source)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": course.SourceID}
	prefix := ""
	if course.Source == models.SourceOfficial {
		var element string
		filter, element = officialElement(course)
		prefix = element + "."
	}

	set := bson.M{}
	if update.Title != nil {
		titleField := "title"
		if course.Source == models.SourceTrending {
			titleField = "topic"
		}
		set[prefix+titleField] = *update.Title
	}
	if update.Difficulty != nil {
		set[prefix+"difficulty"] = *update.Difficulty
	}
	if update.Price != nil {
		set[prefix+"price"] = *update.Price
	}
	if len(set) == 0 {
		return nil
	}
	if course.Source != models.SourceOfficial {
		set["updatedAt"] = time.Now()
	}

	res, err := coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// DeleteSource removes the course from the document it was read from. Removing
// an official course shifts the positions of the catalog entries after it.
func (r *CourseRepository) DeleteSource(ctx context.Context, course *models.CatalogCourse) error {
	coll, err := r.sourceCollection(course.Source)
	if err != nil {
		return err
	}
	if course.Source != models.SourceOfficial {
		return deleteByID(ctx, coll, course.SourceID)
	}

	filter, _ := officialElement(course)
	res, err := coll.UpdateOne(ctx, filter, withoutElement("courses", course.SourceIndex))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}

	_, err = r.catalog.UpdateMany(ctx,
		bson.M{
			"source":      models.SourceOfficial,
			"sourceId":    course.SourceID,
			"sourceIndex": bson.M{"$gt": course.SourceIndex},
		},
		bson.M{"$inc": bson.M{"sourceIndex": -1}},
	)
	return err
}

// officialElement returns a filter matching the category only while the
// course still sits at its recorded position, and the path of that element.
func officialElement(course *models.CatalogCourse) (bson.M, string) {
	element := fmt.Sprintf("courses.%d", course.SourceIndex)
	return bson.M{"_id": course.SourceID, element + ".title": course.Title}, element
}

// withoutElement is an update pipeline dropping the element at index from an
// array field. $pull cannot target a position, only matching values.
func withoutElement(field string, index int) mongo.Pipeline {
	positions := bson.M{"$range": bson.A{0, bson.M{"$size": "$" + field}}}
	kept := bson.M{"$filter": bson.M{
		"input": bson.M{"$zip": bson.M{"inputs": bson.A{"$" + field, positions}}},
		"cond":  bson.M{"$ne": bson.A{bson.M{"$arrayElemAt": bson.A{"$$this", 1}}, index}},
	}}
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{field: bson.M{"$map": bson.M{
			"input": kept,
			"in":    bson.M{"$arrayElemAt": bson.A{"$$this", 0}},
		}}}}},
	}
}

func (r *CourseRepository) sourceCollection(source string) (*mongo.Collection, error) {
	switch source {
	case models.SourceOfficial:
		return r.categories, nil
	case models.SourceCommunity:
		return r.library, nil
	case models.SourceTrending:
		return r.trending, nil
	default:
		return nil, fmt.Errorf("unknown course source %q", source)
	}
}
