package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/actinova/admin-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when a lookup or targeted write matches nothing
var ErrNotFound = errors.New("document not found")

// ErrDuplicate is returned when an insert violates a unique index
var ErrDuplicate = errors.New("duplicate document")

// UserRepository defines the interface for learner data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter, page models.PageRequest) ([]*models.User, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error)
	UpdateMany(ctx context.Context, ids []primitive.ObjectID, set bson.M) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error)
	UpsertByEmail(ctx context.Context, user *models.User) (bool, error)
	FindRecent(ctx context.Context, limit int) ([]*models.User, error)
	FindCreatedSince(ctx context.Context, since time.Time, limit int) ([]*models.User, error)
}

// AdminRepository defines the interface for back-office account operations
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error)
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	FindByResetToken(ctx context.Context, token string) (*models.Admin, error)
	FindAll(ctx context.Context) ([]*models.Admin, error)
	FindPending(ctx context.Context) ([]*models.Admin, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CourseRepository reads the three course sources and maintains the
// normalized catalog built from them
type CourseRepository interface {
	FindCategories(ctx context.Context) ([]*models.CourseCategory, error)
	FindLibrary(ctx context.Context) ([]*models.LibraryCourse, error)
	FindTrending(ctx context.Context) ([]*models.TrendingCourse, error)

	UpsertCatalog(ctx context.Context, courses []*models.CatalogCourse) error
	InsertCatalog(ctx context.Context, course *models.CatalogCourse) error
	DeleteCatalogBefore(ctx context.Context, reconciledBefore time.Time) (int64, error)
	ListCatalog(ctx context.Context, filter models.CourseFilter, page models.PageRequest) ([]*models.CatalogCourse, int64, error)
	FindCatalog(ctx context.Context, key string) (*models.CatalogCourse, error)
	UpdateCatalog(ctx context.Context, key string, set bson.M) (*models.CatalogCourse, error)
	DeleteCatalog(ctx context.Context, key string) error

	UpdateSource(ctx context.Context, course *models.CatalogCourse, update models.CourseUpdate) error
	DeleteSource(ctx context.Context, course *models.CatalogCourse) error
}

// ContactRepository defines the interface for contact form operations
type ContactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Contact, error)
	List(ctx context.Context, filter models.ContactFilter, page models.PageRequest) ([]*models.Contact, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Contact, error)
	RecordResponse(ctx context.Context, id primitive.ObjectID, entry models.ResponseEntry, note string) (*models.Contact, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindRecent(ctx context.Context, limit int) ([]*models.Contact, error)
	FindCreatedSince(ctx context.Context, since time.Time, limit int) ([]*models.Contact, error)
}

// PlanRepository defines the interface for subscription plan operations
type PlanRepository interface {
	Create(ctx context.Context, plan *models.Plan) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Plan, error)
	FindAll(ctx context.Context) ([]*models.Plan, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Plan, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PostRepository defines the interface for blog post operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	List(ctx context.Context, filter models.PostFilter, page models.PageRequest) ([]*models.Post, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	IncrementComments(ctx context.Context, id primitive.ObjectID) error
	DecrementComments(ctx context.Context, id primitive.ObjectID) error
}

// CommentRepository defines the interface for blog comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	ListByPost(ctx context.Context, postID primitive.ObjectID, page models.PageRequest) ([]*models.Comment, int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error)
}

// CardSetRepository defines the interface for flashcard set operations
type CardSetRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.CardSet, error)
	List(ctx context.Context, search string, page models.PageRequest) ([]*models.CardSet, int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error)
	CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// TestRepository defines the interface for generated quiz operations
type TestRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Test, error)
	List(ctx context.Context, filter models.TestFilter, page models.PageRequest) ([]*models.Test, int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// InteractionRepository counts learner interactions
type InteractionRepository interface {
	CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
	CountByTarget(ctx context.Context, interactionType string, targetID primitive.ObjectID) (int64, error)
}

// VisitorRepository maintains the daily visitor counters
type VisitorRepository interface {
	Increment(ctx context.Context, day time.Time) (*models.VisitorCounter, error)
	FindRange(ctx context.Context, from, to time.Time) ([]*models.VisitorCounter, error)
}

// AnalyticsRepository runs the read-only reporting aggregations
type AnalyticsRepository interface {
	CountUsers(ctx context.Context, filter bson.M) (int64, error)
	UserGrowth(ctx context.Context, since time.Time) ([]models.DateCount, error)
	SubscriptionDistribution(ctx context.Context) ([]models.LabelCount, error)
	CountActiveSubscriptions(ctx context.Context) (int64, error)

	CountOfficialCourses(ctx context.Context) (int64, error)
	CountLibraryCourses(ctx context.Context) (int64, error)
	CountTrendingCourses(ctx context.Context) (int64, error)
	CourseDifficulty(ctx context.Context) ([]models.LabelCount, error)

	CountCollection(ctx context.Context, collection string, filter bson.M) (int64, error)
	InteractionsByType(ctx context.Context, since time.Time) ([]models.LabelCount, error)
	ContactsByStatus(ctx context.Context) ([]models.LabelCount, error)
}

// BillingRepository runs the billing aggregations over users.billingHistory
type BillingRepository interface {
	TotalRevenue(ctx context.Context, since time.Time) (float64, error)
	RevenueByMonth(ctx context.Context, since time.Time) ([]models.MonthRevenue, error)
	RevenueByPlan(ctx context.Context, since time.Time) ([]models.PlanRevenue, error)
	TransactionStatus(ctx context.Context, since time.Time) ([]models.LabelCount, error)
	ActiveSubscribersByPlan(ctx context.Context) ([]models.LabelCount, error)
	ListTransactions(ctx context.Context, filter models.TransactionFilter, page models.PageRequest) ([]*models.Transaction, int64, error)
}
