package services

import (
	"context"
	"sync"
	"time"

	"github.com/actinova/admin-backend/internal/events"
	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/pkg/mailer"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// get returns argument i as T, or T's zero value when the mock returned nil
func get[T any](args mock.Arguments, i int) T {
	var zero T
	if v := args.Get(i); v != nil {
		return v.(T)
	}
	return zero
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, id)
	return get[*models.User](args, 0), args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	return get[*models.User](args, 0), args.Error(1)
}

func (m *UserRepoMock) List(ctx context.Context, filter models.UserFilter, page models.PageRequest) ([]*models.User, int64, error) {
	args := m.Called(ctx, filter, page)
	return get[[]*models.User](args, 0), get[int64](args, 1), args.Error(2)
}

func (m *UserRepoMock) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error) {
	args := m.Called(ctx, id, set)
	return get[*models.User](args, 0), args.Error(1)
}

func (m *UserRepoMock) UpdateMany(ctx context.Context, ids []primitive.ObjectID, set bson.M) (int64, error) {
	args := m.Called(ctx, ids, set)
	return get[int64](args, 0), args.Error(1)
}

func (m *UserRepoMock) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *UserRepoMock) DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, ids)
	return get[int64](args, 0), args.Error(1)
}

func (m *UserRepoMock) UpsertByEmail(ctx context.Context, user *models.User) (bool, error) {
	args := m.Called(ctx, user)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepoMock) FindRecent(ctx context.Context, limit int) ([]*models.User, error) {
	args := m.Called(ctx, limit)
	return get[[]*models.User](args, 0), args.Error(1)
}

func (m *UserRepoMock) FindCreatedSince(ctx context.Context, since time.Time, limit int) ([]*models.User, error) {
	args := m.Called(ctx, since, limit)
	return get[[]*models.User](args, 0), args.Error(1)
}

type AdminRepoMock struct{ mock.Mock }

func (m *AdminRepoMock) Create(ctx context.Context, admin *models.Admin) error {
	return m.Called(ctx, admin).Error(0)
}

func (m *AdminRepoMock) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	args := m.Called(ctx, id)
	return get[*models.Admin](args, 0), args.Error(1)
}

func (m *AdminRepoMock) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	args := m.Called(ctx, email)
	return get[*models.Admin](args, 0), args.Error(1)
}

func (m *AdminRepoMock) FindByResetToken(ctx context.Context, token string) (*models.Admin, error) {
	args := m.Called(ctx, token)
	return get[*models.Admin](args, 0), args.Error(1)
}

func (m *AdminRepoMock) FindAll(ctx context.Context) ([]*models.Admin, error) {
	args := m.Called(ctx)
	return get[[]*models.Admin](args, 0), args.Error(1)
}

func (m *AdminRepoMock) FindPending(ctx context.Context) ([]*models.Admin, error) {
	args := m.Called(ctx)
	return get[[]*models.Admin](args, 0), args.Error(1)
}

func (m *AdminRepoMock) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	return m.Called(ctx, id, set).Error(0)
}

func (m *AdminRepoMock) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

type CourseRepoMock struct{ mock.Mock }

func (m *CourseRepoMock) FindCategories(ctx context.Context) ([]*models.CourseCategory, error) {
	args := m.Called(ctx)
	return get[[]*models.CourseCategory](args, 0), args.Error(1)
}

func (m *CourseRepoMock) FindLibrary(ctx context.Context) ([]*models.LibraryCourse, error) {
	args := m.Called(ctx)
	return get[[]*models.LibraryCourse](args, 0), args.Error(1)
}

func (m *CourseRepoMock) FindTrending(ctx context.Context) ([]*models.TrendingCourse, error) {
	args := m.Called(ctx)
	return get[[]*models.TrendingCourse](args, 0), args.Error(1)
}

func (m *CourseRepoMock) UpsertCatalog(ctx context.Context, courses []*models.CatalogCourse) error {
	return m.Called(ctx, courses).Error(0)
}

func (m *CourseRepoMock) InsertCatalog(ctx context.Context, course *models.CatalogCourse) error {
	return m.Called(ctx, course).Error(0)
}

func (m *CourseRepoMock) DeleteCatalogBefore(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return get[int64](args, 0), args.Error(1)
}

func (m *CourseRepoMock) ListCatalog(ctx context.Context, filter models.CourseFilter, page models.PageRequest) ([]*models.CatalogCourse, int64, error) {
	args := m.Called(ctx, filter, page)
	return get[[]*models.CatalogCourse](args, 0), get[int64](args, 1), args.Error(2)
}

func (m *CourseRepoMock) FindCatalog(ctx context.Context, key string) (*models.CatalogCourse, error) {
	args := m.Called(ctx, key)
	return get[*models.CatalogCourse](args, 0), args.Error(1)
}

func (m *CourseRepoMock) UpdateCatalog(ctx context.Context, key string, set bson.M) (*models.CatalogCourse, error) {
	args := m.Called(ctx, key, set)
	return get[*models.CatalogCourse](args, 0), args.Error(1)
}

func (m *CourseRepoMock) DeleteCatalog(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *CourseRepoMock) UpdateSource(ctx context.Context, course *models.CatalogCourse, update models.CourseUpdate) error {
	return m.Called(ctx, course, update).Error(0)
}

func (m *CourseRepoMock) DeleteSource(ctx context.Context, course *models.CatalogCourse) error {
	return m.Called(ctx, course).Error(0)
}

type ContactRepoMock struct{ mock.Mock }

func (m *ContactRepoMock) Create(ctx context.Context, contact *models.Contact) error {
	return m.Called(ctx, contact).Error(0)
}

func (m *ContactRepoMock) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Contact, error) {
	args := m.Called(ctx, id)
	return get[*models.Contact](args, 0), args.Error(1)
}

func (m *ContactRepoMock) List(ctx context.Context, filter models.ContactFilter, page models.PageRequest) ([]*models.Contact, int64, error) {
	args := m.Called(ctx, filter, page)
	return get[[]*models.Contact](args, 0), get[int64](args, 1), args.Error(2)
}

func (m *ContactRepoMock) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Contact, error) {
	args := m.Called(ctx, id, set)
	return get[*models.Contact](args, 0), args.Error(1)
}

func (m *ContactRepoMock) RecordResponse(ctx context.Context, id primitive.ObjectID, entry models.ResponseEntry, note string) (*models.Contact, error) {
	args := m.Called(ctx, id, entry, note)
	return get[*models.Contact](args, 0), args.Error(1)
}

func (m *ContactRepoMock) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ContactRepoMock) FindRecent(ctx context.Context, limit int) ([]*models.Contact, error) {
	args := m.Called(ctx, limit)
	return get[[]*models.Contact](args, 0), args.Error(1)
}

func (m *ContactRepoMock) FindCreatedSince(ctx context.Context, since time.Time, limit int) ([]*models.Contact, error) {
	args := m.Called(ctx, since, limit)
	return get[[]*models.Contact](args, 0), args.Error(1)
}

type PlanRepoMock struct{ mock.Mock }

func (m *PlanRepoMock) Create(ctx context.Context, plan *models.Plan) error {
	return m.Called(ctx, plan).Error(0)
}

func (m *PlanRepoMock) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Plan, error) {
	args := m.Called(ctx, id)
	return get[*models.Plan](args, 0), args.Error(1)
}

func (m *PlanRepoMock) FindAll(ctx context.Context) ([]*models.Plan, error) {
	args := m.Called(ctx)
	return get[[]*models.Plan](args, 0), args.Error(1)
}

func (m *PlanRepoMock) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Plan, error) {
	args := m.Called(ctx, id, set)
	return get[*models.Plan](args, 0), args.Error(1)
}

func (m *PlanRepoMock) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

type PostRepoMock struct{ mock.Mock }

func (m *PostRepoMock) Create(ctx context.Context, post *models.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *PostRepoMock) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	args := m.Called(ctx, id)
	return get[*models.Post](args, 0), args.Error(1)
}

func (m *PostRepoMock) List(ctx context.Context, filter models.PostFilter, page models.PageRequest) ([]*models.Post, int64, error) {
	args := m.Called(ctx, filter, page)
	return get[[]*models.Post](args, 0), get[int64](args, 1), args.Error(2)
}

func (m *PostRepoMock) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Post, error) {
	args := m.Called(ctx, id, set)
	return get[*models.Post](args, 0), args.Error(1)
}

func (m *PostRepoMock) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *PostRepoMock) IncrementComments(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *PostRepoMock) DecrementComments(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

type CommentRepoMock struct{ mock.Mock }

func (m *CommentRepoMock) Create(ctx context.Context, comment *models.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *CommentRepoMock) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	args := m.Called(ctx, id)
	return get[*models.Comment](args, 0), args.Error(1)
}

func (m *CommentRepoMock) ListByPost(ctx context.Context, postID primitive.ObjectID, page models.PageRequest) ([]*models.Comment, int64, error) {
	args := m.Called(ctx, postID, page)
	return get[[]*models.Comment](args, 0), get[int64](args, 1), args.Error(2)
}

func (m *CommentRepoMock) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *CommentRepoMock) DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, postID)
	return get[int64](args, 0), args.Error(1)
}

type CardSetRepoMock struct{ mock.Mock }

func (m *CardSetRepoMock) FindByID(ctx context.Context, id primitive.ObjectID) (*models.CardSet, error) {
	args := m.Called(ctx, id)
	return get[*models.CardSet](args, 0), args.Error(1)
}

func (m *CardSetRepoMock) List(ctx context.Context, search string, page models.PageRequest) ([]*models.CardSet, int64, error) {
	args := m.Called(ctx, search, page)
	return get[[]*models.CardSet](args, 0), get[int64](args, 1), args.Error(2)
}

func (m *CardSetRepoMock) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *CardSetRepoMock) DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, ids)
	return get[int64](args, 0), args.Error(1)
}

func (m *CardSetRepoMock) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, userID)
	return get[int64](args, 0), args.Error(1)
}

type TestRepoMock struct{ mock.Mock }

func (m *TestRepoMock) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Test, error) {
	args := m.Called(ctx, id)
	return get[*models.Test](args, 0), args.Error(1)
}

func (m *TestRepoMock) List(ctx context.Context, filter models.TestFilter, page models.PageRequest) ([]*models.Test, int64, error) {
	args := m.Called(ctx, filter, page)
	return get[[]*models.Test](args, 0), get[int64](args, 1), args.Error(2)
}

func (m *TestRepoMock) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *TestRepoMock) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, userID)
	return get[int64](args, 0), args.Error(1)
}

type InteractionRepoMock struct{ mock.Mock }

func (m *InteractionRepoMock) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, userID)
	return get[int64](args, 0), args.Error(1)
}

func (m *InteractionRepoMock) CountByTarget(ctx context.Context, interactionType string, targetID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, interactionType, targetID)
	return get[int64](args, 0), args.Error(1)
}

type VisitorRepoMock struct{ mock.Mock }

func (m *VisitorRepoMock) Increment(ctx context.Context, day time.Time) (*models.VisitorCounter, error) {
	args := m.Called(ctx, day)
	return get[*models.VisitorCounter](args, 0), args.Error(1)
}

func (m *VisitorRepoMock) FindRange(ctx context.Context, from, to time.Time) ([]*models.VisitorCounter, error) {
	args := m.Called(ctx, from, to)
	return get[[]*models.VisitorCounter](args, 0), args.Error(1)
}

type AnalyticsRepoMock struct{ mock.Mock }

func (m *AnalyticsRepoMock) CountUsers(ctx context.Context, filter bson.M) (int64, error) {
	args := m.Called(ctx, filter)
	return get[int64](args, 0), args.Error(1)
}

func (m *AnalyticsRepoMock) UserGrowth(ctx context.Context, since time.Time) ([]models.DateCount, error) {
	args := m.Called(ctx, since)
	return get[[]models.DateCount](args, 0), args.Error(1)
}

func (m *AnalyticsRepoMock) SubscriptionDistribution(ctx context.Context) ([]models.LabelCount, error) {
	args := m.Called(ctx)
	return get[[]models.LabelCount](args, 0), args.Error(1)
}

func (m *AnalyticsRepoMock) CountActiveSubscriptions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return get[int64](args, 0), args.Error(1)
}

func (m *AnalyticsRepoMock) CountOfficialCourses(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return get[int64](args, 0), args.Error(1)
}

func (m *AnalyticsRepoMock) CountLibraryCourses(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return get[int64](args, 0), args.Error(1)
}

func (m *AnalyticsRepoMock) CountTrendingCourses(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return get[int64](args, 0), args.Error(1)
}

func (m *AnalyticsRepoMock) CourseDifficulty(ctx context.Context) ([]models.LabelCount, error) {
	args := m.Called(ctx)
	return get[[]models.LabelCount](args, 0), args.Error(1)
}

func (m *AnalyticsRepoMock) CountCollection(ctx context.Context, collection string, filter bson.M) (int64, error) {
	args := m.Called(ctx, collection, filter)
	return get[int64](args, 0), args.Error(1)
}

func (m *AnalyticsRepoMock) InteractionsByType(ctx context.Context, since time.Time) ([]models.LabelCount, error) {
	args := m.Called(ctx, since)
	return get[[]models.LabelCount](args, 0), args.Error(1)
}

func (m *AnalyticsRepoMock) ContactsByStatus(ctx context.Context) ([]models.LabelCount, error) {
	args := m.Called(ctx)
	return get[[]models.LabelCount](args, 0), args.Error(1)
}

type BillingRepoMock struct{ mock.Mock }

func (m *BillingRepoMock) TotalRevenue(ctx context.Context, since time.Time) (float64, error) {
	args := m.Called(ctx, since)
	return get[float64](args, 0), args.Error(1)
}

func (m *BillingRepoMock) RevenueByMonth(ctx context.Context, since time.Time) ([]models.MonthRevenue, error) {
	args := m.Called(ctx, since)
	return get[[]models.MonthRevenue](args, 0), args.Error(1)
}

func (m *BillingRepoMock) RevenueByPlan(ctx context.Context, since time.Time) ([]models.PlanRevenue, error) {
	args := m.Called(ctx, since)
	return get[[]models.PlanRevenue](args, 0), args.Error(1)
}

func (m *BillingRepoMock) TransactionStatus(ctx context.Context, since time.Time) ([]models.LabelCount, error) {
	args := m.Called(ctx, since)
	return get[[]models.LabelCount](args, 0), args.Error(1)
}

func (m *BillingRepoMock) ActiveSubscribersByPlan(ctx context.Context) ([]models.LabelCount, error) {
	args := m.Called(ctx)
	return get[[]models.LabelCount](args, 0), args.Error(1)
}

func (m *BillingRepoMock) ListTransactions(ctx context.Context, filter models.TransactionFilter, page models.PageRequest) ([]*models.Transaction, int64, error) {
	args := m.Called(ctx, filter, page)
	return get[[]*models.Transaction](args, 0), get[int64](args, 1), args.Error(2)
}

// MailerMock records every message and answers with a fixed status
type MailerMock struct {
	mu     sync.Mutex
	status mailer.DeliveryStatus
	err    error
	sent   []mailer.Message
}

func (m *MailerMock) Send(_ context.Context, msg mailer.Message) (mailer.DeliveryStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.status, m.err
}

func (m *MailerMock) Sent() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailer.Message(nil), m.sent...)
}

// PublisherMock records every published event
type PublisherMock struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *PublisherMock) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *PublisherMock) Close() error { return nil }

func (p *PublisherMock) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

func newTestNotifier(status mailer.DeliveryStatus, err error) (*Notifier, *MailerMock, *PublisherMock) {
	m := &MailerMock{status: status, err: err}
	p := &PublisherMock{}
	return NewNotifier(m, p, zap.NewNop()), m, p
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
