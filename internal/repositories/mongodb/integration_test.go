//go:build integration

package mongodb_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/actinova/admin-backend/internal/cache"
	"github.com/actinova/admin-backend/internal/config"
	"github.com/actinova/admin-backend/internal/events"
	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/repositories"
	mongorepo "github.com/actinova/admin-backend/internal/repositories/mongodb"
	"github.com/actinova/admin-backend/internal/services"
	"github.com/actinova/admin-backend/pkg/mailer"
	mongodb "github.com/actinova/admin-backend/pkg/mongodb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func setupTestDB(t *testing.T) *mongo.Database {
	t.Helper()
	ctx := context.Background()

	container, err := tcmongo.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongodb.NewClient(ctx, uri, 10*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database("actinova_test")
	require.NoError(t, mongorepo.EnsureIndexes(ctx, db))
	return db
}

func seedUsers(t *testing.T, repo repositories.UserRepository, names ...string) []*models.User {
	t.Helper()
	users := make([]*models.User, 0, len(names))
	for _, name := range names {
		user := &models.User{
			Name:         name,
			Email:        slug(name) + "@example.com",
			Status:       models.UserStatusActive,
			Subscription: models.Subscription{Plan: models.PlanFree, Status: "active"},
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		require.NoError(t, repo.Create(context.Background(), user))
		users = append(users, user)
	}
	return users
}

func slug(name string) string {
	out := []rune{}
	for _, r := range name {
		if r == ' ' {
			r = '.'
		}
		out = append(out, r)
	}
	return string(out)
}

func TestIntegration_AdminBackOffice(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	logger := zap.NewNop()

	userRepo := mongorepo.NewUserRepository(db)
	cardSetRepo := mongorepo.NewCardSetRepository(db)
	testRepo := mongorepo.NewTestRepository(db)
	interactionRepo := mongorepo.NewInteractionRepository(db)
	notifier := services.NewNotifier(mailer.New(config.SMTPConfig{}, false, logger), events.Noop{}, logger)
	userService := services.NewUserService(userRepo, cardSetRepo, testRepo, interactionRepo, notifier)
	session := models.AdminSession{Email: "root@actinova.ai", Role: models.RoleSuperAdmin}

	seeded := seedUsers(t, userRepo, "Alice Johnson", "Bob Smith", "Carol White", "Dan Brown", "Eve Black")

	t.Run("pagination total equals filtered count", func(t *testing.T) {
		page, err := userService.List(ctx, models.UserFilter{}, models.PageRequest{Page: 1, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(5), page.Pagination.Total)
		assert.Equal(t, int64(3), page.Pagination.TotalPages)
		assert.Len(t, page.Items, 2)

		last, err := userService.List(ctx, models.UserFilter{}, models.PageRequest{Page: 3, Limit: 2})
		require.NoError(t, err)
		assert.Len(t, last.Items, 1)
	})

	t.Run("search matches name case-insensitively", func(t *testing.T) {
		page, err := userService.List(ctx, models.UserFilter{Search: "alice"}, models.PageRequest{Page: 1, Limit: 10})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Alice Johnson", page.Items[0].Name)
	})

	t.Run("bulk update touches exactly the given ids", func(t *testing.T) {
		ids := []string{seeded[1].ID.Hex(), seeded[2].ID.Hex()}
		modified, err := userService.BulkUpdate(ctx, session, models.BulkUserUpdate{
			IDs:     ids,
			Updates: models.BulkUserUpdateSet{Status: models.UserStatusSuspended},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), modified)

		suspended, err := userService.List(ctx, models.UserFilter{Status: models.UserStatusSuspended}, models.PageRequest{Page: 1, Limit: 10})
		require.NoError(t, err)
		got := []string{}
		for _, item := range suspended.Items {
			got = append(got, item.ID.Hex())
		}
		assert.ElementsMatch(t, ids, got)
	})

	t.Run("deleted user is gone", func(t *testing.T) {
		target := seeded[4].ID.Hex()
		require.NoError(t, userService.Delete(ctx, session, target))

		_, err := userService.Get(ctx, target)
		assert.ErrorIs(t, err, services.ErrNotFound)
		assert.ErrorIs(t, userService.Delete(ctx, session, target), services.ErrNotFound)

		page, err := userService.List(ctx, models.UserFilter{}, models.PageRequest{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(4), page.Pagination.Total)
		for _, item := range page.Items {
			assert.NotEqual(t, target, item.ID.Hex())
		}
	})

	t.Run("total courses spans all three sources", func(t *testing.T) {
		_, err := db.Collection(mongodb.CategoryCoursesCollection).InsertMany(ctx, []interface{}{
			bson.M{"name": "Science", "courses": bson.A{
				bson.M{"title": "Physics 101", "difficulty": "beginner"},
				bson.M{"title": "Chemistry 101", "difficulty": "beginner"},
			}},
			bson.M{"name": "Math", "courses": bson.A{
				bson.M{"title": "Algebra", "difficulty": "intermediate"},
			}},
		})
		require.NoError(t, err)
		_, err = db.Collection(mongodb.LibraryCollection).InsertMany(ctx, []interface{}{
			bson.M{"title": "Go Basics", "difficulty": "beginner", "createdAt": time.Now()},
			bson.M{"title": "Go Concurrency", "difficulty": "advanced", "createdAt": time.Now()},
		})
		require.NoError(t, err)
		_, err = db.Collection(mongodb.TrendingCoursesCollection).InsertOne(ctx,
			bson.M{"topic": "Prompting", "difficulty": "beginner", "createdAt": time.Now()})
		require.NoError(t, err)

		analytics := services.NewAnalyticsService(
			mongorepo.NewAnalyticsRepository(db),
			mongorepo.NewBillingRepository(db),
			cache.Noop{}, 0, logger,
		)
		report, err := analytics.Report(ctx, 30)
		require.NoError(t, err)
		assert.Equal(t, int64(6), report.Overview.TotalCourses)
		assert.Equal(t, int64(3), report.Overview.OfficialCourses)

		courses := services.NewCourseService(mongorepo.NewCourseRepository(db), logger)
		result, err := courses.Reconcile(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, result.Official)
		assert.Equal(t, 2, result.Community)
		assert.Equal(t, 1, result.Trending)

		catalog, err := courses.List(ctx, models.CourseFilter{}, models.PageRequest{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(6), catalog.Pagination.Total)
	})

	t.Run("respond without smtp is simulated", func(t *testing.T) {
		contacts := services.NewContactService(mongorepo.NewContactRepository(db), notifier, logger)
		contact, err := contacts.Submit(ctx, models.ContactInput{
			Name: "Frank", Email: "frank@example.com", Subject: "Billing", Message: "Charged twice",
		})
		require.NoError(t, err)

		result, err := contacts.Respond(ctx, session, contact.ID.Hex(), models.RespondRequest{Message: "Refunded."})
		require.NoError(t, err)
		assert.Equal(t, string(mailer.StatusSimulated), result.DeliveryStatus)

		stored, err := contacts.Get(ctx, contact.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, models.ContactStatusInProgress, stored.Status)
		require.Len(t, stored.ResponseHistory, 1)
		assert.Equal(t, string(mailer.StatusSimulated), stored.ResponseHistory[0].DeliveryStatus)
		assert.Equal(t, session.Email, stored.ResponseHistory[0].RespondedBy)
	})

	notifier.Wait()
}

func officialTitles(t *testing.T, repo *mongorepo.CourseRepository) []models.CategoryCourse {
	t.Helper()
	categories, err := repo.FindCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	return categories[0].Courses
}

func TestIntegration_CatalogWrites(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	categoryID := primitive.NewObjectID()
	_, err := db.Collection(mongodb.CategoryCoursesCollection).InsertOne(ctx, bson.M{
		"_id":  categoryID,
		"name": "Programming",
		"courses": bson.A{
			bson.M{"title": "Go Basics", "difficulty": "beginner", "price": 0},
			bson.M{"title": "Go Basics", "difficulty": "advanced", "price": 0},
			bson.M{"title": "Rust", "difficulty": "intermediate", "price": 0},
		},
	})
	require.NoError(t, err)

	repo := mongorepo.NewCourseRepository(db)
	courses := services.NewCourseService(repo, zap.NewNop())
	_, err = courses.Reconcile(ctx)
	require.NoError(t, err)

	base := "official:" + categoryID.Hex() + ":go-basics"
	rustKey := "official:" + categoryID.Hex() + ":rust"

	t.Run("editing one duplicate leaves its sibling alone", func(t *testing.T) {
		price := 5.0
		updated, err := courses.Update(ctx, base+"-2", models.CourseUpdate{Price: &price})
		require.NoError(t, err)
		assert.Equal(t, base+"-2", updated.Key)
		assert.Equal(t, 5.0, updated.Price)

		sibling, err := courses.Get(ctx, base)
		require.NoError(t, err)
		assert.Equal(t, "beginner", sibling.Difficulty)
		assert.Zero(t, sibling.Price)

		source := officialTitles(t, repo)
		assert.Zero(t, source[0].Price)
		assert.Equal(t, 5.0, source[1].Price)
	})

	t.Run("rename onto a taken key conflicts", func(t *testing.T) {
		title := "Go Basics"
		_, err := courses.Update(ctx, rustKey, models.CourseUpdate{Title: &title})
		assert.ErrorIs(t, err, services.ErrConflict)

		assert.Equal(t, "Rust", officialTitles(t, repo)[2].Title)
		_, err = courses.Get(ctx, rustKey)
		assert.NoError(t, err)
	})

	t.Run("deleting one duplicate removes only that element", func(t *testing.T) {
		require.NoError(t, courses.Delete(ctx, base+"-2"))

		source := officialTitles(t, repo)
		require.Len(t, source, 2)
		assert.Equal(t, "beginner", source[0].Difficulty)
		assert.Equal(t, "Rust", source[1].Title)

		rust, err := courses.Get(ctx, rustKey)
		require.NoError(t, err)
		assert.Equal(t, 1, rust.SourceIndex)

		price := 12.0
		_, err = courses.Update(ctx, rustKey, models.CourseUpdate{Price: &price})
		require.NoError(t, err)
		assert.Equal(t, 12.0, officialTitles(t, repo)[1].Price)
	})

	t.Run("stale entry at a moved position is not overwritten", func(t *testing.T) {
		stale := &models.CatalogCourse{
			Key: "official:" + categoryID.Hex() + ":ghost", Source: models.SourceOfficial,
			SourceID: categoryID, SourceIndex: 0, Title: "Ghost", ReconciledAt: time.Now(),
		}
		require.NoError(t, repo.InsertCatalog(ctx, stale))
		assert.ErrorIs(t, repo.InsertCatalog(ctx, stale), repositories.ErrDuplicate)

		price := 1.0
		err := repo.UpdateSource(ctx, stale, models.CourseUpdate{Price: &price})
		assert.ErrorIs(t, err, repositories.ErrNotFound)
		assert.ErrorIs(t, repo.DeleteSource(ctx, stale), repositories.ErrNotFound)
		assert.Len(t, officialTitles(t, repo), 2)
	})

	t.Run("reconcile sweeps entries it did not produce", func(t *testing.T) {
		old := &models.CatalogCourse{
			Key: "community:" + primitive.NewObjectID().Hex() + ":gone", Source: models.SourceCommunity,
			Title: "Gone", ReconciledAt: time.Now().Add(-time.Hour),
		}
		require.NoError(t, repo.UpsertCatalog(ctx, []*models.CatalogCourse{old}))

		result, err := courses.Reconcile(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Official)
		assert.GreaterOrEqual(t, result.Removed, int64(2))

		_, err = courses.Get(ctx, old.Key)
		assert.ErrorIs(t, err, services.ErrNotFound)
		_, err = courses.Get(ctx, base)
		assert.NoError(t, err)
	})
}

func TestIntegration_CounterAndNotes(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	t.Run("comment counter never drops below zero", func(t *testing.T) {
		posts := mongorepo.NewPostRepository(db)
		postID := primitive.NewObjectID()
		_, err := db.Collection(mongodb.PostsCollection).InsertOne(ctx, bson.M{"_id": postID, "title": "Hello", "commentsCount": 1})
		require.NoError(t, err)

		require.NoError(t, posts.DecrementComments(ctx, postID))
		require.NoError(t, posts.DecrementComments(ctx, postID))

		post, err := posts.FindByID(ctx, postID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), post.CommentsCount)

		assert.ErrorIs(t, posts.DecrementComments(ctx, primitive.NewObjectID()), repositories.ErrNotFound)
	})

	t.Run("concurrent replies keep every note line", func(t *testing.T) {
		contacts := mongorepo.NewContactRepository(db)
		contact := &models.Contact{Name: "Gina", Email: "gina@example.com", Subject: "Hi", Message: "Hello", AdminNotes: "called back\n"}
		require.NoError(t, contacts.Create(ctx, contact))

		var g errgroup.Group
		for _, who := range []string{"a@actinova.ai", "b@actinova.ai", "c@actinova.ai"} {
			g.Go(func() error {
				_, err := contacts.RecordResponse(ctx, contact.ID, models.ResponseEntry{RespondedBy: who, Message: "$not an operator"}, "replied by "+who)
				return err
			})
		}
		require.NoError(t, g.Wait())

		stored, err := contacts.FindByID(ctx, contact.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ContactStatusInProgress, stored.Status)
		require.Len(t, stored.ResponseHistory, 3)
		assert.Equal(t, "$not an operator", stored.ResponseHistory[0].Message)

		lines := strings.Split(stored.AdminNotes, "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "called back", lines[0])
		assert.ElementsMatch(t, []string{
			"replied by a@actinova.ai", "replied by b@actinova.ai", "replied by c@actinova.ai",
		}, lines[1:])
	})

	t.Run("first note replaces blank notes", func(t *testing.T) {
		contacts := mongorepo.NewContactRepository(db)
		contact := &models.Contact{Name: "Hal", Email: "hal@example.com", Subject: "Hi", Message: "Hello", AdminNotes: "  "}
		require.NoError(t, contacts.Create(ctx, contact))

		updated, err := contacts.RecordResponse(ctx, contact.ID, models.ResponseEntry{RespondedBy: "a@actinova.ai"}, "first")
		require.NoError(t, err)
		assert.Equal(t, "first", updated.AdminNotes)
	})
}
