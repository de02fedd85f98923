package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestCatalogKey(t *testing.T) {
	id, err := primitive.ObjectIDFromHex("65f000000000000000000001")
	require.NoError(t, err)

	assert.Equal(t, "official:65f000000000000000000001:intro-to-go", CatalogKey(models.SourceOfficial, id, "Intro to Go!"))
	assert.Equal(t, CatalogKey(models.SourceTrending, id, "Rust"), CatalogKey(models.SourceTrending, id, " rust "))
}

func TestCourseService_Reconcile(t *testing.T) {
	now := time.Date(2026, 2, 1, 8, 0, 0, 123456789, time.UTC)
	categoryID := primitive.NewObjectID()
	libraryID := primitive.NewObjectID()
	trendingID := primitive.NewObjectID()

	repo := &CourseRepoMock{}
	repo.On("FindCategories", mock.Anything).Return([]*models.CourseCategory{{
		ID:   categoryID,
		Name: "Programming",
		Courses: []models.CategoryCourse{
			{Title: "Go Basics", Difficulty: "Beginner"},
			{Title: "Go Basics", Difficulty: "Advanced"},
		},
	}}, nil).Once()
	repo.On("FindLibrary", mock.Anything).Return([]*models.LibraryCourse{{ID: libraryID, Title: "Cooking"}}, nil).Once()
	repo.On("FindTrending", mock.Anything).Return([]*models.TrendingCourse{{ID: trendingID, Topic: "AI Agents"}}, nil).Once()

	var written []*models.CatalogCourse
	repo.On("UpsertCatalog", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		written = args.Get(1).([]*models.CatalogCourse)
	}).Return(nil).Once()
	runStart := now.Truncate(time.Millisecond)
	repo.On("DeleteCatalogBefore", mock.Anything, runStart).Return(int64(2), nil).Once()

	svc := NewCourseService(repo, zap.NewNop())
	svc.now = fixedClock(now)

	result, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Official)
	assert.Equal(t, 1, result.Community)
	assert.Equal(t, 1, result.Trending)
	assert.Equal(t, int64(2), result.Removed)

	require.Len(t, written, 4)
	base := "official:" + categoryID.Hex() + ":go-basics"
	assert.Equal(t, base, written[0].Key)
	assert.Equal(t, base+"-2", written[1].Key)
	assert.Equal(t, 0, written[0].SourceIndex)
	assert.Equal(t, 1, written[1].SourceIndex)
	assert.Equal(t, "beginner", written[0].Difficulty)
	assert.Equal(t, "Programming", written[0].Category)
	assert.Equal(t, "community:"+libraryID.Hex()+":cooking", written[2].Key)
	assert.Equal(t, "trending:"+trendingID.Hex()+":ai-agents", written[3].Key)
	for _, c := range written {
		assert.Equal(t, runStart, c.ReconciledAt)
	}
	repo.AssertExpectations(t)
}

func TestCourseService_ReconcileRunsHook(t *testing.T) {
	repo := &CourseRepoMock{}
	repo.On("FindCategories", mock.Anything).Return([]*models.CourseCategory{}, nil)
	repo.On("FindLibrary", mock.Anything).Return([]*models.LibraryCourse{}, nil)
	repo.On("FindTrending", mock.Anything).Return([]*models.TrendingCourse{}, nil)
	repo.On("UpsertCatalog", mock.Anything, mock.Anything).Return(nil)
	repo.On("DeleteCatalogBefore", mock.Anything, mock.Anything).Return(int64(0), nil)

	svc := NewCourseService(repo, zap.NewNop())
	calls := 0
	svc.OnReconcile(func(context.Context) error {
		calls++
		return errors.New("cache down")
	})

	_, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestCourseService_ReconcileSourceFailure(t *testing.T) {
	repo := &CourseRepoMock{}
	repo.On("FindCategories", mock.Anything).Return(nil, errors.New("boom")).Once()

	_, err := NewCourseService(repo, zap.NewNop()).Reconcile(context.Background())
	require.Error(t, err)
	repo.AssertNotCalled(t, "UpsertCatalog", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "DeleteCatalogBefore", mock.Anything, mock.Anything)
}

func TestCourseService_Update(t *testing.T) {
	now := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	sourceID := primitive.NewObjectID()
	key := "community:" + sourceID.Hex() + ":cooking"
	course := &models.CatalogCourse{Key: key, Source: models.SourceCommunity, SourceID: sourceID, Title: "Cooking", Difficulty: "beginner"}

	t.Run("same title updates in place", func(t *testing.T) {
		price := 9.5
		update := models.CourseUpdate{Price: &price}

		repo := &CourseRepoMock{}
		repo.On("FindCatalog", mock.Anything, key).Return(course, nil).Once()
		repo.On("UpdateSource", mock.Anything, course, update).Return(nil).Once()
		repo.On("UpdateCatalog", mock.Anything, key, bson.M{
			"title": "Cooking", "difficulty": "beginner", "price": 9.5, "reconciledAt": now,
		}).Return(&models.CatalogCourse{Key: key, Price: 9.5}, nil).Once()

		svc := NewCourseService(repo, zap.NewNop())
		svc.now = fixedClock(now)
		updated, err := svc.Update(context.Background(), key, update)
		require.NoError(t, err)
		assert.Equal(t, 9.5, updated.Price)
		repo.AssertExpectations(t)
	})

	t.Run("new title moves the key", func(t *testing.T) {
		title := " Baking "
		repo := &CourseRepoMock{}
		repo.On("FindCatalog", mock.Anything, key).Return(course, nil).Once()
		repo.On("InsertCatalog", mock.Anything, mock.MatchedBy(func(c *models.CatalogCourse) bool {
			return c.Key == "community:"+sourceID.Hex()+":baking" && c.Title == "Baking"
		})).Return(nil).Once()
		repo.On("UpdateSource", mock.Anything, course, mock.Anything).Return(nil).Once()
		repo.On("DeleteCatalog", mock.Anything, key).Return(nil).Once()

		svc := NewCourseService(repo, zap.NewNop())
		svc.now = fixedClock(now)
		updated, err := svc.Update(context.Background(), key, models.CourseUpdate{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Baking", updated.Title)
		repo.AssertExpectations(t)
	})

	t.Run("empty update", func(t *testing.T) {
		_, err := NewCourseService(&CourseRepoMock{}, zap.NewNop()).Update(context.Background(), key, models.CourseUpdate{})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("source failure releases the claimed key", func(t *testing.T) {
		title := "Baking"
		newKey := "community:" + sourceID.Hex() + ":baking"
		repo := &CourseRepoMock{}
		repo.On("FindCatalog", mock.Anything, key).Return(course, nil).Once()
		repo.On("InsertCatalog", mock.Anything, mock.Anything).Return(nil).Once()
		repo.On("UpdateSource", mock.Anything, course, mock.Anything).Return(repositories.ErrNotFound).Once()
		repo.On("DeleteCatalog", mock.Anything, newKey).Return(nil).Once()

		_, err := NewCourseService(repo, zap.NewNop()).Update(context.Background(), key, models.CourseUpdate{Title: &title})
		assert.ErrorIs(t, err, ErrNotFound)
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "DeleteCatalog", mock.Anything, key)
	})
}

func TestCourseService_UpdateDuplicateTitles(t *testing.T) {
	now := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	categoryID := primitive.NewObjectID()
	base := "official:" + categoryID.Hex() + ":go-basics"
	second := &models.CatalogCourse{
		Key: base + "-2", Source: models.SourceOfficial, SourceID: categoryID, SourceIndex: 1,
		Title: "Go Basics", Difficulty: "advanced",
	}

	t.Run("price change keeps the suffixed key", func(t *testing.T) {
		price := 5.0
		update := models.CourseUpdate{Price: &price}
		repo := &CourseRepoMock{}
		repo.On("FindCatalog", mock.Anything, second.Key).Return(second, nil).Once()
		repo.On("UpdateSource", mock.Anything, second, update).Return(nil).Once()
		repo.On("UpdateCatalog", mock.Anything, second.Key, bson.M{
			"title": "Go Basics", "difficulty": "advanced", "price": 5.0, "reconciledAt": now,
		}).Return(&models.CatalogCourse{Key: second.Key, Price: 5}, nil).Once()

		svc := NewCourseService(repo, zap.NewNop())
		svc.now = fixedClock(now)
		updated, err := svc.Update(context.Background(), second.Key, update)
		require.NoError(t, err)
		assert.Equal(t, second.Key, updated.Key)
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "InsertCatalog", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "DeleteCatalog", mock.Anything, mock.Anything)
	})

	t.Run("case-only rename stays in place", func(t *testing.T) {
		title := "GO basics"
		repo := &CourseRepoMock{}
		repo.On("FindCatalog", mock.Anything, second.Key).Return(second, nil).Once()
		repo.On("UpdateSource", mock.Anything, second, mock.Anything).Return(nil).Once()
		repo.On("UpdateCatalog", mock.Anything, second.Key, mock.Anything).Return(second, nil).Once()

		_, err := NewCourseService(repo, zap.NewNop()).Update(context.Background(), second.Key, models.CourseUpdate{Title: &title})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("rename onto a taken key conflicts", func(t *testing.T) {
		title := "Go Basics 2"
		third := &models.CatalogCourse{
			Key: "official:" + categoryID.Hex() + ":rust", Source: models.SourceOfficial, SourceID: categoryID, SourceIndex: 2,
			Title: "Rust",
		}
		repo := &CourseRepoMock{}
		repo.On("FindCatalog", mock.Anything, third.Key).Return(third, nil).Once()
		repo.On("InsertCatalog", mock.Anything, mock.MatchedBy(func(c *models.CatalogCourse) bool {
			return c.Key == base+"-2"
		})).Return(repositories.ErrDuplicate).Once()

		_, err := NewCourseService(repo, zap.NewNop()).Update(context.Background(), third.Key, models.CourseUpdate{Title: &title})
		assert.ErrorIs(t, err, ErrConflict)
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "UpdateSource", mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "DeleteCatalog", mock.Anything, mock.Anything)
	})
}

func TestCourseService_DeleteToleratesMissingSource(t *testing.T) {
	course := &models.CatalogCourse{Key: "trending:x:y", Source: models.SourceTrending}
	repo := &CourseRepoMock{}
	repo.On("FindCatalog", mock.Anything, course.Key).Return(course, nil).Once()
	repo.On("DeleteSource", mock.Anything, course).Return(repositories.ErrNotFound).Once()
	repo.On("DeleteCatalog", mock.Anything, course.Key).Return(nil).Once()

	require.NoError(t, NewCourseService(repo, zap.NewNop()).Delete(context.Background(), course.Key))
	repo.AssertExpectations(t)
}

func TestCourseService_RunReconcilerStopsOnCancel(t *testing.T) {
	repo := &CourseRepoMock{}
	repo.On("FindCategories", mock.Anything).Return(nil, nil)
	repo.On("FindLibrary", mock.Anything).Return(nil, nil)
	repo.On("FindTrending", mock.Anything).Return(nil, nil)
	repo.On("UpsertCatalog", mock.Anything, mock.Anything).Return(nil)
	reconciled := make(chan struct{}, 1)
	repo.On("DeleteCatalogBefore", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		select {
		case reconciled <- struct{}{}:
		default:
		}
	}).Return(int64(0), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewCourseService(repo, zap.NewNop()).RunReconciler(ctx, time.Hour)
		close(done)
	}()

	select {
	case <-reconciled:
	case <-time.After(time.Second):
		t.Fatal("reconciler did not run at start")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reconciler did not stop")
	}
}
