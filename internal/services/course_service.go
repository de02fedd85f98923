package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/actinova/admin-backend/internal/metrics"
	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/repositories"
	"github.com/actinova/admin-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CourseService serves the course catalog and keeps it in step with the
// three course sources
type CourseService struct {
	courseRepo repositories.CourseRepository
	logger     *zap.Logger
	now        func() time.Time

	reconcileMu    sync.Mutex
	afterReconcile func(ctx context.Context) error
}

// NewCourseService creates a new CourseService
func NewCourseService(courseRepo repositories.CourseRepository, logger *zap.Logger) *CourseService {
	return &CourseService{courseRepo: courseRepo, logger: logger, now: time.Now}
}

// OnReconcile registers fn to run after every successful reconciliation.
// A failing fn is logged and does not fail the run.
func (s *CourseService) OnReconcile(fn func(ctx context.Context) error) {
	s.reconcileMu.Lock()
	defer s.reconcileMu.Unlock()
	s.afterReconcile = fn
}

// CatalogKey builds the stable catalog key of a course
func CatalogKey(source string, parentID primitive.ObjectID, title string) string {
	return source + ":" + parentID.Hex() + ":" + utils.Slugify(title)
}

// List returns one page of the catalog
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter, page models.PageRequest) (models.ListResult[*models.CatalogCourse], error) {
	page = page.Normalize()
	courses, total, err := s.courseRepo.ListCatalog(ctx, filter, page)
	if err != nil {
		return models.ListResult[*models.CatalogCourse]{}, repoErr("list courses", err)
	}
	return models.NewListResult(courses, page, total), nil
}

// Get returns one catalog entry
func (s *CourseService) Get(ctx context.Context, key string) (*models.CatalogCourse, error) {
	course, err := s.courseRepo.FindCatalog(ctx, key)
	if err != nil {
		return nil, repoErr("find course", err)
	}
	return course, nil
}

// Update edits the course in its source document and in the catalog. The
// key only moves when the title's slug changes, and never onto a key that is
// already taken.
func (s *CourseService) Update(ctx context.Context, key string, update models.CourseUpdate) (*models.CatalogCourse, error) {
	if update.IsEmpty() {
		return nil, validation("no updates given")
	}
	if update.Title != nil {
		trimmed := strings.TrimSpace(*update.Title)
		if trimmed == "" {
			return nil, validation("title must not be empty")
		}
		update.Title = &trimmed
	}

	course, err := s.courseRepo.FindCatalog(ctx, key)
	if err != nil {
		return nil, repoErr("find course", err)
	}

	updated := *course
	if update.Title != nil {
		updated.Title = *update.Title
	}
	if update.Difficulty != nil {
		updated.Difficulty = *update.Difficulty
	}
	if update.Price != nil {
		updated.Price = *update.Price
	}
	updated.ReconciledAt = s.now().UTC()

	if utils.Slugify(updated.Title) == utils.Slugify(course.Title) {
		if err := s.courseRepo.UpdateSource(ctx, course, update); err != nil {
			return nil, repoErr("update course source", err)
		}
		set := bson.M{
			"title":        updated.Title,
			"difficulty":   updated.Difficulty,
			"price":        updated.Price,
			"reconciledAt": updated.ReconciledAt,
		}
		result, err := s.courseRepo.UpdateCatalog(ctx, key, set)
		if err != nil {
			return nil, repoErr("update course", err)
		}
		return result, nil
	}

	// Claim the new key first so a clash leaves the source untouched.
	updated.Key = CatalogKey(course.Source, course.SourceID, updated.Title)
	if err := s.courseRepo.InsertCatalog(ctx, &updated); err != nil {
		return nil, repoErr("re-key course", err)
	}
	if err := s.courseRepo.UpdateSource(ctx, course, update); err != nil {
		if rollbackErr := s.courseRepo.DeleteCatalog(ctx, updated.Key); rollbackErr != nil {
			s.logger.Warn("Failed to release catalog key", zap.String("key", updated.Key), zap.Error(rollbackErr))
		}
		return nil, repoErr("update course source", err)
	}
	if err := s.courseRepo.DeleteCatalog(ctx, key); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, repoErr("re-key course", err)
	}
	return &updated, nil
}

// Delete removes the course from its source and from the catalog
func (s *CourseService) Delete(ctx context.Context, key string) error {
	course, err := s.courseRepo.FindCatalog(ctx, key)
	if err != nil {
		return repoErr("find course", err)
	}
	if err := s.courseRepo.DeleteSource(ctx, course); err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return repoErr("delete course source", err)
		}
		s.logger.Warn("Course already gone from its source", zap.String("key", key))
	}
	if err := s.courseRepo.DeleteCatalog(ctx, key); err != nil {
		return repoErr("delete course", err)
	}
	return nil
}

// Reconcile rebuilds the catalog from the three sources. Entries that were
// not produced by this run are removed.
func (s *CourseService) Reconcile(ctx context.Context) (*models.ReconcileResult, error) {
	s.reconcileMu.Lock()
	defer s.reconcileMu.Unlock()

	// Mongo stores milliseconds; truncating keeps fresh entries out of the stale sweep.
	runStart := s.now().UTC().Truncate(time.Millisecond)
	result := &models.ReconcileResult{RanAt: runStart}

	categories, err := s.courseRepo.FindCategories(ctx)
	if err != nil {
		return nil, s.reconcileFailed("read official courses", err)
	}
	library, err := s.courseRepo.FindLibrary(ctx)
	if err != nil {
		return nil, s.reconcileFailed("read community courses", err)
	}
	trending, err := s.courseRepo.FindTrending(ctx)
	if err != nil {
		return nil, s.reconcileFailed("read trending courses", err)
	}

	entries := newCatalogBuilder(runStart)
	for _, category := range categories {
		for i, c := range category.Courses {
			entries.add(&models.CatalogCourse{
				Source: models.SourceOfficial, SourceID: category.ID, SourceIndex: i, Category: category.Name,
				Title: c.Title, Difficulty: c.Difficulty, ModuleCount: len(c.Modules),
				Creator: c.Creator, Price: c.Price, Rating: c.Rating,
			})
			result.Official++
		}
	}
	for _, c := range library {
		entries.add(&models.CatalogCourse{
			Source: models.SourceCommunity, SourceID: c.ID, Category: c.Category,
			Title: c.Title, Difficulty: c.Difficulty, ModuleCount: len(c.Modules),
			Creator: c.Creator, Price: c.Price, Rating: c.Rating,
		})
		result.Community++
	}
	for _, c := range trending {
		entries.add(&models.CatalogCourse{
			Source: models.SourceTrending, SourceID: c.ID,
			Title: c.Topic, Difficulty: c.Difficulty, ModuleCount: len(c.Modules),
			Creator: c.Creator, Price: c.Price, Rating: c.Rating,
		})
		result.Trending++
	}

	if err := s.courseRepo.UpsertCatalog(ctx, entries.courses); err != nil {
		return nil, s.reconcileFailed("write catalog", err)
	}
	removed, err := s.courseRepo.DeleteCatalogBefore(ctx, runStart)
	if err != nil {
		return nil, s.reconcileFailed("remove stale catalog entries", err)
	}
	result.Removed = removed

	metrics.CatalogReconciliations.WithLabelValues("success").Inc()
	s.logger.Info("Course catalog reconciled",
		zap.Int("official", result.Official),
		zap.Int("community", result.Community),
		zap.Int("trending", result.Trending),
		zap.Int64("removed", result.Removed),
	)
	if s.afterReconcile != nil {
		if err := s.afterReconcile(ctx); err != nil {
			s.logger.Warn("Post-reconcile hook failed", zap.Error(err))
		}
	}
	return result, nil
}

func (s *CourseService) reconcileFailed(op string, err error) error {
	metrics.CatalogReconciliations.WithLabelValues("failure").Inc()
	return fmt.Errorf("reconcile catalog: %s: %w", op, err)
}

// RunReconciler reconciles every interval until ctx is cancelled.
// A zero interval disables the loop.
func (s *CourseService) RunReconciler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		s.logger.Info("Catalog reconciler disabled")
		return
	}

	reconcile := func() {
		if _, err := s.Reconcile(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error("Catalog reconciliation failed", zap.Error(err))
		}
	}
	reconcile()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Catalog reconciler stopped")
			return
		case <-ticker.C:
			reconcile()
		}
	}
}

// catalogBuilder collects catalog entries and disambiguates keys that
// collide within one parent, such as two courses with the same title
type catalogBuilder struct {
	at      time.Time
	seen    map[string]int
	courses []*models.CatalogCourse
}

func newCatalogBuilder(at time.Time) *catalogBuilder {
	return &catalogBuilder{at: at, seen: make(map[string]int)}
}

func (b *catalogBuilder) add(course *models.CatalogCourse) {
	key := CatalogKey(course.Source, course.SourceID, course.Title)
	b.seen[key]++
	if n := b.seen[key]; n > 1 {
		key = fmt.Sprintf("%s-%d", key, n)
	}
	course.Key = key
	course.Difficulty = strings.ToLower(strings.TrimSpace(course.Difficulty))
	course.ReconciledAt = b.at
	b.courses = append(b.courses, course)
}
