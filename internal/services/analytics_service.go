package services

import (
	"context"
	"fmt"
	"time"

	"github.com/actinova/admin-backend/internal/cache"
	"github.com/actinova/admin-backend/internal/metrics"
	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/repositories"
	"github.com/actinova/admin-backend/internal/utils"
	mongodb "github.com/actinova/admin-backend/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Analytics window bounds in days
const (
	DefaultAnalyticsDays = 30
	MaxAnalyticsDays     = 365
)

// AnalyticsService builds the platform analytics report
type AnalyticsService struct {
	analyticsRepo repositories.AnalyticsRepository
	billingRepo   repositories.BillingRepository
	cache         cache.Cache
	cacheTTL      time.Duration
	logger        *zap.Logger
	now           func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService. A zero cacheTTL
// disables caching.
func NewAnalyticsService(
	analyticsRepo repositories.AnalyticsRepository,
	billingRepo repositories.BillingRepository,
	c cache.Cache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		analyticsRepo: analyticsRepo,
		billingRepo:   billingRepo,
		cache:         c,
		cacheTTL:      cacheTTL,
		logger:        logger,
		now:           time.Now,
	}
}

func analyticsCacheKey(days int) string {
	return fmt.Sprintf("analytics:report:%d", days)
}

// Invalidate drops every cached report so the next request recomputes it
func (s *AnalyticsService) Invalidate(ctx context.Context) error {
	if s.cacheTTL <= 0 {
		return nil
	}
	keys := make([]string, 0, MaxAnalyticsDays)
	for days := 1; days <= MaxAnalyticsDays; days++ {
		keys = append(keys, analyticsCacheKey(days))
	}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		return fmt.Errorf("invalidate analytics cache: %w", err)
	}
	return nil
}

// Report returns the analytics report over the last days days. Every
// sub-query must succeed; there are no partial reports.
func (s *AnalyticsService) Report(ctx context.Context, days int) (*models.AnalyticsReport, error) {
	if days < 1 || days > MaxAnalyticsDays {
		return nil, validation(fmt.Sprintf("days must be between 1 and %d", MaxAnalyticsDays))
	}

	key := analyticsCacheKey(days)
	if s.cacheTTL > 0 {
		var cached models.AnalyticsReport
		found, err := s.cache.Get(ctx, key, &cached)
		switch {
		case err != nil:
			metrics.AnalyticsCache.WithLabelValues("error").Inc()
			s.logger.Warn("Analytics cache read failed", zap.Error(err))
		case found:
			metrics.AnalyticsCache.WithLabelValues("hit").Inc()
			return &cached, nil
		default:
			metrics.AnalyticsCache.WithLabelValues("miss").Inc()
		}
	}

	report, err := s.build(ctx, days)
	if err != nil {
		return nil, err
	}

	if s.cacheTTL > 0 {
		if err := s.cache.Set(ctx, key, report, s.cacheTTL); err != nil {
			s.logger.Warn("Analytics cache write failed", zap.Error(err))
		}
	}
	return report, nil
}

func (s *AnalyticsService) build(ctx context.Context, days int) (*models.AnalyticsReport, error) {
	now := s.now().UTC()
	window := time.Duration(days) * 24 * time.Hour
	windowStart := now.Add(-window)
	previousStart := now.Add(-2 * window)
	chartStart := utils.StartOfDay(now).AddDate(0, 0, -(days - 1))

	var (
		overview      models.AnalyticsOverview
		courses       models.CourseCounts
		previousNew   int64
		activeSubs    int64
		growth        []models.DateCount
		interactions  []models.LabelCount
		subscriptions []models.LabelCount
		difficulty    []models.LabelCount
	)

	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int64, filter bson.M) {
		g.Go(func() (err error) {
			*dst, err = s.analyticsRepo.CountUsers(gctx, filter)
			return err
		})
	}
	countCollection := func(dst *int64, collection string) {
		g.Go(func() (err error) {
			*dst, err = s.analyticsRepo.CountCollection(gctx, collection, bson.M{})
			return err
		})
	}

	count(&overview.TotalUsers, bson.M{})
	count(&overview.NewUsers, bson.M{"createdAt": bson.M{"$gte": windowStart}})
	count(&previousNew, bson.M{"createdAt": bson.M{"$gte": previousStart, "$lt": windowStart}})
	count(&overview.ActiveUsers, bson.M{"lastActive": bson.M{"$gte": windowStart}})
	count(&overview.DAU, bson.M{"lastActive": bson.M{"$gte": now.Add(-24 * time.Hour)}})
	count(&overview.MAU, bson.M{"lastActive": bson.M{"$gte": now.AddDate(0, 0, -30)}})

	countCollection(&overview.TotalBlogs, mongodb.PostsCollection)
	countCollection(&overview.TotalFlashcardSets, mongodb.CardSetsCollection)
	countCollection(&overview.TotalTests, mongodb.TestsCollection)
	countCollection(&overview.TotalChats, mongodb.ChatsCollection)
	countCollection(&overview.TotalContacts, mongodb.ContactsCollection)

	g.Go(func() (err error) {
		courses.Official, err = s.analyticsRepo.CountOfficialCourses(gctx)
		return err
	})
	g.Go(func() (err error) {
		courses.Library, err = s.analyticsRepo.CountLibraryCourses(gctx)
		return err
	})
	g.Go(func() (err error) {
		courses.Trending, err = s.analyticsRepo.CountTrendingCourses(gctx)
		return err
	})
	g.Go(func() (err error) {
		overview.TotalRevenue, err = s.billingRepo.TotalRevenue(gctx, time.Time{})
		return err
	})
	g.Go(func() (err error) {
		growth, err = s.analyticsRepo.UserGrowth(gctx, chartStart)
		return err
	})
	g.Go(func() (err error) {
		interactions, err = s.analyticsRepo.InteractionsByType(gctx, windowStart)
		return err
	})
	g.Go(func() (err error) {
		subscriptions, err = s.analyticsRepo.SubscriptionDistribution(gctx)
		return err
	})
	g.Go(func() (err error) {
		activeSubs, err = s.analyticsRepo.CountActiveSubscriptions(gctx)
		return err
	})
	g.Go(func() (err error) {
		difficulty, err = s.analyticsRepo.CourseDifficulty(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build analytics report: %w", err)
	}

	overview.OfficialCourses = courses.Official
	overview.LibraryCourses = courses.Library
	overview.TrendingCourses = courses.Trending
	overview.TotalCourses = courses.Total()

	if len(subscriptions) == 0 {
		subscriptions = SubscriptionFallback(overview.TotalUsers, activeSubs)
	}

	return &models.AnalyticsReport{
		Days:        days,
		GeneratedAt: now,
		Overview:    overview,
		Charts: models.AnalyticsCharts{
			UserGrowth: FillDays(growth, chartStart, days),
			CourseSources: []models.LabelCount{
				{Label: models.SourceOfficial, Count: courses.Official},
				{Label: models.SourceCommunity, Count: courses.Library},
				{Label: models.SourceTrending, Count: courses.Trending},
			},
			InteractionsByType: nonNil(interactions),
		},
		Trends: models.AnalyticsTrends{
			UserGrowthRate: GrowthRate(overview.NewUsers, previousNew),
			EngagementRate: Percentage(overview.ActiveUsers, overview.TotalUsers),
		},
		Distributions: models.AnalyticsDistributions{
			Subscriptions:    subscriptions,
			CourseDifficulty: nonNil(difficulty),
		},
	}, nil
}

// SubscriptionFallback splits users into free and premium from the total
// and active subscription counts
func SubscriptionFallback(totalUsers, activeSubscriptions int64) []models.LabelCount {
	free := totalUsers - activeSubscriptions
	if free < 0 {
		free = 0
	}
	return []models.LabelCount{
		{Label: models.PlanFree, Count: free},
		{Label: models.PlanPremium, Count: activeSubscriptions},
	}
}

// FillDays returns one point per day starting at start, using zero for
// days missing from points
func FillDays(points []models.DateCount, start time.Time, days int) []models.DateCount {
	byDate := make(map[string]int64, len(points))
	for _, p := range points {
		byDate[p.Date] = p.Count
	}
	filled := make([]models.DateCount, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format(models.DayLayout)
		filled = append(filled, models.DateCount{Date: date, Count: byDate[date]})
	}
	return filled
}

// GrowthRate is the percentage change from previous to current, or 0
// without a previous value
func GrowthRate(current, previous int64) float64 {
	if previous == 0 {
		return 0
	}
	return utils.Round2(float64(current-previous) / float64(previous) * 100)
}

// Percentage is part of whole in percent, or 0 for an empty whole
func Percentage(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return utils.Round2(float64(part) / float64(whole) * 100)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
