package services

import (
	"context"
	"fmt"
	"time"

	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/repositories"
	"github.com/actinova/admin-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"
)

const (
	dashboardRecent  = 5
	visitorTrendDays = 7
)

// DashboardService builds the landing page summary
type DashboardService struct {
	analyticsRepo repositories.AnalyticsRepository
	userRepo      repositories.UserRepository
	contactRepo   repositories.ContactRepository
	adminRepo     repositories.AdminRepository
	visitorRepo   repositories.VisitorRepository
	now           func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	analyticsRepo repositories.AnalyticsRepository,
	userRepo repositories.UserRepository,
	contactRepo repositories.ContactRepository,
	adminRepo repositories.AdminRepository,
	visitorRepo repositories.VisitorRepository,
) *DashboardService {
	return &DashboardService{
		analyticsRepo: analyticsRepo,
		userRepo:      userRepo,
		contactRepo:   contactRepo,
		adminRepo:     adminRepo,
		visitorRepo:   visitorRepo,
		now:           time.Now,
	}
}

// Report returns the dashboard summary
func (s *DashboardService) Report(ctx context.Context) (*models.DashboardReport, error) {
	today := utils.StartOfDay(s.now())
	trendStart := today.AddDate(0, 0, -(visitorTrendDays - 1))

	var (
		overview       models.DashboardOverview
		courses        models.CourseCounts
		contactBuckets []models.LabelCount
		pending        []*models.Admin
		visitors       []*models.VisitorCounter
		recentUsers    []*models.User
		recentContacts []*models.Contact
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		overview.TotalUsers, err = s.analyticsRepo.CountUsers(gctx, bson.M{})
		return err
	})
	g.Go(func() (err error) {
		overview.ActiveUsers, err = s.analyticsRepo.CountUsers(gctx, bson.M{"status": models.UserStatusActive})
		return err
	})
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
		contactBuckets, err = s.analyticsRepo.ContactsByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		pending, err = s.adminRepo.FindPending(gctx)
		return err
	})
	g.Go(func() (err error) {
		visitors, err = s.visitorRepo.FindRange(gctx, trendStart, today)
		return err
	})
	g.Go(func() (err error) {
		recentUsers, err = s.userRepo.FindRecent(gctx, dashboardRecent)
		return err
	})
	g.Go(func() (err error) {
		recentContacts, err = s.contactRepo.FindRecent(gctx, dashboardRecent)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build dashboard: %w", err)
	}

	overview.TotalCourses = courses.Total()
	overview.PendingAdmins = int64(len(pending))
	overview.ContactsByStatus = map[string]int64{
		models.ContactStatusNew:        0,
		models.ContactStatusInProgress: 0,
		models.ContactStatusResolved:   0,
	}
	for _, b := range contactBuckets {
		if b.Label == "" {
			b.Label = models.ContactStatusNew
		}
		overview.ContactsByStatus[b.Label] += b.Count
	}

	points := make([]models.DateCount, 0, len(visitors))
	for _, v := range visitors {
		points = append(points, models.DateCount{Date: v.ID, Count: v.Count})
	}
	trend := FillDays(points, trendStart, visitorTrendDays)
	for _, p := range trend {
		overview.VisitorsWeek += p.Count
	}
	overview.VisitorsToday = trend[len(trend)-1].Count

	return &models.DashboardReport{
		Overview:       overview,
		RecentUsers:    nonNil(recentUsers),
		RecentContacts: nonNil(recentContacts),
		VisitorTrend:   trend,
	}, nil
}
