package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/repositories"
	"github.com/actinova/admin-backend/internal/utils"
	"golang.org/x/sync/errgroup"
)

// Billing report window bounds in months
const (
	DefaultBillingMonths = 12
	MaxBillingMonths     = 36
)

// BillingService reports on revenue recorded in users' billing history
type BillingService struct {
	billingRepo repositories.BillingRepository
	planRepo    repositories.PlanRepository
	now         func() time.Time
}

// NewBillingService creates a new BillingService
func NewBillingService(billingRepo repositories.BillingRepository, planRepo repositories.PlanRepository) *BillingService {
	return &BillingService{billingRepo: billingRepo, planRepo: planRepo, now: time.Now}
}

// Report returns the billing report over the last months calendar months,
// the current one included
func (s *BillingService) Report(ctx context.Context, months int) (*models.BillingReport, error) {
	if months < 1 || months > MaxBillingMonths {
		return nil, validation(fmt.Sprintf("months must be between 1 and %d", MaxBillingMonths))
	}
	now := s.now().UTC()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	var (
		total       float64
		byMonth     []models.MonthRevenue
		byPlan      []models.PlanRevenue
		statuses    []models.LabelCount
		subscribers []models.LabelCount
		plans       []*models.Plan
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		total, err = s.billingRepo.TotalRevenue(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		byMonth, err = s.billingRepo.RevenueByMonth(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		byPlan, err = s.billingRepo.RevenueByPlan(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		statuses, err = s.billingRepo.TransactionStatus(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		subscribers, err = s.billingRepo.ActiveSubscribersByPlan(gctx)
		return err
	})
	g.Go(func() (err error) {
		plans, err = s.planRepo.FindAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build billing report: %w", err)
	}

	overview := models.BillingOverview{TotalRevenue: total}
	for _, st := range statuses {
		overview.TotalTransactions += st.Count
		switch st.Label {
		case models.PaymentSuccess:
			overview.SuccessfulTransactions += st.Count
		case models.PaymentFailed:
			overview.FailedTransactions += st.Count
		}
	}

	subscribersByPlan := make(map[string]int64, len(subscribers))
	for _, b := range subscribers {
		key := strings.ToLower(strings.TrimSpace(b.Label))
		subscribersByPlan[key] += b.Count
		if key != "" && key != models.PlanFree {
			overview.ActiveSubscriptions += b.Count
		}
	}

	planRows := make([]models.PlanSubscribers, 0, len(plans))
	for _, plan := range plans {
		count := subscribersByPlan[strings.ToLower(plan.PlanID)]
		if count == 0 {
			count = subscribersByPlan[strings.ToLower(plan.Name)]
		}
		planRows = append(planRows, models.PlanSubscribers{
			PlanID:      plan.PlanID,
			Name:        plan.Name,
			Price:       plan.Price,
			Subscribers: count,
		})
		if plan.Status == "" || plan.Status == "active" {
			overview.MRR += plan.MonthlyPrice() * float64(count)
		}
	}
	overview.MRR = utils.Round2(overview.MRR)

	return &models.BillingReport{
		Months:   months,
		Overview: overview,
		Charts: models.BillingCharts{
			RevenueByMonth: FillMonths(byMonth, since, months),
		},
		Distributions: models.BillingDistributions{
			RevenueByPlan:     nonNil(byPlan),
			TransactionStatus: nonNil(statuses),
		},
		Plans: planRows,
	}, nil
}

// Transactions returns one page of billing entries
func (s *BillingService) Transactions(ctx context.Context, filter models.TransactionFilter, page models.PageRequest) (models.ListResult[*models.Transaction], error) {
	page = page.Normalize()
	items, total, err := s.billingRepo.ListTransactions(ctx, filter, page)
	if err != nil {
		return models.ListResult[*models.Transaction]{}, repoErr("list transactions", err)
	}
	return models.NewListResult(items, page, total), nil
}

// FillMonths returns one entry per calendar month starting at start,
// using zero revenue for months missing from points
func FillMonths(points []models.MonthRevenue, start time.Time, months int) []models.MonthRevenue {
	byMonth := make(map[string]models.MonthRevenue, len(points))
	for _, p := range points {
		byMonth[p.Month] = p
	}
	filled := make([]models.MonthRevenue, 0, months)
	for i := 0; i < months; i++ {
		month := start.AddDate(0, i, 0).Format("2006-01")
		p, ok := byMonth[month]
		if !ok {
			p = models.MonthRevenue{Month: month}
		}
		filled = append(filled, p)
	}
	return filled
}
