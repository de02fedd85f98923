package services

import (
	"context"
	"testing"
	"time"

	"github.com/actinova/admin-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBillingService_Report(t *testing.T) {
	now := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	since := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	billing := &BillingRepoMock{}
	billing.On("TotalRevenue", mock.Anything, since).Return(120.0, nil).Once()
	billing.On("RevenueByMonth", mock.Anything, since).Return([]models.MonthRevenue{{Month: "2026-05", Revenue: 120, Count: 4}}, nil).Once()
	billing.On("RevenueByPlan", mock.Anything, since).Return([]models.PlanRevenue{{Plan: "premium", Revenue: 120, Count: 4}}, nil).Once()
	billing.On("TransactionStatus", mock.Anything, since).Return([]models.LabelCount{
		{Label: models.PaymentSuccess, Count: 4},
		{Label: models.PaymentFailed, Count: 1},
		{Label: models.PaymentPending, Count: 2},
	}, nil).Once()
	billing.On("ActiveSubscribersByPlan", mock.Anything).Return([]models.LabelCount{
		{Label: "premium", Count: 3},
		{Label: "Pro Yearly", Count: 2},
		{Label: "free", Count: 50},
	}, nil).Once()

	plans := &PlanRepoMock{}
	plans.On("FindAll", mock.Anything).Return([]*models.Plan{
		{PlanID: "premium", Name: "Premium", Price: 10, BillingPeriod: models.BillingMonthly, Status: "active"},
		{PlanID: "pro-yearly", Name: "Pro Yearly", Price: 120, BillingPeriod: models.BillingYearly, Status: "active"},
		{PlanID: "legacy", Name: "Legacy", Price: 99, BillingPeriod: models.BillingMonthly, Status: "inactive"},
	}, nil).Once()

	svc := NewBillingService(billing, plans)
	svc.now = fixedClock(now)

	report, err := svc.Report(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, models.BillingOverview{
		TotalRevenue:           120,
		MRR:                    50,
		TotalTransactions:      7,
		SuccessfulTransactions: 4,
		FailedTransactions:     1,
		ActiveSubscriptions:    5,
	}, report.Overview)
	assert.Equal(t, []models.MonthRevenue{
		{Month: "2026-04"},
		{Month: "2026-05", Revenue: 120, Count: 4},
		{Month: "2026-06"},
	}, report.Charts.RevenueByMonth)
	require.Len(t, report.Plans, 3)
	assert.Equal(t, int64(3), report.Plans[0].Subscribers)
	assert.Equal(t, int64(2), report.Plans[1].Subscribers)
	assert.Zero(t, report.Plans[2].Subscribers)
}

func TestBillingService_ReportMonthsBounds(t *testing.T) {
	svc := NewBillingService(&BillingRepoMock{}, &PlanRepoMock{})
	for _, months := range []int{0, MaxBillingMonths + 1} {
		_, err := svc.Report(context.Background(), months)
		assert.ErrorIs(t, err, ErrValidation)
	}
}

func TestBillingService_Transactions(t *testing.T) {
	billing := &BillingRepoMock{}
	filter := models.TransactionFilter{Status: models.PaymentFailed}
	billing.On("ListTransactions", mock.Anything, filter, models.PageRequest{Page: 1, Limit: 10}).Return(nil, int64(0), nil).Once()

	result, err := NewBillingService(billing, &PlanRepoMock{}).Transactions(context.Background(), filter, models.PageRequest{})
	require.NoError(t, err)
	assert.NotNil(t, result.Items)
	assert.Zero(t, result.Pagination.Total)
}
