package handlers

import (
	"context"
	"net/http"

	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// AnalyticsService builds the platform analytics report
type AnalyticsService interface {
	Report(ctx context.Context, days int) (*models.AnalyticsReport, error)
}

// DashboardService builds the dashboard summary
type DashboardService interface {
	Report(ctx context.Context) (*models.DashboardReport, error)
}

// BillingService reports on revenue
type BillingService interface {
	Report(ctx context.Context, months int) (*models.BillingReport, error)
	Transactions(ctx context.Context, filter models.TransactionFilter, page models.PageRequest) (models.ListResult[*models.Transaction], error)
}

// ReportHandler handles the read-only aggregation routes
type ReportHandler struct {
	analyticsService AnalyticsService
	dashboardService DashboardService
	billingService   BillingService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(analytics AnalyticsService, dashboard DashboardService, billing BillingService) *ReportHandler {
	return &ReportHandler{analyticsService: analytics, dashboardService: dashboard, billingService: billing}
}

// GetAnalytics handles GET /analytics
func (h *ReportHandler) GetAnalytics(c *gin.Context) {
	days, err := intQuery(c, "days", services.DefaultAnalyticsDays)
	if err != nil {
		respondError(c, err)
		return
	}
	report, err := h.analyticsService.Report(c.Request.Context(), days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetDashboard handles GET /dashboard/analytics
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	report, err := h.dashboardService.Report(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetBillingReport handles GET /billing/reports
func (h *ReportHandler) GetBillingReport(c *gin.Context) {
	months, err := intQuery(c, "months", services.DefaultBillingMonths)
	if err != nil {
		respondError(c, err)
		return
	}
	report, err := h.billingService.Report(c.Request.Context(), months)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetTransactions handles GET /billing/transactions
func (h *ReportHandler) GetTransactions(c *gin.Context) {
	filter := models.TransactionFilter{Status: c.Query("status"), Plan: c.Query("plan")}
	result, err := h.billingService.Transactions(c.Request.Context(), filter, pageRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
