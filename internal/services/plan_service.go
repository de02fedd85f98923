package services

import (
	"context"
	"strings"
	"time"

	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
)

const defaultCurrency = "USD"

// PlanService manages subscription plans
type PlanService struct {
	planRepo repositories.PlanRepository
}

// NewPlanService creates a new PlanService
func NewPlanService(planRepo repositories.PlanRepository) *PlanService {
	return &PlanService{planRepo: planRepo}
}

// List returns every plan
func (s *PlanService) List(ctx context.Context) ([]*models.Plan, error) {
	plans, err := s.planRepo.FindAll(ctx)
	if err != nil {
		return nil, repoErr("list plans", err)
	}
	return plans, nil
}

// Get returns one plan
func (s *PlanService) Get(ctx context.Context, id string) (*models.Plan, error) {
	planID, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, repoErr("find plan", err)
	}
	return plan, nil
}

// Create inserts a plan with server defaults
func (s *PlanService) Create(ctx context.Context, input models.PlanInput) (*models.Plan, error) {
	now := time.Now()
	plan := &models.Plan{
		PlanID:        strings.TrimSpace(input.PlanID),
		Name:          strings.TrimSpace(input.Name),
		Price:         input.Price,
		Currency:      strings.ToUpper(strings.TrimSpace(input.Currency)),
		BillingPeriod: input.BillingPeriod,
		Features:      input.Features,
		Status:        input.Status,
		Featured:      input.Featured,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if plan.Currency == "" {
		plan.Currency = defaultCurrency
	}
	if plan.Status == "" {
		plan.Status = "active"
	}
	if plan.Features == nil {
		plan.Features = []string{}
	}

	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, repoErr("create plan", err)
	}
	return plan, nil
}

// Update replaces the editable fields of a plan
func (s *PlanService) Update(ctx context.Context, id string, input models.PlanInput) (*models.Plan, error) {
	planID, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	set := bson.M{
		"planId":        strings.TrimSpace(input.PlanID),
		"name":          strings.TrimSpace(input.Name),
		"price":         input.Price,
		"billingPeriod": input.BillingPeriod,
		"featured":      input.Featured,
	}
	if input.Currency != "" {
		set["currency"] = strings.ToUpper(strings.TrimSpace(input.Currency))
	}
	if input.Features != nil {
		set["features"] = input.Features
	}
	if input.Status != "" {
		set["status"] = input.Status
	}

	plan, err := s.planRepo.Update(ctx, planID, set)
	if err != nil {
		return nil, repoErr("update plan", err)
	}
	return plan, nil
}

// Delete removes a plan
func (s *PlanService) Delete(ctx context.Context, id string) error {
	planID, err := ParseID(id)
	if err != nil {
		return err
	}
	if err := s.planRepo.Delete(ctx, planID); err != nil {
		return repoErr("delete plan", err)
	}
	return nil
}
