package handlers

import (
	"context"
	"net/http"

	"github.com/actinova/admin-backend/internal/models"
	"github.com/gin-gonic/gin"
)

// PlanService manages subscription plans
type PlanService interface {
	List(ctx context.Context) ([]*models.Plan, error)
	Get(ctx context.Context, id string) (*models.Plan, error)
	Create(ctx context.Context, input models.PlanInput) (*models.Plan, error)
	Update(ctx context.Context, id string, input models.PlanInput) (*models.Plan, error)
	Delete(ctx context.Context, id string) error
}

// PlanHandler handles subscription plan HTTP requests
type PlanHandler struct {
	planService PlanService
}

// NewPlanHandler creates a new PlanHandler
func NewPlanHandler(planService PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// GetPlans handles GET /plans
func (h *PlanHandler) GetPlans(c *gin.Context) {
	plans, err := h.planService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// GetPlan handles GET /plans/:id
func (h *PlanHandler) GetPlan(c *gin.Context) {
	plan, err := h.planService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// CreatePlan handles POST /plans
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var input models.PlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	plan, err := h.planService.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// UpdatePlan handles PUT /plans/:id
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	var input models.PlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	plan, err := h.planService.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// DeletePlan handles DELETE /plans/:id
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	if err := h.planService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Plan deleted successfully"})
}
