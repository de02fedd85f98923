package handlers

import (
	"context"
	"net/http"

	"github.com/actinova/admin-backend/internal/middleware"
	"github.com/actinova/admin-backend/internal/models"
	"github.com/gin-gonic/gin"
)

// AdminService manages back-office accounts
type AdminService interface {
	List(ctx context.Context) ([]*models.Admin, error)
	Approve(ctx context.Context, session models.AdminSession, id string) (*models.Admin, error)
	Delete(ctx context.Context, session models.AdminSession, id string) error
}

// AdminHandler handles admin account HTTP requests
type AdminHandler struct {
	adminService AdminService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// GetAdmins handles GET /admins
func (h *AdminHandler) GetAdmins(c *gin.Context) {
	admins, err := h.adminService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admins": admins})
}

// ApproveAdmin handles PATCH /admins/:id/approve
func (h *AdminHandler) ApproveAdmin(c *gin.Context) {
	session, _ := middleware.SessionFromContext(c.Request.Context())
	admin, err := h.adminService.Approve(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Admin approved successfully", "admin": admin})
}

// DeleteAdmin handles DELETE /admins/:id
func (h *AdminHandler) DeleteAdmin(c *gin.Context) {
	session, _ := middleware.SessionFromContext(c.Request.Context())
	if err := h.adminService.Delete(c.Request.Context(), session, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Admin deleted successfully"})
}
