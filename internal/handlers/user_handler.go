package handlers

import (
	"context"
	"net/http"

	"github.com/actinova/admin-backend/internal/middleware"
	"github.com/actinova/admin-backend/internal/models"
	"github.com/gin-gonic/gin"
)

// UserService manages learners
type UserService interface {
	List(ctx context.Context, filter models.UserFilter, page models.PageRequest) (models.ListResult[models.UserListItem], error)
	Get(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, input models.UserInput) (*models.User, error)
	Update(ctx context.Context, id string, input models.UserInput) (*models.User, error)
	BulkUpdate(ctx context.Context, session models.AdminSession, req models.BulkUserUpdate) (int64, error)
	Delete(ctx context.Context, session models.AdminSession, id string) error
	BulkDelete(ctx context.Context, session models.AdminSession, ids []string) (int64, error)
}

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetUsers handles GET /users
func (h *UserHandler) GetUsers(c *gin.Context) {
	filter := models.UserFilter{
		Search:       c.Query("search"),
		Status:       c.Query("status"),
		Subscription: c.Query("subscription"),
	}
	result, err := h.userService.List(c.Request.Context(), filter, pageRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetUserByID handles GET /users/:id
func (h *UserHandler) GetUserByID(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var input models.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	user, err := h.userService.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// UpdateUser handles PUT /users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var input models.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	user, err := h.userService.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// BulkUpdateUsers handles PATCH /users
func (h *UserHandler) BulkUpdateUsers(c *gin.Context) {
	var req models.BulkUserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	session, _ := middleware.SessionFromContext(c.Request.Context())
	matched, err := h.userService.BulkUpdate(c.Request.Context(), session, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Users updated successfully", "modifiedCount": matched})
}

// DeleteUser handles DELETE /users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	session, _ := middleware.SessionFromContext(c.Request.Context())
	if err := h.userService.Delete(c.Request.Context(), session, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// BulkDeleteUsers handles DELETE /users
func (h *UserHandler) BulkDeleteUsers(c *gin.Context) {
	var req models.BulkIDs
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	session, _ := middleware.SessionFromContext(c.Request.Context())
	deleted, err := h.userService.BulkDelete(c.Request.Context(), session, req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Users deleted successfully", "deletedCount": deleted})
}
