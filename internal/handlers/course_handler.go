package handlers

import (
	"context"
	"net/http"

	"github.com/actinova/admin-backend/internal/models"
	"github.com/gin-gonic/gin"
)

// CourseService serves the unified course catalog
type CourseService interface {
	List(ctx context.Context, filter models.CourseFilter, page models.PageRequest) (models.ListResult[*models.CatalogCourse], error)
	Get(ctx context.Context, key string) (*models.CatalogCourse, error)
	Update(ctx context.Context, key string, update models.CourseUpdate) (*models.CatalogCourse, error)
	Delete(ctx context.Context, key string) error
	Reconcile(ctx context.Context) (*models.ReconcileResult, error)
}

// CourseHandler handles course catalog HTTP requests
type CourseHandler struct {
	courseService CourseService
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(courseService CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// GetCourses handles GET /courses
func (h *CourseHandler) GetCourses(c *gin.Context) {
	filter := models.CourseFilter{
		Search:     c.Query("search"),
		Difficulty: c.Query("difficulty"),
		Source:     c.Query("source"),
	}
	result, err := h.courseService.List(c.Request.Context(), filter, pageRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetCourse handles GET /courses/:key
func (h *CourseHandler) GetCourse(c *gin.Context) {
	course, err := h.courseService.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// UpdateCourse handles PUT /courses/:key
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	var update models.CourseUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		bindError(c, err)
		return
	}
	course, err := h.courseService.Update(c.Request.Context(), c.Param("key"), update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// DeleteCourse handles DELETE /courses/:key
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	if err := h.courseService.Delete(c.Request.Context(), c.Param("key")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course deleted successfully"})
}

// ReconcileCourses handles POST /courses/reconcile
func (h *CourseHandler) ReconcileCourses(c *gin.Context) {
	result, err := h.courseService.Reconcile(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
