package handlers

import (
	"context"
	"net/http"

	"github.com/actinova/admin-backend/internal/models"
	"github.com/gin-gonic/gin"
)

// BlogService manages posts and comments
type BlogService interface {
	List(ctx context.Context, filter models.PostFilter, page models.PageRequest) (models.ListResult[*models.Post], error)
	Get(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, input models.PostInput) (*models.Post, error)
	Update(ctx context.Context, id string, input models.PostInput) (*models.Post, error)
	Delete(ctx context.Context, id string) error
	ListComments(ctx context.Context, id string, page models.PageRequest) (models.ListResult[*models.Comment], error)
	AddComment(ctx context.Context, id string, input models.CommentInput) (*models.Comment, error)
	DeleteComment(ctx context.Context, id, commentID string) error
}

// BlogHandler handles blog HTTP requests
type BlogHandler struct {
	blogService BlogService
}

// NewBlogHandler creates a new BlogHandler
func NewBlogHandler(blogService BlogService) *BlogHandler {
	return &BlogHandler{blogService: blogService}
}

// GetPosts handles GET /blogs
func (h *BlogHandler) GetPosts(c *gin.Context) {
	filter := models.PostFilter{Search: c.Query("search"), Status: c.Query("status")}
	result, err := h.blogService.List(c.Request.Context(), filter, pageRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetPost handles GET /blogs/:id
func (h *BlogHandler) GetPost(c *gin.Context) {
	post, err := h.blogService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// CreatePost handles POST /blogs
func (h *BlogHandler) CreatePost(c *gin.Context) {
	var input models.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	post, err := h.blogService.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// UpdatePost handles PUT /blogs/:id
func (h *BlogHandler) UpdatePost(c *gin.Context) {
	var input models.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	post, err := h.blogService.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// DeletePost handles DELETE /blogs/:id
func (h *BlogHandler) DeletePost(c *gin.Context) {
	if err := h.blogService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// GetComments handles GET /blogs/:id/comments
func (h *BlogHandler) GetComments(c *gin.Context) {
	result, err := h.blogService.ListComments(c.Request.Context(), c.Param("id"), pageRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AddComment handles POST /blogs/:id/comments
func (h *BlogHandler) AddComment(c *gin.Context) {
	var input models.CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	comment, err := h.blogService.AddComment(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// DeleteComment handles DELETE /blogs/:id/comments/:commentId
func (h *BlogHandler) DeleteComment(c *gin.Context) {
	if err := h.blogService.DeleteComment(c.Request.Context(), c.Param("id"), c.Param("commentId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
