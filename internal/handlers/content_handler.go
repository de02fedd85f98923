package handlers

import (
	"context"
	"net/http"

	"github.com/actinova/admin-backend/internal/models"
	"github.com/gin-gonic/gin"
)

// FlashcardService manages learner-generated card sets
type FlashcardService interface {
	List(ctx context.Context, search string, page models.PageRequest) (models.ListResult[models.CardSetListItem], error)
	Get(ctx context.Context, id string) (*models.CardSet, error)
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, ids []string) (int64, error)
}

// TestService manages generated quizzes
type TestService interface {
	List(ctx context.Context, filter models.TestFilter, page models.PageRequest) (models.ListResult[models.TestListItem], error)
	Get(ctx context.Context, id string) (*models.Test, error)
	Delete(ctx context.Context, id string) error
}

// ContentHandler handles flashcard and test HTTP requests
type ContentHandler struct {
	flashcardService FlashcardService
	testService      TestService
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(flashcardService FlashcardService, testService TestService) *ContentHandler {
	return &ContentHandler{flashcardService: flashcardService, testService: testService}
}

// GetFlashcards handles GET /flashcards
func (h *ContentHandler) GetFlashcards(c *gin.Context) {
	result, err := h.flashcardService.List(c.Request.Context(), c.Query("search"), pageRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetFlashcard handles GET /flashcards/:id
func (h *ContentHandler) GetFlashcard(c *gin.Context) {
	set, err := h.flashcardService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, set)
}

// DeleteFlashcard handles DELETE /flashcards/:id
func (h *ContentHandler) DeleteFlashcard(c *gin.Context) {
	if err := h.flashcardService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Flashcard set deleted successfully"})
}

// BulkDeleteFlashcards handles DELETE /flashcards
func (h *ContentHandler) BulkDeleteFlashcards(c *gin.Context) {
	var req models.BulkIDs
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	deleted, err := h.flashcardService.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Flashcard sets deleted successfully", "deletedCount": deleted})
}

// GetTests handles GET /tests
func (h *ContentHandler) GetTests(c *gin.Context) {
	filter := models.TestFilter{Search: c.Query("search"), Difficulty: c.Query("difficulty")}
	result, err := h.testService.List(c.Request.Context(), filter, pageRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetTest handles GET /tests/:id
func (h *ContentHandler) GetTest(c *gin.Context) {
	test, err := h.testService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, test)
}

// DeleteTest handles DELETE /tests/:id
func (h *ContentHandler) DeleteTest(c *gin.Context) {
	if err := h.testService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Test deleted successfully"})
}
