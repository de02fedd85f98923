package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// NotificationService derives the admin activity feed
type NotificationService interface {
	Feed(ctx context.Context, since time.Time) (*models.NotificationFeed, error)
}

// VisitorService counts site visits
type VisitorService interface {
	Track(ctx context.Context) (*models.VisitorCounter, error)
}

// NotificationHandler handles the activity feed and visitor tracking
type NotificationHandler struct {
	notificationService NotificationService
	visitorService      VisitorService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService NotificationService, visitorService VisitorService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, visitorService: visitorService}
}

// GetNotifications handles GET /notifications?since=RFC3339
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	var since time.Time
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, fmt.Errorf("%w: since must be an RFC3339 timestamp", services.ErrValidation))
			return
		}
		since = parsed
	}

	feed, err := h.notificationService.Feed(c.Request.Context(), since)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

// TrackVisit handles the public POST /visitors/track
func (h *NotificationHandler) TrackVisit(c *gin.Context) {
	counter, err := h.visitorService.Track(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counter)
}
