package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/actinova/admin-backend/internal/middleware"
	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// ContactService manages contact form messages
type ContactService interface {
	Submit(ctx context.Context, input models.ContactInput) (*models.Contact, error)
	List(ctx context.Context, filter models.ContactFilter, page models.PageRequest) (models.ListResult[*models.Contact], error)
	Get(ctx context.Context, id string) (*models.Contact, error)
	Update(ctx context.Context, id string, update models.ContactUpdate) (*models.Contact, error)
	Delete(ctx context.Context, id string) error
	Respond(ctx context.Context, session models.AdminSession, id string, req models.RespondRequest) (*models.RespondResult, error)
}

// ContactHandler handles contact HTTP requests
type ContactHandler struct {
	contactService ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// SubmitContact handles the public POST /contacts
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var input models.ContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	contact, err := h.contactService.Submit(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Message received", "id": contact.ID})
}

// GetContacts handles GET /contacts
func (h *ContactHandler) GetContacts(c *gin.Context) {
	filter := models.ContactFilter{Search: c.Query("search"), Status: c.Query("status")}
	result, err := h.contactService.List(c.Request.Context(), filter, pageRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetContact handles GET /contacts/:id
func (h *ContactHandler) GetContact(c *gin.Context) {
	contact, err := h.contactService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

// UpdateContact handles PATCH /contacts/:id
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	var update models.ContactUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		bindError(c, err)
		return
	}
	contact, err := h.contactService.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

// DeleteContact handles DELETE /contacts/:id
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	if err := h.contactService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted successfully"})
}

// RespondToContact handles POST /contacts/:id/respond. A failed delivery
// answers 502 and carries the delivery status.
func (h *ContactHandler) RespondToContact(c *gin.Context) {
	var req models.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	session, _ := middleware.SessionFromContext(c.Request.Context())
	result, err := h.contactService.Respond(c.Request.Context(), session, c.Param("id"), req)
	if errors.Is(err, services.ErrDeliveryFailed) {
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": result.Message, "deliveryStatus": result.DeliveryStatus})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
