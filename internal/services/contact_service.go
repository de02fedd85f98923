package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/actinova/admin-backend/internal/events"
	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/repositories"
	"github.com/actinova/admin-backend/pkg/mailer"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// ContactService handles contact form messages and admin replies
type ContactService struct {
	contactRepo repositories.ContactRepository
	notifier    *Notifier
	logger      *zap.Logger
	now         func() time.Time
}

// NewContactService creates a new ContactService
func NewContactService(contactRepo repositories.ContactRepository, notifier *Notifier, logger *zap.Logger) *ContactService {
	return &ContactService{contactRepo: contactRepo, notifier: notifier, logger: logger, now: time.Now}
}

// Submit stores a public contact form submission
func (s *ContactService) Submit(ctx context.Context, input models.ContactInput) (*models.Contact, error) {
	now := s.now()
	contact := &models.Contact{
		Name:            strings.TrimSpace(input.Name),
		Email:           strings.ToLower(strings.TrimSpace(input.Email)),
		Subject:         strings.TrimSpace(input.Subject),
		Message:         strings.TrimSpace(input.Message),
		Status:          models.ContactStatusNew,
		ResponseHistory: []models.ResponseEntry{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, repoErr("create contact", err)
	}
	return contact, nil
}

// List returns one page of contacts
func (s *ContactService) List(ctx context.Context, filter models.ContactFilter, page models.PageRequest) (models.ListResult[*models.Contact], error) {
	page = page.Normalize()
	contacts, total, err := s.contactRepo.List(ctx, filter, page)
	if err != nil {
		return models.ListResult[*models.Contact]{}, repoErr("list contacts", err)
	}
	return models.NewListResult(contacts, page, total), nil
}

// Get returns one contact
func (s *ContactService) Get(ctx context.Context, id string) (*models.Contact, error) {
	contactID, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	contact, err := s.contactRepo.FindByID(ctx, contactID)
	if err != nil {
		return nil, repoErr("find contact", err)
	}
	return contact, nil
}

// Update changes the status or notes of a contact
func (s *ContactService) Update(ctx context.Context, id string, update models.ContactUpdate) (*models.Contact, error) {
	contactID, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	set := bson.M{}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.AdminNotes != nil {
		set["adminNotes"] = *update.AdminNotes
	}
	if len(set) == 0 {
		return nil, validation("no updates given")
	}

	contact, err := s.contactRepo.Update(ctx, contactID, set)
	if err != nil {
		return nil, repoErr("update contact", err)
	}
	return contact, nil
}

// Delete removes one contact
func (s *ContactService) Delete(ctx context.Context, id string) error {
	contactID, err := ParseID(id)
	if err != nil {
		return err
	}
	if err := s.contactRepo.Delete(ctx, contactID); err != nil {
		return repoErr("delete contact", err)
	}
	return nil
}

// Respond emails a reply to the contact and records it. A failed delivery
// records nothing and returns ErrDeliveryFailed alongside the result.
func (s *ContactService) Respond(ctx context.Context, session models.AdminSession, id string, req models.RespondRequest) (*models.RespondResult, error) {
	contactID, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, validation("message is required")
	}

	contact, err := s.contactRepo.FindByID(ctx, contactID)
	if err != nil {
		return nil, repoErr("find contact", err)
	}

	email := mailer.ContactReplyEmail(contact.Email, contact.Name, req.Subject, message, contact.Subject)
	status, sendErr := s.notifier.Send(ctx, email)
	if status == mailer.StatusFailed {
		s.logger.Warn("Contact reply not delivered", zap.String("contact_id", id), zap.Error(sendErr))
		return &models.RespondResult{
			Message:        "Failed to send email",
			DeliveryStatus: string(status),
			Contact:        contact,
		}, fmt.Errorf("reply to contact %s: %w", id, ErrDeliveryFailed)
	}

	now := s.now().UTC()
	entry := models.ResponseEntry{
		Subject:        email.Subject,
		Message:        message,
		RespondedBy:    session.Email,
		DeliveryStatus: string(status),
		RespondedAt:    now,
	}
	note := NoteLine(now, fmt.Sprintf("Responded via email (%s)", status))

	updated, err := s.contactRepo.RecordResponse(ctx, contactID, entry, note)
	if err != nil {
		return nil, repoErr("record contact response", err)
	}

	s.notifier.Publish(ctx, session, events.ContactResponded, map[string]string{
		"contactId":      id,
		"deliveryStatus": string(status),
	})

	msg := "Response sent successfully"
	if status == mailer.StatusSimulated {
		msg = "Response recorded; email delivery was simulated"
	}
	return &models.RespondResult{Message: msg, DeliveryStatus: string(status), Contact: updated}, nil
}

// NoteLine formats a timestamped admin note line
func NoteLine(at time.Time, line string) string {
	return fmt.Sprintf("[%s] %s", at.UTC().Format(time.RFC3339), line)
}
