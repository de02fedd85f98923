package services

import (
	"context"
	"fmt"

	"github.com/actinova/admin-backend/internal/events"
	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/repositories"
	"github.com/actinova/admin-backend/pkg/mailer"
	"go.mongodb.org/mongo-driver/bson"
)

// AdminService manages back-office accounts
type AdminService struct {
	adminRepo repositories.AdminRepository
	notifier  *Notifier
}

// NewAdminService creates a new AdminService
func NewAdminService(adminRepo repositories.AdminRepository, notifier *Notifier) *AdminService {
	return &AdminService{adminRepo: adminRepo, notifier: notifier}
}

// List returns every admin account
func (s *AdminService) List(ctx context.Context) ([]*models.Admin, error) {
	admins, err := s.adminRepo.FindAll(ctx)
	if err != nil {
		return nil, repoErr("list admins", err)
	}
	return admins, nil
}

// Approve lets a verified admin log in and tells them by email
func (s *AdminService) Approve(ctx context.Context, session models.AdminSession, id string) (*models.Admin, error) {
	adminID, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	admin, err := s.adminRepo.FindByID(ctx, adminID)
	if err != nil {
		return nil, repoErr("find admin", err)
	}
	if !admin.IsVerified {
		return nil, validation("admin has not verified their email yet")
	}
	if admin.IsApproved {
		return admin, nil
	}

	if err := s.adminRepo.Update(ctx, adminID, bson.M{"isApproved": true}); err != nil {
		return nil, repoErr("approve admin", err)
	}
	admin.IsApproved = true

	s.notifier.SendAsync(mailer.ApprovalEmail(admin.Email, admin.Name))
	s.notifier.Publish(ctx, session, events.AdminApproved, map[string]string{"adminId": admin.ID.Hex(), "email": admin.Email})
	return admin, nil
}

// Delete removes an admin account other than the caller's own
func (s *AdminService) Delete(ctx context.Context, session models.AdminSession, id string) error {
	adminID, err := ParseID(id)
	if err != nil {
		return err
	}
	if adminID == session.AdminID {
		return fmt.Errorf("cannot delete your own account: %w", ErrForbidden)
	}
	if err := s.adminRepo.Delete(ctx, adminID); err != nil {
		return repoErr("delete admin", err)
	}
	return nil
}
