package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/repositories"
	"github.com/actinova/admin-backend/internal/utils"
	"github.com/actinova/admin-backend/pkg/mailer"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	verificationCodeLength = 6
	verificationTTL        = 15 * time.Minute
	resetTokenBytes        = 32
	resetTTL               = time.Hour
)

// TokenIssuer signs admin session tokens
type TokenIssuer interface {
	Generate(adminID primitive.ObjectID, email, role string) (string, error)
}

// AuthService handles admin sign-up, verification, login and password resets
type AuthService struct {
	adminRepo repositories.AdminRepository
	tokens    TokenIssuer
	notifier  *Notifier
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(adminRepo repositories.AdminRepository, tokens TokenIssuer, notifier *Notifier, logger *zap.Logger) *AuthService {
	return &AuthService{
		adminRepo: adminRepo,
		tokens:    tokens,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

// Signup creates an unverified admin and mails a verification code.
// The very first admin becomes a pre-approved superadmin.
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.Admin, error) {
	email := normalizeEmail(req.Email)
	if _, err := s.adminRepo.FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("admin %s: %w", email, ErrConflict)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, repoErr("find admin", err)
	}

	existing, err := s.adminRepo.FindAll(ctx)
	if err != nil {
		return nil, repoErr("list admins", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	code, err := utils.GenerateNumericCode(verificationCodeLength)
	if err != nil {
		return nil, fmt.Errorf("generate verification code: %w", err)
	}

	now := s.now()
	expires := now.Add(verificationTTL)
	admin := &models.Admin{
		Name:                strings.TrimSpace(req.Name),
		Email:               email,
		PasswordHash:        string(hash),
		Role:                models.RoleAdmin,
		VerificationCode:    code,
		VerificationExpires: &expires,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if len(existing) == 0 {
		admin.Role = models.RoleSuperAdmin
		admin.IsApproved = true
	}

	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, repoErr("create admin", err)
	}

	s.notifier.SendAsync(mailer.VerificationEmail(admin.Email, admin.Name, code))
	s.logger.Info("Admin signed up", zap.String("email", admin.Email), zap.String("role", admin.Role))
	return admin, nil
}

// Verify confirms the admin's email with the mailed code
func (s *AuthService) Verify(ctx context.Context, req models.VerifyRequest) error {
	admin, err := s.adminRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, repositories.ErrNotFound) {
		return validation("invalid or expired verification code")
	}
	if err != nil {
		return repoErr("find admin", err)
	}
	if admin.IsVerified {
		return nil
	}

	if admin.VerificationExpires == nil || s.now().After(*admin.VerificationExpires) ||
		subtle.ConstantTimeCompare([]byte(admin.VerificationCode), []byte(req.Code)) != 1 {
		return validation("invalid or expired verification code")
	}

	err = s.adminRepo.Update(ctx, admin.ID, bson.M{
		"isVerified":          true,
		"verificationCode":    "",
		"verificationExpires": nil,
	})
	if err != nil {
		return repoErr("verify admin", err)
	}
	return nil
}

// Login checks credentials and returns a signed session token
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	admin, err := s.adminRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	}
	if err != nil {
		return nil, repoErr("find admin", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	}
	if !admin.IsVerified {
		return nil, fmt.Errorf("email address not verified: %w", ErrForbidden)
	}
	if !admin.IsApproved {
		return nil, fmt.Errorf("account awaiting approval: %w", ErrForbidden)
	}

	token, err := s.tokens.Generate(admin.ID, admin.Email, admin.Role)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.adminRepo.Update(ctx, admin.ID, bson.M{"lastLogin": now}); err != nil {
		s.logger.Warn("Failed to record last login", zap.String("admin_id", admin.ID.Hex()), zap.Error(err))
	}
	admin.LastLogin = &now

	return &models.LoginResponse{Token: token, Admin: admin}, nil
}

// ForgotPassword mails a reset token when the email belongs to an admin.
// Unknown emails succeed silently.
func (s *AuthService) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error {
	admin, err := s.adminRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	if err != nil {
		return repoErr("find admin", err)
	}

	token, err := utils.GenerateRandomString(resetTokenBytes)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	expires := s.now().Add(resetTTL)
	if err := s.adminRepo.Update(ctx, admin.ID, bson.M{"resetToken": token, "resetExpires": expires}); err != nil {
		return repoErr("store reset token", err)
	}

	s.notifier.SendAsync(mailer.PasswordResetEmail(admin.Email, admin.Name, token))
	return nil
}

// ResetPassword replaces the password of the admin holding token
func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	admin, err := s.adminRepo.FindByResetToken(ctx, req.Token)
	if errors.Is(err, repositories.ErrNotFound) {
		return validation("invalid or expired reset token")
	}
	if err != nil {
		return repoErr("find admin", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	err = s.adminRepo.Update(ctx, admin.ID, bson.M{
		"passwordHash": string(hash),
		"resetToken":   "",
		"resetExpires": nil,
	})
	if err != nil {
		return repoErr("reset password", err)
	}
	return nil
}

// Me returns the admin behind session
func (s *AuthService) Me(ctx context.Context, session models.AdminSession) (*models.Admin, error) {
	admin, err := s.adminRepo.FindByID(ctx, session.AdminID)
	if err != nil {
		return nil, repoErr("find admin", err)
	}
	return admin, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
