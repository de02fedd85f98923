package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/actinova/admin-backend/internal/events"
	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// activityConcurrency bounds the per-user count queries of one list request
const activityConcurrency = 8

// UserService handles learner management
type UserService struct {
	userRepo        repositories.UserRepository
	cardSetRepo     repositories.CardSetRepository
	testRepo        repositories.TestRepository
	interactionRepo repositories.InteractionRepository
	notifier        *Notifier
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo repositories.UserRepository,
	cardSetRepo repositories.CardSetRepository,
	testRepo repositories.TestRepository,
	interactionRepo repositories.InteractionRepository,
	notifier *Notifier,
) *UserService {
	return &UserService{
		userRepo:        userRepo,
		cardSetRepo:     cardSetRepo,
		testRepo:        testRepo,
		interactionRepo: interactionRepo,
		notifier:        notifier,
	}
}

// List returns one page of users, each with its activity counts
func (s *UserService) List(ctx context.Context, filter models.UserFilter, page models.PageRequest) (models.ListResult[models.UserListItem], error) {
	page = page.Normalize()
	users, total, err := s.userRepo.List(ctx, filter, page)
	if err != nil {
		return models.ListResult[models.UserListItem]{}, repoErr("list users", err)
	}

	items := make([]models.UserListItem, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(activityConcurrency)
	for i, user := range users {
		i, user := i, user
		g.Go(func() error {
			activity, err := s.activity(gctx, user.ID)
			if err != nil {
				return err
			}
			items[i] = models.UserListItem{User: user, Activity: activity}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.ListResult[models.UserListItem]{}, fmt.Errorf("count user activity: %w", err)
	}

	return models.NewListResult(items, page, total), nil
}

// activity runs the three count queries of one user concurrently
func (s *UserService) activity(ctx context.Context, userID primitive.ObjectID) (models.UserActivity, error) {
	var activity models.UserActivity
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		activity.CardSets, err = s.cardSetRepo.CountByUser(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		activity.Tests, err = s.testRepo.CountByUser(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		activity.Interactions, err = s.interactionRepo.CountByUser(gctx, userID)
		return err
	})
	return activity, g.Wait()
}

// Get returns one user
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	userID, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, repoErr("find user", err)
	}
	return user, nil
}

// Create inserts a user with server defaults
func (s *UserService) Create(ctx context.Context, input models.UserInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("user %s: %w", email, ErrConflict)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, repoErr("find user", err)
	}

	now := time.Now()
	user := &models.User{
		Name:              strings.TrimSpace(input.Name),
		Email:             email,
		Phone:             strings.TrimSpace(input.Phone),
		Status:            input.Status,
		Subscription:      models.Subscription{Plan: models.PlanFree, Status: "active", StartDate: &now},
		BillingHistory:    []models.BillingRecord{},
		GeneratedCardSets: []primitive.ObjectID{},
		Courses:           []models.CourseProgress{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if user.Status == "" {
		user.Status = models.UserStatusActive
	}
	if input.Subscription != nil {
		if input.Subscription.Plan != "" {
			user.Subscription.Plan = input.Subscription.Plan
		}
		if input.Subscription.Status != "" {
			user.Subscription.Status = input.Subscription.Status
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, repoErr("create user", err)
	}
	return user, nil
}

// Update replaces the editable fields of one user
func (s *UserService) Update(ctx context.Context, id string, input models.UserInput) (*models.User, error) {
	userID, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"name":  strings.TrimSpace(input.Name),
		"email": strings.ToLower(strings.TrimSpace(input.Email)),
		"phone": strings.TrimSpace(input.Phone),
	}
	if input.Status != "" {
		set["status"] = input.Status
	}
	if input.Subscription != nil {
		if input.Subscription.Plan != "" {
			set["subscription.plan"] = input.Subscription.Plan
		}
		if input.Subscription.Status != "" {
			set["subscription.status"] = input.Subscription.Status
		}
	}

	user, err := s.userRepo.Update(ctx, userID, set)
	if err != nil {
		return nil, repoErr("update user", err)
	}
	return user, nil
}

// BulkUpdate applies the same change to every listed user and returns how
// many matched
func (s *UserService) BulkUpdate(ctx context.Context, session models.AdminSession, req models.BulkUserUpdate) (int64, error) {
	ids, err := ParseIDs(req.IDs)
	if err != nil {
		return 0, err
	}
	if req.Updates.IsEmpty() {
		return 0, validation("no updates given")
	}

	set := bson.M{}
	if req.Updates.Status != "" {
		set["status"] = req.Updates.Status
	}
	if req.Updates.SubscriptionPlan != "" {
		set["subscription.plan"] = req.Updates.SubscriptionPlan
	}
	if req.Updates.SubscriptionStatus != "" {
		set["subscription.status"] = req.Updates.SubscriptionStatus
	}

	matched, err := s.userRepo.UpdateMany(ctx, ids, set)
	if err != nil {
		return 0, repoErr("bulk update users", err)
	}

	s.notifier.Publish(ctx, session, events.UsersBulkUpdated, map[string]any{
		"ids":     req.IDs,
		"updates": req.Updates,
		"matched": matched,
	})
	return matched, nil
}

// Delete removes one user
func (s *UserService) Delete(ctx context.Context, session models.AdminSession, id string) error {
	userID, err := ParseID(id)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return repoErr("delete user", err)
	}
	s.notifier.Publish(ctx, session, events.UsersDeleted, map[string]any{"ids": []string{id}, "deleted": 1})
	return nil
}

// BulkDelete removes every listed user and returns how many were deleted
func (s *UserService) BulkDelete(ctx context.Context, session models.AdminSession, hexIDs []string) (int64, error) {
	ids, err := ParseIDs(hexIDs)
	if err != nil {
		return 0, err
	}
	deleted, err := s.userRepo.DeleteMany(ctx, ids)
	if err != nil {
		return 0, repoErr("bulk delete users", err)
	}
	s.notifier.Publish(ctx, session, events.UsersDeleted, map[string]any{"ids": hexIDs, "deleted": deleted})
	return deleted, nil
}
