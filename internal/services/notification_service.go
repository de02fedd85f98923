package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/repositories"
	"golang.org/x/sync/errgroup"
)

const (
	defaultFeedWindow = 24 * time.Hour
	feedLimit         = 20
)

// NotificationService derives the admin activity feed from recent writes
type NotificationService struct {
	userRepo    repositories.UserRepository
	contactRepo repositories.ContactRepository
	adminRepo   repositories.AdminRepository
	now         func() time.Time
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(userRepo repositories.UserRepository, contactRepo repositories.ContactRepository, adminRepo repositories.AdminRepository) *NotificationService {
	return &NotificationService{userRepo: userRepo, contactRepo: contactRepo, adminRepo: adminRepo, now: time.Now}
}

// Feed returns contacts and users created after since plus admins awaiting
// approval, newest first. A zero since means the last 24 hours.
func (s *NotificationService) Feed(ctx context.Context, since time.Time) (*models.NotificationFeed, error) {
	if since.IsZero() {
		since = s.now().Add(-defaultFeedWindow)
	}

	var (
		contacts []*models.Contact
		users    []*models.User
		pending  []*models.Admin
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		contacts, err = s.contactRepo.FindCreatedSince(gctx, since, feedLimit)
		return err
	})
	g.Go(func() (err error) {
		users, err = s.userRepo.FindCreatedSince(gctx, since, feedLimit)
		return err
	})
	g.Go(func() (err error) {
		pending, err = s.adminRepo.FindPending(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build notification feed: %w", err)
	}

	feed := make([]*models.Notification, 0, len(contacts)+len(users)+len(pending))
	for _, c := range contacts {
		feed = append(feed, &models.Notification{
			Type:      models.NotificationNewContact,
			RefID:     c.ID,
			Title:     "New contact message",
			Message:   fmt.Sprintf("%s: %s", c.Name, c.Subject),
			CreatedAt: c.CreatedAt,
		})
	}
	for _, u := range users {
		feed = append(feed, &models.Notification{
			Type:      models.NotificationNewUser,
			RefID:     u.ID,
			Title:     "New user registered",
			Message:   fmt.Sprintf("%s (%s)", u.Name, u.Email),
			CreatedAt: u.CreatedAt,
		})
	}
	for _, a := range pending {
		feed = append(feed, &models.Notification{
			Type:      models.NotificationPendingAdmin,
			RefID:     a.ID,
			Title:     "Admin awaiting approval",
			Message:   fmt.Sprintf("%s (%s)", a.Name, a.Email),
			CreatedAt: a.CreatedAt,
		})
	}
	sort.SliceStable(feed, func(i, j int) bool { return feed[i].CreatedAt.After(feed[j].CreatedAt) })

	return &models.NotificationFeed{Since: since, Notifications: feed, UnreadCount: len(feed)}, nil
}
