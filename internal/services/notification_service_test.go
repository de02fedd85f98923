package services

import (
	"context"
	"testing"
	"time"

	"github.com/actinova/admin-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_Feed(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	since := now.Add(-24 * time.Hour)

	contacts := &ContactRepoMock{}
	contacts.On("FindCreatedSince", mock.Anything, since, feedLimit).Return([]*models.Contact{
		{Name: "Ada", Subject: "Hello", CreatedAt: now.Add(-time.Hour)},
	}, nil).Once()
	users := &UserRepoMock{}
	users.On("FindCreatedSince", mock.Anything, since, feedLimit).Return([]*models.User{
		{Name: "Lin", Email: "lin@example.com", CreatedAt: now.Add(-10 * time.Minute)},
	}, nil).Once()
	admins := &AdminRepoMock{}
	admins.On("FindPending", mock.Anything).Return([]*models.Admin{
		{Name: "Sam", Email: "sam@actinova.ai", CreatedAt: now.Add(-48 * time.Hour)},
	}, nil).Once()

	svc := NewNotificationService(users, contacts, admins)
	svc.now = fixedClock(now)

	feed, err := svc.Feed(context.Background(), time.Time{})
	require.NoError(t, err)

	assert.Equal(t, since, feed.Since)
	assert.Equal(t, 3, feed.UnreadCount)
	require.Len(t, feed.Notifications, 3)
	assert.Equal(t, models.NotificationNewUser, feed.Notifications[0].Type)
	assert.Equal(t, models.NotificationNewContact, feed.Notifications[1].Type)
	assert.Equal(t, "Ada: Hello", feed.Notifications[1].Message)
	assert.Equal(t, models.NotificationPendingAdmin, feed.Notifications[2].Type)
}

func TestVisitorService_Track(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	repo := &VisitorRepoMock{}
	repo.On("Increment", mock.Anything, now).Return(&models.VisitorCounter{ID: "2026-08-01", Count: 42}, nil).Once()

	svc := NewVisitorService(repo)
	svc.now = fixedClock(now)

	counter, err := svc.Track(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), counter.Count)
}
