package services

import (
	"context"
	"time"

	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/repositories"
)

// VisitorService counts site visits per day
type VisitorService struct {
	visitorRepo repositories.VisitorRepository
	now         func() time.Time
}

// NewVisitorService creates a new VisitorService
func NewVisitorService(visitorRepo repositories.VisitorRepository) *VisitorService {
	return &VisitorService{visitorRepo: visitorRepo, now: time.Now}
}

// Track records one visit for today
func (s *VisitorService) Track(ctx context.Context) (*models.VisitorCounter, error) {
	counter, err := s.visitorRepo.Increment(ctx, s.now())
	if err != nil {
		return nil, repoErr("track visit", err)
	}
	return counter, nil
}
