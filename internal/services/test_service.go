package services

import (
	"context"
	"fmt"

	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/repositories"
	"golang.org/x/sync/errgroup"
)

// TestService manages learner-generated quizzes
type TestService struct {
	testRepo        repositories.TestRepository
	interactionRepo repositories.InteractionRepository
}

// NewTestService creates a new TestService
func NewTestService(testRepo repositories.TestRepository, interactionRepo repositories.InteractionRepository) *TestService {
	return &TestService{testRepo: testRepo, interactionRepo: interactionRepo}
}

// List returns one page of tests with question and attempt counts
func (s *TestService) List(ctx context.Context, filter models.TestFilter, page models.PageRequest) (models.ListResult[models.TestListItem], error) {
	page = page.Normalize()
	tests, total, err := s.testRepo.List(ctx, filter, page)
	if err != nil {
		return models.ListResult[models.TestListItem]{}, repoErr("list tests", err)
	}

	items := make([]models.TestListItem, len(tests))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(activityConcurrency)
	for i, test := range tests {
		i, test := i, test
		g.Go(func() error {
			attempts, err := s.interactionRepo.CountByTarget(gctx, models.InteractionTest, test.ID)
			if err != nil {
				return err
			}
			items[i] = models.TestListItem{Test: test, QuestionCount: len(test.Questions), Attempts: attempts}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.ListResult[models.TestListItem]{}, fmt.Errorf("count test attempts: %w", err)
	}
	return models.NewListResult(items, page, total), nil
}

// Get returns one test
func (s *TestService) Get(ctx context.Context, id string) (*models.Test, error) {
	testID, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	test, err := s.testRepo.FindByID(ctx, testID)
	if err != nil {
		return nil, repoErr("find test", err)
	}
	return test, nil
}

// Delete removes one test
func (s *TestService) Delete(ctx context.Context, id string) error {
	testID, err := ParseID(id)
	if err != nil {
		return err
	}
	if err := s.testRepo.Delete(ctx, testID); err != nil {
		return repoErr("delete test", err)
	}
	return nil
}
