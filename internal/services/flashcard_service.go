package services

import (
	"context"
	"fmt"

	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/repositories"
	"golang.org/x/sync/errgroup"
)

// FlashcardService manages learner-generated card sets
type FlashcardService struct {
	cardSetRepo     repositories.CardSetRepository
	interactionRepo repositories.InteractionRepository
}

// NewFlashcardService creates a new FlashcardService
func NewFlashcardService(cardSetRepo repositories.CardSetRepository, interactionRepo repositories.InteractionRepository) *FlashcardService {
	return &FlashcardService{cardSetRepo: cardSetRepo, interactionRepo: interactionRepo}
}

// List returns one page of card sets with card and study session counts
func (s *FlashcardService) List(ctx context.Context, search string, page models.PageRequest) (models.ListResult[models.CardSetListItem], error) {
	page = page.Normalize()
	sets, total, err := s.cardSetRepo.List(ctx, search, page)
	if err != nil {
		return models.ListResult[models.CardSetListItem]{}, repoErr("list card sets", err)
	}

	items := make([]models.CardSetListItem, len(sets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(activityConcurrency)
	for i, set := range sets {
		i, set := i, set
		g.Go(func() error {
			sessions, err := s.interactionRepo.CountByTarget(gctx, models.InteractionFlashcard, set.ID)
			if err != nil {
				return err
			}
			items[i] = models.CardSetListItem{CardSet: set, CardCount: len(set.Cards), StudySessions: sessions}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.ListResult[models.CardSetListItem]{}, fmt.Errorf("count study sessions: %w", err)
	}
	return models.NewListResult(items, page, total), nil
}

// Get returns one card set
func (s *FlashcardService) Get(ctx context.Context, id string) (*models.CardSet, error) {
	setID, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	set, err := s.cardSetRepo.FindByID(ctx, setID)
	if err != nil {
		return nil, repoErr("find card set", err)
	}
	return set, nil
}

// Delete removes one card set
func (s *FlashcardService) Delete(ctx context.Context, id string) error {
	setID, err := ParseID(id)
	if err != nil {
		return err
	}
	if err := s.cardSetRepo.Delete(ctx, setID); err != nil {
		return repoErr("delete card set", err)
	}
	return nil
}

// BulkDelete removes every listed card set and returns how many were deleted
func (s *FlashcardService) BulkDelete(ctx context.Context, hexIDs []string) (int64, error) {
	ids, err := ParseIDs(hexIDs)
	if err != nil {
		return 0, err
	}
	deleted, err := s.cardSetRepo.DeleteMany(ctx, ids)
	if err != nil {
		return 0, repoErr("bulk delete card sets", err)
	}
	return deleted, nil
}
