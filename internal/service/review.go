package service

import (
	"context"
	"errors"
	"strings"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/repository"
)

type reviewService struct {
	base
}

func NewReviewService(tx repository.Transactor, repos *repository.Repositories, settings Settings) ReviewService {
	return &reviewService{base: newBase(tx, repos, settings)}
}

// AddReview stores a customer's single review of a model.
func (s *reviewService) AddReview(ctx context.Context, rv *domain.Review) error {
	rv.Comment = strings.TrimSpace(rv.Comment)
	if err := rv.Validate(); err != nil {
		return err
	}
	return s.tx.WithinTx(ctx, func(repos *repository.Repositories) error {
		if _, err := repos.Customers.GetByID(ctx, rv.CustomerID); err != nil {
			return err
		}
		if _, err := repos.Models.GetByID(ctx, rv.ModelID); err != nil {
			return err
		}
		exists, err := repos.Reviews.Exists(ctx, rv.CustomerID, rv.ModelID)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrReviewExists
		}
		rv.CreatedAt = s.now()
		err = repos.Reviews.Create(ctx, rv)
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return domain.ErrReviewExists
		}
		return err
	})
}

func (s *reviewService) ListReviews(ctx context.Context, modelID int32) ([]domain.ReviewView, error) {
	return s.repos.Reviews.ListByModel(ctx, modelID)
}

func (s *reviewService) HasReviewed(ctx context.Context, customerID, modelID int32) (bool, error) {
	return s.repos.Reviews.Exists(ctx, customerID, modelID)
}
