package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ampizza/pizza-shop/internal/domain/models"
	"github.com/ampizza/pizza-shop/internal/storage"
)

// ReviewService определяет операции над отзывами.
type ReviewService interface {
	List(ctx context.Context) ([]*models.Review, error)
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
}

type reviewService struct {
	log        *slog.Logger
	reviewRepo storage.ReviewStorage
}

func NewReviewService(log *slog.Logger, reviewRepo storage.ReviewStorage) ReviewService {
	return &reviewService{
		log:        log,
		reviewRepo: reviewRepo,
	}
}

func (s *reviewService) List(ctx context.Context) ([]*models.Review, error) {
	const op = "service.ReviewService.List"

	reviews, err := s.reviewRepo.ListReviews(ctx)
	if err != nil {
		s.log.Error("failed to list reviews", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list reviews: %w", op, err)
	}
	return reviews, nil
}

func (s *reviewService) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	const op = "service.ReviewService.Create"
	logger := s.log.With(slog.String("op", op))

	created, err := s.reviewRepo.CreateReview(ctx, review)
	if err != nil {
		logger.Error("failed to create review", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create review: %w", op, err)
	}
	logger.Info("review created", slog.Int64("reviewID", created.ID))
	return created, nil
}
