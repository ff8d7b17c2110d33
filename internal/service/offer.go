package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ampizza/pizza-shop/internal/domain/models"
	"github.com/ampizza/pizza-shop/internal/storage"
)

// OfferService определяет операции над акциями.
type OfferService interface {
	// List возвращает действующие акции для витрины.
	List(ctx context.Context) ([]*models.Offer, error)
	// ListAll возвращает все акции для панели администратора.
	ListAll(ctx context.Context) ([]*models.Offer, error)
	GetByID(ctx context.Context, id int64) (*models.Offer, error)
	Create(ctx context.Context, offer *models.Offer) (*models.Offer, error)
	Update(ctx context.Context, offer *models.Offer) (*models.Offer, error)
	Delete(ctx context.Context, id int64) error
}

type offerService struct {
	log       *slog.Logger
	offerRepo storage.OfferStorage
}

func NewOfferService(log *slog.Logger, offerRepo storage.OfferStorage) OfferService {
	return &offerService{
		log:       log,
		offerRepo: offerRepo,
	}
}

func (s *offerService) List(ctx context.Context) ([]*models.Offer, error) {
	const op = "service.OfferService.List"

	offers, err := s.offerRepo.ListOffers(ctx, true)
	if err != nil {
		s.log.Error("failed to list offers", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list offers: %w", op, err)
	}
	return offers, nil
}

func (s *offerService) ListAll(ctx context.Context) ([]*models.Offer, error) {
	const op = "service.OfferService.ListAll"

	offers, err := s.offerRepo.ListOffers(ctx, false)
	if err != nil {
		s.log.Error("failed to list offers", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list offers: %w", op, err)
	}
	return offers, nil
}

func (s *offerService) GetByID(ctx context.Context, id int64) (*models.Offer, error) {
	const op = "service.OfferService.GetByID"

	offer, err := s.offerRepo.GetOfferByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrOfferNotFound) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		s.log.Error("failed to get offer", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get offer: %w", op, err)
	}
	return offer, nil
}

func (s *offerService) Create(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	const op = "service.OfferService.Create"
	logger := s.log.With(slog.String("op", op), slog.String("title", offer.Title))

	created, err := s.offerRepo.CreateOffer(ctx, offer)
	if err != nil {
		logger.Error("failed to create offer", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create offer: %w", op, err)
	}
	logger.Info("offer created", slog.Int64("offerID", created.ID))
	return created, nil
}

func (s *offerService) Update(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	const op = "service.OfferService.Update"
	logger := s.log.With(slog.String("op", op), slog.Int64("offerID", offer.ID))

	if err := s.offerRepo.UpdateOffer(ctx, offer); err != nil {
		if errors.Is(err, storage.ErrOfferNotFound) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		logger.Error("failed to update offer", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to update offer: %w", op, err)
	}
	logger.Info("offer updated")
	return offer, nil
}

func (s *offerService) Delete(ctx context.Context, id int64) error {
	const op = "service.OfferService.Delete"
	logger := s.log.With(slog.String("op", op), slog.Int64("offerID", id))

	if err := s.offerRepo.DeleteOffer(ctx, id); err != nil {
		if errors.Is(err, storage.ErrOfferNotFound) {
			return fmt.Errorf("%s: %w", op, err)
		}
		logger.Error("failed to delete offer", slog.Any("error", err))
		return fmt.Errorf("%s: failed to delete offer: %w", op, err)
	}
	logger.Info("offer deleted")
	return nil
}
