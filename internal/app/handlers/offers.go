package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ampizza/pizza-shop/internal/domain/models"
	"github.com/ampizza/pizza-shop/internal/service"
	"github.com/ampizza/pizza-shop/internal/storage"
)

// OfferRequest — тело создания/обновления акции
type OfferRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Discount    float64 `json:"discount" validate:"required,gt=0,lte=100"`
	ImageURL    string  `json:"image" validate:"omitempty,url"`
	ImageID     string  `json:"imageId"`
	Active      bool    `json:"active"`
}

// ListOffersHandler обрабатывает GET /api/offers — только действующие акции
func ListOffersHandler(log *slog.Logger, offerService service.OfferService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListOffersHandler"
		logger := log.With(slog.String("op", op))

		offers, err := offerService.List(r.Context())
		if err != nil {
			logger.Error("failed to list offers", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "failed to fetch offers")
			return
		}
		writeJSON(w, logger, http.StatusOK, offers)
	}
}

// ListAllOffersHandler обрабатывает GET /api/offers/all — все акции, включая выключенные
func ListAllOffersHandler(log *slog.Logger, offerService service.OfferService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListAllOffersHandler"
		logger := log.With(slog.String("op", op))

		offers, err := offerService.ListAll(r.Context())
		if err != nil {
			logger.Error("failed to list offers", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "failed to fetch offers")
			return
		}
		writeJSON(w, logger, http.StatusOK, offers)
	}
}

// GetOfferHandler обрабатывает GET /api/offers/{offerID}
func GetOfferHandler(log *slog.Logger, offerService service.OfferService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetOfferHandler"
		logger := log.With(slog.String("op", op))

		offerID, err := strconv.ParseInt(chi.URLParam(r, "offerID"), 10, 64)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid offer id")
			return
		}

		offer, err := offerService.GetByID(r.Context(), offerID)
		if err != nil {
			if errors.Is(err, storage.ErrOfferNotFound) {
				writeError(w, logger, http.StatusNotFound, "offer not found")
				return
			}
			logger.Error("failed to get offer", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "failed to fetch offer")
			return
		}
		writeJSON(w, logger, http.StatusOK, offer)
	}
}

// CreateOfferHandler обрабатывает POST /api/offers
func CreateOfferHandler(log *slog.Logger, offerService service.OfferService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateOfferHandler"
		logger := log.With(slog.String("op", op))

		var req OfferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, logger, http.StatusBadRequest, "validation error")
			return
		}

		created, err := offerService.Create(r.Context(), &models.Offer{
			Title:       req.Title,
			Description: req.Description,
			Discount:    req.Discount,
			ImageURL:    req.ImageURL,
			ImageID:     req.ImageID,
			Active:      req.Active,
		})
		if err != nil {
			logger.Error("failed to create offer", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "failed to create offer")
			return
		}
		writeJSON(w, logger, http.StatusCreated, created)
	}
}

// UpdateOfferHandler обрабатывает PUT /api/offers/{offerID}
func UpdateOfferHandler(log *slog.Logger, offerService service.OfferService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateOfferHandler"
		logger := log.With(slog.String("op", op))

		offerID, err := strconv.ParseInt(chi.URLParam(r, "offerID"), 10, 64)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid offer id")
			return
		}

		var req OfferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, logger, http.StatusBadRequest, "validation error")
			return
		}

		updated, err := offerService.Update(r.Context(), &models.Offer{
			ID:          offerID,
			Title:       req.Title,
			Description: req.Description,
			Discount:    req.Discount,
			ImageURL:    req.ImageURL,
			ImageID:     req.ImageID,
			Active:      req.Active,
		})
		if err != nil {
			if errors.Is(err, storage.ErrOfferNotFound) {
				writeError(w, logger, http.StatusNotFound, "offer not found")
				return
			}
			logger.Error("failed to update offer", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "failed to update offer")
			return
		}
		writeJSON(w, logger, http.StatusOK, updated)
	}
}

// DeleteOfferHandler обрабатывает DELETE /api/offers/{offerID}
func DeleteOfferHandler(log *slog.Logger, offerService service.OfferService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteOfferHandler"
		logger := log.With(slog.String("op", op))

		offerID, err := strconv.ParseInt(chi.URLParam(r, "offerID"), 10, 64)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid offer id")
			return
		}

		if err := offerService.Delete(r.Context(), offerID); err != nil {
			if errors.Is(err, storage.ErrOfferNotFound) {
				writeError(w, logger, http.StatusNotFound, "offer not found")
				return
			}
			logger.Error("failed to delete offer", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "failed to delete offer")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
