package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ampizza/pizza-shop/internal/domain/models"
	"github.com/ampizza/pizza-shop/internal/jwt-new/jwtmiddleware"
	"github.com/ampizza/pizza-shop/internal/service"
)

// ReviewRequest — тело нового отзыва
type ReviewRequest struct {
	Name    string `json:"name" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}

// ListReviewsHandler обрабатывает GET /api/reviews
func ListReviewsHandler(log *slog.Logger, reviewService service.ReviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListReviewsHandler"
		logger := log.With(slog.String("op", op))

		reviews, err := reviewService.List(r.Context())
		if err != nil {
			logger.Error("failed to list reviews", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "failed to fetch reviews")
			return
		}
		writeJSON(w, logger, http.StatusOK, reviews)
	}
}

// CreateReviewHandler обрабатывает POST /api/reviews
func CreateReviewHandler(log *slog.Logger, reviewService service.ReviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateReviewHandler"
		logger := log.With(slog.String("op", op))

		var req ReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, logger, http.StatusBadRequest, "validation error")
			return
		}

		review := &models.Review{
			Name:    req.Name,
			Rating:  req.Rating,
			Comment: req.Comment,
		}
		if userID, ok := jwtmiddleware.FromContext(r.Context()); ok {
			review.UserID = &userID
		}

		created, err := reviewService.Create(r.Context(), review)
		if err != nil {
			logger.Error("failed to create review", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "failed to create review")
			return
		}
		writeJSON(w, logger, http.StatusCreated, created)
	}
}
