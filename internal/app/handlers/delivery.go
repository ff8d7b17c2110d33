package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ampizza/pizza-shop/internal/geo"
	"github.com/ampizza/pizza-shop/internal/service"
)

// CalculateDeliveryRequest — адрес-кандидат для расчёта доставки.
// Дебаунс ввода — обязанность клиента, сервер считает по каждому запросу.
type CalculateDeliveryRequest struct {
	Address string `json:"address" validate:"required"`
}

// CalculateDeliveryHandler обрабатывает POST /api/delivery/calculate
func CalculateDeliveryHandler(log *slog.Logger, deliveryService service.DeliveryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CalculateDeliveryHandler"
		logger := log.With(slog.String("op", op))

		var req CalculateDeliveryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, logger, http.StatusBadRequest, "validation error")
			return
		}

		quote, err := deliveryService.Quote(r.Context(), req.Address)
		if err != nil {
			// Сюда попадаем только при выключенном fail-open
			if errors.Is(err, geo.ErrResolutionFailed) {
				writeError(w, logger, http.StatusBadGateway, "unable to resolve address")
				return
			}
			logger.Error("failed to calculate delivery", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, logger, http.StatusOK, quote)
	}
}
