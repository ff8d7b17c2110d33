package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ampizza/pizza-shop/internal/domain/models"
	"github.com/ampizza/pizza-shop/internal/jwt-new/jwtmiddleware"
	"github.com/ampizza/pizza-shop/internal/service"
	"github.com/ampizza/pizza-shop/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CreateOrderRequest — запрос чекаута; цены клиент не передаёт,
// они снапшотятся из каталога на сервере
type CreateOrderRequest struct {
	CustomerName  string                   `json:"customerName" validate:"required"`
	CustomerEmail string                   `json:"customerEmail" validate:"required,email"`
	Items         []CreateOrderItemRequest `json:"items" validate:"required,min=1,dive"`
	DeliveryType  string                   `json:"deliveryType" validate:"required,oneof=pickup delivery"`
	Address       string                   `json:"address"`
	PaymentMethod string                   `json:"paymentMethod" validate:"required,oneof=card cash"`
}

type CreateOrderItemRequest struct {
	ProductID int64 `json:"productId" validate:"required"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

// UpdateStatusRequest — запрос смены статуса заказа
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderResponse — снапшот заказа вместе с упорядоченным списком шагов его
// типа получения: по нему клиент вычисляет индекс прогресса
type OrderResponse struct {
	*models.Order
	StatusSteps []string `json:"statusSteps"`
}

func newOrderResponse(order *models.Order) OrderResponse {
	return OrderResponse{
		Order:       order,
		StatusSteps: models.StatusSteps(order.DeliveryType),
	}
}

// CreateOrderHandler обрабатывает POST /api/orders
func CreateOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateOrderHandler"
		logger := log.With(slog.String("op", op))

		var req CreateOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "validation error")
			return
		}

		// Заказ можно оформить и без учётной записи; идентификатор
		// пользователя подставляется, если токен присутствовал
		input := service.CreateOrderInput{
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			DeliveryType:  req.DeliveryType,
			Address:       req.Address,
			PaymentMethod: req.PaymentMethod,
		}
		if userID, ok := jwtmiddleware.FromContext(r.Context()); ok {
			input.UserID = &userID
		}
		for _, item := range req.Items {
			input.Items = append(input.Items, service.CreateOrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}

		order, err := orderService.Create(r.Context(), input)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrAddressRequired),
				errors.Is(err, service.ErrInvalidDeliveryType),
				errors.Is(err, service.ErrEmptyOrder):
				writeError(w, logger, http.StatusBadRequest, err.Error())
			case errors.Is(err, storage.ErrProductNotFound):
				writeError(w, logger, http.StatusBadRequest, "unknown product in order")
			default:
				logger.Error("failed to create order", slog.Any("error", err))
				writeError(w, logger, http.StatusInternalServerError, "failed to create order")
			}
			return
		}

		writeJSON(w, logger, http.StatusCreated, newOrderResponse(order))
	}
}

// GetOrderHandler обрабатывает GET /api/orders/{id} — снапшот для страницы
// отслеживания и для сверки состояния после реконнекта
func GetOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetOrderHandler"
		logger := log.With(slog.String("op", op))

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid order id")
			return
		}

		order, err := orderService.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrOrderNotFound) {
				writeError(w, logger, http.StatusNotFound, "order not found")
				return
			}
			logger.Error("failed to get order", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, logger, http.StatusOK, newOrderResponse(order))
	}
}

// ListOrdersHandler обрабатывает GET /api/orders — список для панели администратора
func ListOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListOrdersHandler"
		logger := log.With(slog.String("op", op))

		orders, err := orderService.List(r.Context())
		if err != nil {
			logger.Error("failed to list orders", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, logger, http.StatusOK, orders)
	}
}

// UpdateOrderStatusHandler обрабатывает PUT /api/orders/{id}/status
func UpdateOrderStatusHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateOrderStatusHandler"
		logger := log.With(slog.String("op", op))

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid order id")
			return
		}

		var req UpdateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, logger, http.StatusBadRequest, "validation error")
			return
		}

		order, err := orderService.UpdateStatus(r.Context(), id, req.Status)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrOrderNotFound):
				writeError(w, logger, http.StatusNotFound, "order not found")
			case errors.Is(err, service.ErrInvalidStatus):
				writeError(w, logger, http.StatusBadRequest, "unrecognized order status")
			case errors.Is(err, service.ErrOrderCompleted):
				writeError(w, logger, http.StatusConflict, "order already delivered")
			default:
				logger.Error("failed to update status", slog.Any("error", err))
				writeError(w, logger, http.StatusInternalServerError, "failed to update order status")
			}
			return
		}

		writeJSON(w, logger, http.StatusOK, newOrderResponse(order))
	}
}

// MarkReadyHandler обрабатывает POST /api/orders/{id}/ready — составная
// операция "готов к выдаче" с отдельным уведомлением клиента
func MarkReadyHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.MarkReadyHandler"
		logger := log.With(slog.String("op", op))

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid order id")
			return
		}

		order, err := orderService.MarkPickupReady(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrOrderNotFound):
				writeError(w, logger, http.StatusNotFound, "order not found")
			case errors.Is(err, service.ErrNotPickupOrder):
				writeError(w, logger, http.StatusBadRequest, "order is not a pickup order")
			case errors.Is(err, service.ErrOrderCompleted):
				writeError(w, logger, http.StatusConflict, "order already delivered")
			default:
				logger.Error("failed to mark order ready", slog.Any("error", err))
				writeError(w, logger, http.StatusInternalServerError, "failed to mark order ready")
			}
			return
		}

		writeJSON(w, logger, http.StatusOK, newOrderResponse(order))
	}
}
