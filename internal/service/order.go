package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ampizza/pizza-shop/internal/domain/models"
	"github.com/ampizza/pizza-shop/internal/realtime"
	"github.com/ampizza/pizza-shop/internal/storage"
	"github.com/google/uuid"
)

var (
	// ErrInvalidStatus — целевой статус не входит в пять распознаваемых значений
	ErrInvalidStatus = errors.New("unrecognized order status")
	// ErrOrderCompleted — заказ в терминальном статусе, переходы запрещены
	ErrOrderCompleted = errors.New("order already delivered")
	// ErrNotPickupOrder — уведомление о готовности применимо только к самовывозу
	ErrNotPickupOrder = errors.New("order is not a pickup order")
	// ErrAddressRequired — для доставки обязателен адрес
	ErrAddressRequired = errors.New("delivery address is required")
	// ErrInvalidDeliveryType — тип получения не pickup и не delivery
	ErrInvalidDeliveryType = errors.New("invalid delivery type")
	// ErrEmptyOrder — заказ без позиций не принимается
	ErrEmptyOrder = errors.New("order has no items")
)

// CreateOrderInput — данные чекаута. Позиции несут только идентификатор и
// количество: имена и цены снапшотятся из каталога на сервере.
type CreateOrderInput struct {
	UserID        *int64
	CustomerName  string
	CustomerEmail string
	Items         []CreateOrderItem
	DeliveryType  string
	Address       string
	PaymentMethod string
}

type CreateOrderItem struct {
	ProductID int64
	Quantity  int
}

// StatusUpdatePayload — полезная нагрузка orderStatusUpdate: всегда полный
// снапшот заказа, чтобы клиенту не приходилось различать частичные обновления.
// Список шагов прикладывается, чтобы клиент вычислял индекс прогресса по тем же
// данным, что и страница отслеживания.
type StatusUpdatePayload struct {
	OrderID     string        `json:"orderId"`
	Status      string        `json:"status"`
	StatusSteps []string      `json:"statusSteps"`
	Order       *models.Order `json:"order"`
}

// PickupReadyPayload — полезная нагрузка pickupReady для персональной комнаты клиента
type PickupReadyPayload struct {
	OrderID     string        `json:"orderId"`
	OrderNumber string        `json:"orderNumber"`
	Order       *models.Order `json:"order"`
}

// OrderService определяет операции над заказами.
type OrderService interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error)
	MarkPickupReady(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

type orderService struct {
	log         *slog.Logger
	db          *sql.DB
	orderRepo   storage.OrderStorage
	productRepo storage.ProductStorage
	deliverySvc DeliveryService
	broadcaster realtime.Broadcaster
}

func NewOrderService(log *slog.Logger, db *sql.DB, orderRepo storage.OrderStorage,
	productRepo storage.ProductStorage, deliverySvc DeliveryService, broadcaster realtime.Broadcaster) OrderService {
	return &orderService{
		log:         log,
		db:          db,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		deliverySvc: deliverySvc,
		broadcaster: broadcaster,
	}
}

// Create оформляет заказ: снапшот позиций из каталога, серверный пересчёт
// доставки, фиксация итоговой суммы, вставка в транзакции и событие newOrder
// в комнату администраторов.
func (s *orderService) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	const op = "service.OrderService.Create"
	logger := s.log.With(slog.String("op", op))
	logger.Info("creating order", slog.String("deliveryType", input.DeliveryType))

	if input.DeliveryType != models.DeliveryTypePickup && input.DeliveryType != models.DeliveryTypeDelivery {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidDeliveryType)
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyOrder)
	}
	if input.DeliveryType == models.DeliveryTypeDelivery && input.Address == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrAddressRequired)
	}

	// Снапшот имён и цен из каталога: клиентским ценам не доверяем
	ids := make([]int64, 0, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%s: %w", op, ErrEmptyOrder)
		}
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.GetProductsByIDs(ctx, ids)
	if err != nil {
		logger.Error("failed to load products", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to load products: %w", op, err)
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("%s: product %d: %w", op, item.ProductID, storage.ErrProductNotFound)
		}
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  item.Quantity,
		})
	}

	// Серверный пересчёт доставки; самовывоз всегда с нулевыми расстоянием и стоимостью
	quote := &Quote{}
	if input.DeliveryType == models.DeliveryTypeDelivery {
		quote, err = s.deliverySvc.Quote(ctx, input.Address)
		if err != nil {
			logger.Error("failed to quote delivery", slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to quote delivery: %w", op, err)
		}
	}

	paymentStatus := models.PaymentPending
	if input.PaymentMethod == "card" {
		paymentStatus = models.PaymentPaid
	}

	order := &models.Order{
		ID:             uuid.New(),
		UserID:         input.UserID,
		CustomerName:   input.CustomerName,
		CustomerEmail:  input.CustomerEmail,
		Items:          items,
		DeliveryType:   input.DeliveryType,
		Distance:       quote.Distance,
		DeliveryCharge: quote.DeliveryCharge,
		OrderStatus:    models.StatusPending,
		PaymentStatus:  paymentStatus,
		PaymentMethod:  input.PaymentMethod,
	}
	if input.DeliveryType == models.DeliveryTypeDelivery {
		order.Address = input.Address
	}
	order.OrderNumber = models.ShortNumber(order.ID)
	order.TotalAmount = order.Subtotal() + order.DeliveryCharge

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	if err := s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to create order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create order: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	s.broadcaster.BroadcastToAdmins(realtime.EventNewOrder, order)

	logger.Info("order created",
		slog.String("orderID", order.ID.String()),
		slog.Float64("total", order.TotalAmount))
	return order, nil
}

func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	const op = "service.OrderService.GetByID"

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		s.log.Error("failed to get order", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get order: %w", op, err)
	}
	return order, nil
}

func (s *orderService) List(ctx context.Context) ([]*models.Order, error) {
	const op = "service.OrderService.List"

	orders, err := s.orderRepo.ListOrders(ctx)
	if err != nil {
		s.log.Error("failed to list orders", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list orders: %w", op, err)
	}
	return orders, nil
}

// UpdateStatus переводит заказ в целевой статус и рассылает orderStatusUpdate
// в комнату заказа. Переходы намеренно свободные: администратор может
// пропускать и откатывать шаги; запрещён только выход из Delivered.
// Повторный перевод в тот же статус проходит и рассылается заново.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error) {
	const op = "service.OrderService.UpdateStatus"
	logger := s.log.With(slog.String("op", op), slog.String("orderID", id.String()), slog.String("status", status))

	if !models.ValidStatus(status) {
		logger.Warn("unrecognized status")
		return nil, fmt.Errorf("%s: %q: %w", op, status, ErrInvalidStatus)
	}

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			logger.Warn("order not found")
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		logger.Error("failed to get order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get order: %w", op, err)
	}

	if !models.CanTransition(order.OrderStatus, status) {
		logger.Warn("transition rejected", slog.String("from", order.OrderStatus))
		return nil, fmt.Errorf("%s: %w", op, ErrOrderCompleted)
	}

	// Ошибка записи обязана дойти до вызывающего: молчаливый успех недопустим
	if err := s.orderRepo.UpdateOrderStatus(ctx, id, status); err != nil {
		logger.Error("failed to update status", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to update status: %w", op, err)
	}
	order.OrderStatus = status

	s.broadcaster.BroadcastToOrder(order.ID, realtime.EventOrderStatusUpdate, StatusUpdatePayload{
		OrderID:     order.ID.String(),
		Status:      status,
		StatusSteps: models.StatusSteps(order.DeliveryType),
		Order:       order,
	})

	logger.Info("order status updated")
	return order, nil
}

// MarkPickupReady — составная операция для самовывоза: переводит заказ в
// "Ready for Pickup" и дополнительно шлёт pickupReady в персональную комнату
// клиента (отдельное событие для тоста, не для таймлайна отслеживания).
func (s *orderService) MarkPickupReady(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	const op = "service.OrderService.MarkPickupReady"
	logger := s.log.With(slog.String("op", op), slog.String("orderID", id.String()))

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			logger.Warn("order not found")
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		logger.Error("failed to get order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get order: %w", op, err)
	}

	if order.DeliveryType != models.DeliveryTypePickup {
		logger.Warn("not a pickup order")
		return nil, fmt.Errorf("%s: %w", op, ErrNotPickupOrder)
	}
	if !models.CanTransition(order.OrderStatus, models.StatusReadyForPickup) {
		logger.Warn("transition rejected", slog.String("from", order.OrderStatus))
		return nil, fmt.Errorf("%s: %w", op, ErrOrderCompleted)
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, id, models.StatusReadyForPickup); err != nil {
		logger.Error("failed to update status", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to update status: %w", op, err)
	}
	order.OrderStatus = models.StatusReadyForPickup

	s.broadcaster.BroadcastToOrder(order.ID, realtime.EventOrderStatusUpdate, StatusUpdatePayload{
		OrderID:     order.ID.String(),
		Status:      order.OrderStatus,
		StatusSteps: models.StatusSteps(order.DeliveryType),
		Order:       order,
	})
	if order.UserID != nil {
		s.broadcaster.BroadcastToUser(*order.UserID, realtime.EventPickupReady, PickupReadyPayload{
			OrderID:     order.ID.String(),
			OrderNumber: order.OrderNumber,
			Order:       order,
		})
	}

	logger.Info("pickup order marked ready")
	return order, nil
}
