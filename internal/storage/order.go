package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ampizza/pizza-shop/internal/domain/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderStorage описывает методы для работы с заказами.
type OrderStorage interface {
	// CreateOrder вставляет заказ вместе с позициями с использованием транзакции.
	CreateOrder(ctx context.Context, tx *sql.Tx, order *models.Order) error
	// GetOrderByID возвращает заказ с позициями.
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// ListOrders возвращает все заказы для панели администратора, новые первыми.
	ListOrders(ctx context.Context) ([]*models.Order, error)
	// UpdateOrderStatus атомарно обновляет статус одной строки.
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) error
}

// orderRepository — конкретная реализация OrderStorage.
type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт новый репозиторий заказов.
func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

// CreateOrder вставляет заказ и его позиции в рамках переданной транзакции.
func (r *orderRepository) CreateOrder(ctx context.Context, tx *sql.Tx, order *models.Order) error {
	query := `INSERT INTO orders
	          (id, user_id, customer_name, customer_email, delivery_type, address,
	           distance, delivery_charge, total_amount, order_status, payment_status, payment_method, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
	          RETURNING created_at`
	err := tx.QueryRowContext(ctx, query,
		order.ID, order.UserID, order.CustomerName, order.CustomerEmail,
		order.DeliveryType, order.Address, order.Distance, order.DeliveryCharge,
		order.TotalAmount, order.OrderStatus, order.PaymentStatus, order.PaymentMethod,
	).Scan(&order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range order.Items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, name, price, quantity) VALUES ($1, $2, $3, $4, $5)`,
			order.ID, item.ProductID, item.Name, item.Price, item.Quantity)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}
	return nil
}

// GetOrderByID возвращает заказ по идентификатору вместе с позициями.
func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order := &models.Order{}
	query := `SELECT id, user_id, customer_name, customer_email, delivery_type, address,
	          distance, delivery_charge, total_amount, order_status, payment_status, payment_method, created_at
	          FROM orders WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)
	var address sql.NullString
	if err := row.Scan(&order.ID, &order.UserID, &order.CustomerName, &order.CustomerEmail,
		&order.DeliveryType, &address, &order.Distance, &order.DeliveryCharge,
		&order.TotalAmount, &order.OrderStatus, &order.PaymentStatus, &order.PaymentMethod, &order.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	order.Address = address.String
	order.OrderNumber = models.ShortNumber(order.ID)

	items, err := r.itemsByOrderIDs(ctx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]
	return order, nil
}

// ListOrders возвращает все заказы с позициями, новые первыми.
func (r *orderRepository) ListOrders(ctx context.Context) ([]*models.Order, error) {
	query := `SELECT id, user_id, customer_name, customer_email, delivery_type, address,
	          distance, delivery_charge, total_amount, order_status, payment_status, payment_method, created_at
	          FROM orders ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	var ids []uuid.UUID
	for rows.Next() {
		order := &models.Order{}
		var address sql.NullString
		if err := rows.Scan(&order.ID, &order.UserID, &order.CustomerName, &order.CustomerEmail,
			&order.DeliveryType, &address, &order.Distance, &order.DeliveryCharge,
			&order.TotalAmount, &order.OrderStatus, &order.PaymentStatus, &order.PaymentMethod, &order.CreatedAt); err != nil {
			return nil, err
		}
		order.Address = address.String
		order.OrderNumber = models.ShortNumber(order.ID)
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return orders, nil
	}
	itemsByOrder, err := r.itemsByOrderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, order := range orders {
		order.Items = itemsByOrder[order.ID]
	}
	return orders, nil
}

// UpdateOrderStatus обновляет статус одной строки; ноль затронутых строк означает,
// что заказа не существует.
func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE orders SET order_status = $1 WHERE id = $2", status, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// itemsByOrderIDs загружает позиции сразу для набора заказов одной выборкой
func (r *orderRepository) itemsByOrderIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]models.OrderItem, error) {
	idStrs := make([]string, len(ids))
	for i, id := range ids {
		idStrs[i] = id.String()
	}
	query := `SELECT order_id, product_id, name, price, quantity
	          FROM order_items WHERE order_id = ANY($1::uuid[]) ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(idStrs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]models.OrderItem)
	for rows.Next() {
		var orderID uuid.UUID
		var item models.OrderItem
		if err := rows.Scan(&orderID, &item.ProductID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, err
		}
		result[orderID] = append(result[orderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
