package storage_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ampizza/pizza-shop/internal/domain/models"
	"github.com/ampizza/pizza-shop/internal/storage"
)

func TestUpdateOrderStatus_Success(t *testing.T) {
	// Создаем sqlmock для эмуляции базы данных.
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)
	ctx := context.Background()
	orderID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET order_status = $1 WHERE id = $2")).
		WithArgs(models.StatusPreparing, orderID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.UpdateOrderStatus(ctx, orderID, models.StatusPreparing)
	assert.NoError(t, err, "Expected no error when one row is updated")

	// Проверяем, что все ожидания sqlmock выполнены.
	err = mock.ExpectationsWereMet()
	assert.NoError(t, err)
}

func TestUpdateOrderStatus_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)
	ctx := context.Background()
	orderID := uuid.New()

	// Эмулируем ситуацию, когда ни одна строка не затронута.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET order_status = $1 WHERE id = $2")).
		WithArgs(models.StatusPreparing, orderID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateOrderStatus(ctx, orderID, models.StatusPreparing)
	assert.ErrorIs(t, err, storage.ErrOrderNotFound, "Zero affected rows should map to ErrOrderNotFound")

	err = mock.ExpectationsWereMet()
	assert.NoError(t, err)
}

func TestGetOrderByID_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)
	ctx := context.Background()
	orderID := uuid.New()
	createdAt := time.Now()

	orderRows := sqlmock.NewRows([]string{
		"id", "user_id", "customer_name", "customer_email", "delivery_type", "address",
		"distance", "delivery_charge", "total_amount", "order_status", "payment_status", "payment_method", "created_at",
	}).AddRow(orderID, nil, "Mario Rossi", "mario@example.com", models.DeliveryTypeDelivery,
		"742 Evergreen Terrace", 4.2, 2.00, 23.50, models.StatusPending, models.PaymentPaid, "card", createdAt)

	mock.ExpectQuery("SELECT id, user_id, customer_name, customer_email, delivery_type, address").
		WithArgs(orderID).WillReturnRows(orderRows)

	itemRows := sqlmock.NewRows([]string{"order_id", "product_id", "name", "price", "quantity"}).
		AddRow(orderID, int64(1), "Margherita", 10.75, 2)
	mock.ExpectQuery("SELECT order_id, product_id, name, price, quantity").
		WillReturnRows(itemRows)

	order, err := repo.GetOrderByID(ctx, orderID)
	assert.NoError(t, err, "Expected no error when order is found")
	assert.Equal(t, orderID, order.ID)
	assert.Equal(t, models.ShortNumber(orderID), order.OrderNumber, "Order number should be derived from the id")
	assert.Equal(t, "742 Evergreen Terrace", order.Address)
	assert.Nil(t, order.UserID, "Guest order has no user")
	assert.Len(t, order.Items, 1)
	assert.Equal(t, "Margherita", order.Items[0].Name)

	err = mock.ExpectationsWereMet()
	assert.NoError(t, err)
}

func TestGetOrderByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)
	ctx := context.Background()
	orderID := uuid.New()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "customer_name", "customer_email", "delivery_type", "address",
		"distance", "delivery_charge", "total_amount", "order_status", "payment_status", "payment_method", "created_at",
	})
	mock.ExpectQuery("SELECT id, user_id, customer_name, customer_email, delivery_type, address").
		WithArgs(orderID).WillReturnRows(rows)

	_, err = repo.GetOrderByID(ctx, orderID)
	assert.ErrorIs(t, err, storage.ErrOrderNotFound)

	err = mock.ExpectationsWereMet()
	assert.NoError(t, err)
}

func TestCreateOrder_InsertsOrderAndItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)
	ctx := context.Background()

	order := &models.Order{
		ID:            uuid.New(),
		CustomerName:  "Mario Rossi",
		CustomerEmail: "mario@example.com",
		DeliveryType:  models.DeliveryTypePickup,
		TotalAmount:   21.50,
		OrderStatus:   models.StatusPending,
		PaymentStatus: models.PaymentPending,
		PaymentMethod: "cash",
		Items: []models.OrderItem{
			{ProductID: 1, Name: "Margherita", Price: 10.75, Quantity: 2},
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(order.ID, int64(1), "Margherita", 10.75, 2).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTx(ctx, nil)
	assert.NoError(t, err)

	err = repo.CreateOrder(ctx, tx, order)
	assert.NoError(t, err, "Expected no error when order and items insert cleanly")
	assert.False(t, order.CreatedAt.IsZero(), "CreatedAt should be filled from RETURNING")

	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProductsByIDs_ReturnsMap(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "name", "description", "category", "price", "image_url", "image_id", "featured", "created_at"}).
		AddRow(int64(1), "Margherita", "Tomato and mozzarella", "pizza", 10.75, "", "", false, time.Now()).
		AddRow(int64(2), "Pepperoni", "Spicy salami", "pizza", 12.50, "", "", true, time.Now())

	mock.ExpectQuery("SELECT id, name, description, category, price, image_url, image_id, featured, created_at").
		WillReturnRows(rows)

	products, err := repo.GetProductsByIDs(ctx, []int64{1, 2})
	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, "Pepperoni", products[2].Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}
