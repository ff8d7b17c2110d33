package storage

import (
	"context"
	"database/sql"
	"time"
)

// SalesSummary — агрегаты по заказам за период
type SalesSummary struct {
	TotalSales           float64 `json:"totalSales"`
	TotalOrders          int     `json:"totalOrders"`
	AverageOrderValue    float64 `json:"averageOrderValue"`
	TotalDeliveryCharges float64 `json:"totalDeliveryCharges"`
}

// TopProduct — продажи одной позиции каталога за период
type TopProduct struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// DailySales — продажи за один день периода
type DailySales struct {
	Day    time.Time `json:"day"`
	Orders int       `json:"orders"`
	Total  float64   `json:"total"`
}

// SalesStorage описывает агрегатные выборки для отчёта по продажам.
type SalesStorage interface {
	Summary(ctx context.Context, from, to time.Time) (*SalesSummary, error)
	StatusCounts(ctx context.Context, from, to time.Time) (map[string]int, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProduct, error)
	DailyBreakdown(ctx context.Context, from, to time.Time) ([]DailySales, error)
}

type salesRepository struct {
	db *sql.DB
}

func NewSalesRepository(db *sql.DB) SalesStorage {
	return &salesRepository{db: db}
}

func (r *salesRepository) Summary(ctx context.Context, from, to time.Time) (*SalesSummary, error) {
	summary := &SalesSummary{}
	query := `SELECT COALESCE(SUM(total_amount), 0), COUNT(*),
	          COALESCE(AVG(total_amount), 0), COALESCE(SUM(delivery_charge), 0)
	          FROM orders WHERE created_at >= $1 AND created_at < $2`
	row := r.db.QueryRowContext(ctx, query, from, to)
	if err := row.Scan(&summary.TotalSales, &summary.TotalOrders, &summary.AverageOrderValue, &summary.TotalDeliveryCharges); err != nil {
		return nil, err
	}
	return summary, nil
}

func (r *salesRepository) StatusCounts(ctx context.Context, from, to time.Time) (map[string]int, error) {
	query := `SELECT order_status, COUNT(*) FROM orders
	          WHERE created_at >= $1 AND created_at < $2 GROUP BY order_status`
	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *salesRepository) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProduct, error) {
	query := `SELECT i.name, SUM(i.quantity), SUM(i.price * i.quantity)
	          FROM order_items i
	          JOIN orders o ON o.id = i.order_id
	          WHERE o.created_at >= $1 AND o.created_at < $2
	          GROUP BY i.name ORDER BY SUM(i.quantity) DESC LIMIT $3`
	rows, err := r.db.QueryContext(ctx, query, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var top []TopProduct
	for rows.Next() {
		var p TopProduct
		if err := rows.Scan(&p.Name, &p.Quantity, &p.Revenue); err != nil {
			return nil, err
		}
		top = append(top, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return top, nil
}

func (r *salesRepository) DailyBreakdown(ctx context.Context, from, to time.Time) ([]DailySales, error) {
	query := `SELECT date_trunc('day', created_at) AS day, COUNT(*), COALESCE(SUM(total_amount), 0)
	          FROM orders WHERE created_at >= $1 AND created_at < $2
	          GROUP BY day ORDER BY day`
	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var breakdown []DailySales
	for rows.Next() {
		var d DailySales
		if err := rows.Scan(&d.Day, &d.Orders, &d.Total); err != nil {
			return nil, err
		}
		breakdown = append(breakdown, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return breakdown, nil
}
