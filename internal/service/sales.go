package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ampizza/pizza-shop/internal/domain/models"
	"github.com/ampizza/pizza-shop/internal/storage"
)

// ErrInvalidPeriod — период отчёта не входит в поддерживаемый набор
var ErrInvalidPeriod = errors.New("invalid report period")

// сколько позиций показывать в топе продаж
const topProductsLimit = 5

// Report — отчёт по продажам за период
type Report struct {
	Period      string               `json:"period"`
	StartDate   time.Time            `json:"startDate"`
	EndDate     time.Time            `json:"endDate"`
	Summary     ReportSummary        `json:"summary"`
	TopProducts []storage.TopProduct `json:"topProducts"`
	DailySales  []storage.DailySales `json:"dailySales"`
}

// ReportSummary — сводка отчёта; счётчики статусов всегда содержат все пять значений
type ReportSummary struct {
	storage.SalesSummary
	StatusCounts map[string]int `json:"statusCounts"`
}

// Stats — быстрые показатели для шапки панели администратора
type Stats struct {
	Today float64 `json:"today"`
	Week  float64 `json:"week"`
	Month float64 `json:"month"`
}

// SalesService определяет отчётность по продажам.
type SalesService interface {
	Report(ctx context.Context, period string) (*Report, error)
	Stats(ctx context.Context) (*Stats, error)
}

type salesService struct {
	log       *slog.Logger
	salesRepo storage.SalesStorage
}

func NewSalesService(log *slog.Logger, salesRepo storage.SalesStorage) SalesService {
	return &salesService{
		log:       log,
		salesRepo: salesRepo,
	}
}

// periodRange возвращает границы периода, конец — текущий момент
func periodRange(period string, now time.Time) (time.Time, time.Time, error) {
	switch period {
	case "daily":
		return now.AddDate(0, 0, -1), now, nil
	case "weekly":
		return now.AddDate(0, 0, -7), now, nil
	case "monthly":
		return now.AddDate(0, -1, 0), now, nil
	case "yearly":
		return now.AddDate(-1, 0, 0), now, nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("%q: %w", period, ErrInvalidPeriod)
}

func (s *salesService) Report(ctx context.Context, period string) (*Report, error) {
	const op = "service.SalesService.Report"
	logger := s.log.With(slog.String("op", op), slog.String("period", period))

	from, to, err := periodRange(period, time.Now())
	if err != nil {
		logger.Warn("invalid period")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	summary, err := s.salesRepo.Summary(ctx, from, to)
	if err != nil {
		logger.Error("failed to get summary", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get summary: %w", op, err)
	}

	counts, err := s.salesRepo.StatusCounts(ctx, from, to)
	if err != nil {
		logger.Error("failed to get status counts", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get status counts: %w", op, err)
	}
	// Недостающие статусы должны присутствовать с нулём, чтобы клиент не проверял наличие ключей
	for _, status := range []string{models.StatusPending, models.StatusPreparing,
		models.StatusReadyForPickup, models.StatusOutForDelivery, models.StatusDelivered} {
		if _, ok := counts[status]; !ok {
			counts[status] = 0
		}
	}

	top, err := s.salesRepo.TopProducts(ctx, from, to, topProductsLimit)
	if err != nil {
		logger.Error("failed to get top products", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get top products: %w", op, err)
	}

	daily, err := s.salesRepo.DailyBreakdown(ctx, from, to)
	if err != nil {
		logger.Error("failed to get daily breakdown", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get daily breakdown: %w", op, err)
	}

	logger.Info("report built", slog.Int("orders", summary.TotalOrders))
	return &Report{
		Period:      period,
		StartDate:   from,
		EndDate:     to,
		Summary:     ReportSummary{SalesSummary: *summary, StatusCounts: counts},
		TopProducts: top,
		DailySales:  daily,
	}, nil
}

func (s *salesService) Stats(ctx context.Context) (*Stats, error) {
	const op = "service.SalesService.Stats"
	logger := s.log.With(slog.String("op", op))

	now := time.Now()
	stats := &Stats{}

	for _, window := range []struct {
		from time.Time
		dst  *float64
	}{
		{now.AddDate(0, 0, -1), &stats.Today},
		{now.AddDate(0, 0, -7), &stats.Week},
		{now.AddDate(0, -1, 0), &stats.Month},
	} {
		summary, err := s.salesRepo.Summary(ctx, window.from, now)
		if err != nil {
			logger.Error("failed to get summary", slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to get summary: %w", op, err)
		}
		*window.dst = summary.TotalSales
	}
	return stats, nil
}
