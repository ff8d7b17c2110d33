package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ampizza/pizza-shop/internal/service"
)

// SalesReportHandler обрабатывает GET /api/sales/report?period=weekly
func SalesReportHandler(log *slog.Logger, salesService service.SalesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SalesReportHandler"
		logger := log.With(slog.String("op", op))

		period := r.URL.Query().Get("period")
		if period == "" {
			period = "weekly"
		}

		report, err := salesService.Report(r.Context(), period)
		if err != nil {
			if errors.Is(err, service.ErrInvalidPeriod) {
				writeError(w, logger, http.StatusBadRequest, "invalid period")
				return
			}
			logger.Error("failed to build report", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "failed to build report")
			return
		}
		writeJSON(w, logger, http.StatusOK, report)
	}
}

// SalesStatsHandler обрабатывает GET /api/sales/stats — цифры для шапки панели
func SalesStatsHandler(log *slog.Logger, salesService service.SalesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SalesStatsHandler"
		logger := log.With(slog.String("op", op))

		stats, err := salesService.Stats(r.Context())
		if err != nil {
			logger.Error("failed to get stats", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "failed to get stats")
			return
		}
		writeJSON(w, logger, http.StatusOK, stats)
	}
}
