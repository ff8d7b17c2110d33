package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ampizza/pizza-shop/internal/config"
	"github.com/ampizza/pizza-shop/internal/geo"
)

// адреса короче этого порога считаются неполными: расчёт пропускается
const minAddressLen = 10

// Quote — расчёт доставки для адреса-кандидата. Живёт до следующего
// пересчёта и нигде не хранится отдельно от заказа, в который попадает.
type Quote struct {
	Distance       float64 `json:"distance"`       // км
	DeliveryCharge float64 `json:"deliveryCharge"` // валюта магазина
}

// DeliveryService рассчитывает расстояние и стоимость доставки по адресу.
type DeliveryService interface {
	Quote(ctx context.Context, address string) (*Quote, error)
}

type deliveryService struct {
	log      *slog.Logger
	resolver geo.Resolver
	cfg      config.DeliveryConfig
}

func NewDeliveryService(log *slog.Logger, resolver geo.Resolver, cfg config.DeliveryConfig) DeliveryService {
	return &deliveryService{
		log:      log,
		resolver: resolver,
		cfg:      cfg,
	}
}

// Quote переводит адрес в расстояние от пиццерии и стоимость по тарифной
// сетке: до порога — ближний тариф, дальше — дальний. Неполный адрес даёт
// нулевой расчёт без обращения к геокодеру. При недоступном геокодере
// поведение задаётся конфигурацией: fail-open возвращает нулевой расчёт,
// иначе ошибка доходит до вызывающего и блокирует чекаут.
func (s *deliveryService) Quote(ctx context.Context, address string) (*Quote, error) {
	const op = "service.DeliveryService.Quote"
	logger := s.log.With(slog.String("op", op))

	if len(strings.TrimSpace(address)) <= minAddressLen {
		logger.Debug("address too short, skipping calculation")
		return &Quote{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.GeocoderTimeout)
	defer cancel()

	point, err := s.resolver.Resolve(ctx, address)
	if err != nil {
		if errors.Is(err, geo.ErrResolutionFailed) && s.cfg.FailOpen {
			logger.Warn("address resolution failed, falling back to zero charge", slog.Any("error", err))
			return &Quote{}, nil
		}
		logger.Error("address resolution failed", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	store := geo.Point{Lat: s.cfg.StoreLat, Lon: s.cfg.StoreLon}
	distance := geo.DistanceKm(store, point)

	charge := s.cfg.NearCharge
	if distance > s.cfg.NearThresholdKm {
		charge = s.cfg.FarCharge
	}

	logger.Info("delivery quote calculated",
		slog.Float64("distance", distance), slog.Float64("charge", charge))
	return &Quote{Distance: distance, DeliveryCharge: charge}, nil
}
