package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrResolutionFailed — адрес не удалось разрешить: геокодер недоступен,
// ответил ошибкой или не нашёл совпадений.
var ErrResolutionFailed = errors.New("address resolution failed")

// Point — координаты в градусах
type Point struct {
	Lat float64
	Lon float64
}

// Resolver переводит произвольный адрес в координаты.
type Resolver interface {
	Resolve(ctx context.Context, address string) (Point, error)
}

// HTTPResolver — клиент к внешнему геокодеру (формат ответа как у Nominatim:
// JSON-массив совпадений с полями lat/lon). Все запросы ограничены таймаутом клиента.
type HTTPResolver struct {
	Client  *http.Client
	BaseURL string
}

// NewHTTPResolver создаёт резолвер с заданным базовым URL и таймаутом запроса
func NewHTTPResolver(baseURL string, timeout time.Duration) *HTTPResolver {
	return &HTTPResolver{
		Client:  &http.Client{Timeout: timeout},
		BaseURL: baseURL,
	}
}

type geocodeMatch struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (r *HTTPResolver) Resolve(ctx context.Context, address string) (Point, error) {
	reqURL := fmt.Sprintf("%s?format=json&limit=1&q=%s", r.BaseURL, url.QueryEscape(address))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Point{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return Point{}, fmt.Errorf("%w: %v", ErrResolutionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Point{}, fmt.Errorf("%w: unexpected status %d", ErrResolutionFailed, resp.StatusCode)
	}

	var matches []geocodeMatch
	if err := json.NewDecoder(resp.Body).Decode(&matches); err != nil {
		return Point{}, fmt.Errorf("%w: decode body: %v", ErrResolutionFailed, err)
	}
	if len(matches) == 0 {
		return Point{}, fmt.Errorf("%w: no matches for address", ErrResolutionFailed)
	}

	lat, err := strconv.ParseFloat(matches[0].Lat, 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: bad latitude: %v", ErrResolutionFailed, err)
	}
	lon, err := strconv.ParseFloat(matches[0].Lon, 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: bad longitude: %v", ErrResolutionFailed, err)
	}
	return Point{Lat: lat, Lon: lon}, nil
}

const earthRadiusKm = 6371.0

// DistanceKm возвращает расстояние между точками по формуле гаверсинусов
func DistanceKm(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
