package geo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ampizza/pizza-shop/internal/geo"
	"github.com/stretchr/testify/assert"
)

func TestHTTPResolver_Resolve_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "123 Main Street, Springfield", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat": "40.7500", "lon": "-73.9900"}]`))
	}))
	defer server.Close()

	resolver := geo.NewHTTPResolver(server.URL, 2*time.Second)
	point, err := resolver.Resolve(context.Background(), "123 Main Street, Springfield")
	assert.NoError(t, err)
	assert.InDelta(t, 40.75, point.Lat, 0.0001)
	assert.InDelta(t, -73.99, point.Lon, 0.0001)
}

func TestHTTPResolver_Resolve_NoMatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	resolver := geo.NewHTTPResolver(server.URL, 2*time.Second)
	_, err := resolver.Resolve(context.Background(), "nowhere at all")
	assert.ErrorIs(t, err, geo.ErrResolutionFailed)
}

func TestHTTPResolver_Resolve_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	resolver := geo.NewHTTPResolver(server.URL, 2*time.Second)
	_, err := resolver.Resolve(context.Background(), "123 Main Street")
	assert.ErrorIs(t, err, geo.ErrResolutionFailed)
}

func TestHTTPResolver_Resolve_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	// Таймаут клиента меньше задержки сервера — запрос должен оборваться
	resolver := geo.NewHTTPResolver(server.URL, 50*time.Millisecond)
	_, err := resolver.Resolve(context.Background(), "123 Main Street")
	assert.ErrorIs(t, err, geo.ErrResolutionFailed)
}

func TestDistanceKm(t *testing.T) {
	// Нью-Йорк — Филадельфия, около 130 км
	nyc := geo.Point{Lat: 40.7128, Lon: -74.0060}
	philly := geo.Point{Lat: 39.9526, Lon: -75.1652}
	d := geo.DistanceKm(nyc, philly)
	assert.InDelta(t, 130, d, 5)

	// Нулевое расстояние до самой себя
	assert.InDelta(t, 0, geo.DistanceKm(nyc, nyc), 0.0001)
}
