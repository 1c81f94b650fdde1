package application

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/devbush/daybrief/internal/domain"
	"github.com/devbush/daybrief/internal/ports"
)

// WeatherService loads the forecast for one location through the cache.
type WeatherService struct {
	cache  *CacheService
	client ports.WeatherClient
	lat    float64
	lon    float64
	ttl    time.Duration
}

// NewWeatherService creates a weather service for lat, lon
func NewWeatherService(cache *CacheService, client ports.WeatherClient, lat, lon float64, ttl time.Duration) *WeatherService {
	return &WeatherService{cache: cache, client: client, lat: lat, lon: lon, ttl: ttl}
}

// WeatherKey returns the cache key for a location.
func WeatherKey(lat, lon float64) string {
	return fmt.Sprintf("weather:open-meteo:%s,%s",
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lon, 'f', -1, 64))
}

// Forecast returns the hourly forecast.
func (s *WeatherService) Forecast(ctx context.Context) (*domain.Forecast, error) {
	return Cached(ctx, s.cache, WeatherKey(s.lat, s.lon), s.ttl, func(ctx context.Context) (*domain.Forecast, error) {
		return s.client.Forecast(ctx, s.lat, s.lon)
	})
}
