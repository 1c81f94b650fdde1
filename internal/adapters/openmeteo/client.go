package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/devbush/daybrief/internal/domain"
	"github.com/devbush/daybrief/internal/ports"
)

// DefaultEndpoint is the keyless Open-Meteo forecast API.
const DefaultEndpoint = "https://api.open-meteo.com/v1/forecast"

// MaxHours is the number of hourly points kept.
const MaxHours = 24

// Client implements ports.WeatherClient
type Client struct {
	fetcher  ports.PageFetcher
	endpoint string
}

// NewClient creates a client that fetches through fetcher
func NewClient(fetcher ports.PageFetcher) *Client {
	return &Client{fetcher: fetcher, endpoint: DefaultEndpoint}
}

// WithEndpoint overrides the API endpoint
func (c *Client) WithEndpoint(endpoint string) *Client {
	c.endpoint = endpoint
	return c
}

type forecastResponse struct {
	Hourly struct {
		Time          []string  `json:"time"`
		Temperature   []float64 `json:"temperature_2m"`
		Humidity      []float64 `json:"relative_humidity_2m"`
		Precipitation []float64 `json:"precipitation_probability"`
	} `json:"hourly"`
}

// Forecast returns up to MaxHours hourly points for today at lat, lon.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) (*domain.Forecast, error) {
	body, err := c.fetcher.Fetch(ctx, c.url(lat, lon))
	if err != nil {
		return nil, err
	}

	var resp forecastResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse forecast: %w", err)
	}

	h := resp.Hourly
	n := min(len(h.Time), len(h.Temperature), len(h.Humidity), len(h.Precipitation), MaxHours)

	f := &domain.Forecast{
		Latitude:  lat,
		Longitude: lon,
		Hours:     make([]domain.HourPoint, n),
	}
	for i := 0; i < n; i++ {
		f.Hours[i] = domain.HourPoint{
			Time:         h.Time[i],
			TemperatureC: h.Temperature[i],
			HumidityPct:  h.Humidity[i],
			PrecipPct:    h.Precipitation[i],
		}
	}
	return f, nil
}

func (c *Client) url(lat, lon float64) string {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', 5, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', 5, 64))
	q.Set("hourly", "temperature_2m,relative_humidity_2m,precipitation_probability")
	q.Set("forecast_days", "1")
	q.Set("timezone", "auto")
	return c.endpoint + "?" + q.Encode()
}

var _ ports.WeatherClient = (*Client)(nil)
