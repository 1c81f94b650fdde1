package ports

import (
	"context"

	"github.com/devbush/daybrief/internal/domain"
)

// PageFetcher retrieves raw bytes over HTTP.
type PageFetcher interface {
	// Fetch returns the response body, or an error for network failures,
	// non-2xx statuses and empty bodies.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FeedParser turns raw feed bytes into a normalized section.
type FeedParser interface {
	Parse(ctx context.Context, feedURL string, body []byte) (*domain.FeedSection, error)
}

// ComicExtractor structures a webcomic page.
type ComicExtractor interface {
	// Extract reads the page HTML and returns panels and text.
	Extract(ctx context.Context, pageURL string, html []byte) (*domain.ComicExtraction, error)
}

// WeatherClient fetches an hourly forecast.
type WeatherClient interface {
	Forecast(ctx context.Context, lat, lon float64) (*domain.Forecast, error)
}

// ImageConverter normalizes downloaded image bytes to PNG on disk.
type ImageConverter interface {
	// ToPNG writes data as a PNG under dir and returns the file path and pixel size.
	ToPNG(data []byte, dir string) (path string, width, height int, err error)

	// Size returns the pixel size of an existing PNG.
	Size(path string) (width, height int, err error)
}
