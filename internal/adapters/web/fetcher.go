package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/devbush/daybrief/internal/domain"
	"github.com/devbush/daybrief/internal/logger"
	"github.com/devbush/daybrief/internal/ports"
)

// UserAgent is sent with every request.
const UserAgent = "daybrief/0.1"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 15 * time.Second

// maxBody caps how much of a response is read.
const maxBody = 32 << 20

// Fetcher implements ports.PageFetcher over net/http
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// NewFetcher creates a fetcher with the default timeout
func NewFetcher() *Fetcher {
	return NewFetcherClient(http.DefaultClient, DefaultTimeout)
}

// NewFetcherClient creates a fetcher on a custom client
func NewFetcherClient(client *http.Client, timeout time.Duration) *Fetcher {
	return &Fetcher{client: client, timeout: timeout}
}

// Fetch GETs url and returns the body. Non-2xx responses and empty bodies
// are errors.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch %s: HTTP %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%s: %w", url, domain.ErrEmptyResponse)
	}

	logger.Debug("fetched", "url", url, "bytes", len(body), "duration", time.Since(start))
	return body, nil
}

var _ ports.PageFetcher = (*Fetcher)(nil)
