package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/devbush/daybrief/internal/adapters/cache"
	"github.com/devbush/daybrief/internal/domain"
	"github.com/devbush/daybrief/internal/ports"
)

// fakeFetcher serves canned bodies by URL and counts requests.
type fakeFetcher struct {
	mu     sync.Mutex
	bodies map[string][]byte
	errs   map[string]error
	calls  map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		bodies: make(map[string][]byte),
		errs:   make(map[string]error),
		calls:  make(map[string]int),
	}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[url]++
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	if body, ok := f.bodies[url]; ok {
		return body, nil
	}
	return nil, fmt.Errorf("failed to fetch %s: HTTP 404", url)
}

func (f *fakeFetcher) Calls(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

// feedBody encodes a section the way jsonParser expects.
func feedBody(title string, items ...domain.FeedItem) []byte {
	data, _ := json.Marshal(domain.FeedSection{Title: title, Items: items})
	return data
}

// jsonParser decodes bodies produced by feedBody.
type jsonParser struct{}

func (jsonParser) Parse(ctx context.Context, feedURL string, body []byte) (*domain.FeedSection, error) {
	var s domain.FeedSection
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", feedURL, err)
	}
	s.URL = feedURL
	return &s, nil
}

type memOfficialStore struct {
	mu   sync.Mutex
	last *domain.OfficialRecord
	err  error
}

func (m *memOfficialStore) Last(ctx context.Context) (*domain.OfficialRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last, m.err
}

func (m *memOfficialStore) Record(ctx context.Context, rec *domain.OfficialRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.last = rec
	return nil
}

type fakeExtractor struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeExtractor) Extract(ctx context.Context, pageURL string, html []byte) (*domain.ComicExtraction, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ComicExtraction{
		URL:       pageURL,
		TitleText: strings.TrimSpace(string(html)),
		Images:    []string{pageURL + "/panel.png"},
	}, nil
}

func (f *fakeExtractor) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeConverter pretends every image is 100x50 and records written paths.
type fakeConverter struct {
	mu      sync.Mutex
	written map[string]bool
	err     error
}

func newFakeConverter() *fakeConverter {
	return &fakeConverter{written: make(map[string]bool)}
}

func (f *fakeConverter) ToPNG(data []byte, dir string) (string, int, int, error) {
	if f.err != nil {
		return "", 0, 0, f.err
	}
	path := dir + "/" + string(data) + ".png"
	f.mu.Lock()
	f.written[path] = true
	f.mu.Unlock()
	return path, 100, 50, nil
}

func (f *fakeConverter) Size(path string) (int, int, error) {
	return 100, 50, nil
}

func (f *fakeConverter) exists(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.written[path]
}

func (f *fakeConverter) remove(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.written, path)
}

type fakeWeather struct {
	calls int
	err   error
}

func (f *fakeWeather) Forecast(ctx context.Context, lat, lon float64) (*domain.Forecast, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Forecast{
		Latitude:  lat,
		Longitude: lon,
		Hours: []domain.HourPoint{
			{Time: "2025-01-15T00:00", TemperatureC: 10, HumidityPct: 80, PrecipPct: 5},
			{Time: "2025-01-15T01:00", TemperatureC: 12, HumidityPct: 70, PrecipPct: 30},
		},
	}, nil
}

type fakeTypesetter struct {
	opts  []ports.CompileOpts
	err   error
	found bool
}

func (f *fakeTypesetter) IsAvailable() bool     { return f.found }
func (f *fakeTypesetter) GetBinaryPath() string { return "/usr/bin/sile" }
func (f *fakeTypesetter) Compile(ctx context.Context, opts ports.CompileOpts) error {
	f.opts = append(f.opts, opts)
	return f.err
}

// fakeRenderer produces short, inspectable markup.
type fakeRenderer struct{}

func (fakeRenderer) RSS(sections []domain.FeedSection) string {
	return fmt.Sprintf("rss:%d", len(sections))
}

func (fakeRenderer) Comics(entries []domain.ComicEntry) string {
	return fmt.Sprintf("comics:%d", len(entries))
}

func (fakeRenderer) Weather(f *domain.Forecast) string {
	return fmt.Sprintf("weather:%d", len(f.Hours))
}

func (fakeRenderer) Placeholder(name, title string, err error) string {
	return fmt.Sprintf("placeholder:%s:%v", name, err)
}

func (fakeRenderer) Document(blocks ...string) string {
	return strings.Join(blocks, "\n")
}

type recordingSink struct {
	mu       sync.Mutex
	started  []string
	finished []SectionResult
}

func (r *recordingSink) SectionStarted(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, name)
}

func (r *recordingSink) SectionFinished(res SectionResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, res)
}

var errBoom = errors.New("boom")

// fixedNow is the reference time used across service tests.
var fixedNow = time.Date(2025, 1, 15, 7, 0, 0, 0, time.UTC)

func newMemCacheService() *CacheService {
	svc := NewCacheService(cache.NewFileCacheFs(afero.NewMemMapFs(), "/data/cache"))
	svc.now = func() time.Time { return fixedNow }
	return svc
}
