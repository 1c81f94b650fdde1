package application

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/devbush/daybrief/internal/domain"
	"github.com/devbush/daybrief/internal/logger"
	"github.com/devbush/daybrief/internal/ports"
)

// Cache key prefixes for feeds.
const (
	RSSFeedPrefix   = "rss:url"
	ComicFeedPrefix = "comics:feed"
)

// DefaultConcurrency bounds parallel fetches when none is configured.
const DefaultConcurrency = 8

// FeedOptions configures one Sections call
type FeedOptions struct {
	Prefix       string        // cache key prefix, e.g. RSSFeedPrefix
	TTL          time.Duration // cache lifetime of a parsed feed
	Since        time.Time     // drop items published earlier; zero keeps all
	PerFeedLimit int           // leading items kept per feed before filtering, 0 for all
	TotalLimit   int           // items kept across all feeds, 0 for all
}

// FeedService fetches and parses feeds through the content cache.
type FeedService struct {
	cache       *CacheService
	fetcher     ports.PageFetcher
	parser      ports.FeedParser
	concurrency int
	now         func() time.Time
}

// NewFeedService creates a new feed service
func NewFeedService(cache *CacheService, fetcher ports.PageFetcher, parser ports.FeedParser, concurrency int) *FeedService {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &FeedService{
		cache:       cache,
		fetcher:     fetcher,
		parser:      parser,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// Section loads a single feed, from cache when fresh.
func (s *FeedService) Section(ctx context.Context, prefix, url string, ttl time.Duration) (*domain.FeedSection, error) {
	return Cached(ctx, s.cache, prefix+":"+url, ttl, func(ctx context.Context) (*domain.FeedSection, error) {
		body, err := s.fetcher.Fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		return s.parser.Parse(ctx, url, body)
	})
}

// Sections loads urls concurrently and returns one section per feed in
// input order. A feed that fails yields a section holding a single error
// placeholder. Sections left empty after filtering are dropped.
func (s *FeedService) Sections(ctx context.Context, urls []string, opts FeedOptions) ([]domain.FeedSection, error) {
	results := make([]domain.FeedSection, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, url := range urls {
		g.Go(func() error {
			section, err := s.Section(gctx, opts.Prefix, url, opts.TTL)
			if err != nil {
				logger.Warn("failed to load feed", "url", url, "error", err)
				host := domain.HostOf(url)
				results[i] = domain.FeedSection{
					Title: host,
					URL:   url,
					Items: []domain.FeedItem{domain.ErrorItem(url, err, s.now())},
				}
				return nil // per-feed failures are placeholders
			}

			items := section.Items
			if opts.PerFeedLimit > 0 && len(items) > opts.PerFeedLimit {
				items = items[:opts.PerFeedLimit]
			}
			section.Items = domain.FilterSince(items, opts.Since)
			results[i] = *section
			return nil
		})
	}

	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.FeedSection, 0, len(results))
	remaining := opts.TotalLimit
	for _, section := range results {
		if opts.TotalLimit > 0 {
			if remaining <= 0 {
				break
			}
			if len(section.Items) > remaining {
				section.Items = section.Items[:remaining]
			}
			remaining -= len(section.Items)
		}
		if len(section.Items) == 0 {
			continue
		}
		out = append(out, section)
	}

	return out, nil
}

// Items flattens sections in order.
func Items(sections []domain.FeedSection) []domain.FeedItem {
	var items []domain.FeedItem
	for _, s := range sections {
		items = append(items, s.Items...)
	}
	return items
}
