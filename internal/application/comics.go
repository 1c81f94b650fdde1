package application

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/devbush/daybrief/internal/domain"
	"github.com/devbush/daybrief/internal/logger"
	"github.com/devbush/daybrief/internal/ports"
)

// ComicExtractPrefix namespaces structured comic pages in the cache.
const ComicExtractPrefix = "comics:extract"

// ComicsService turns comic feed items into structured, illustrated entries.
type ComicsService struct {
	cache       *CacheService
	fetcher     ports.PageFetcher
	extractor   ports.ComicExtractor
	images      *ImageService
	ttl         time.Duration
	concurrency int
}

// NewComicsService creates a comics service. images may be nil, in which
// case entries carry no local images.
func NewComicsService(
	cache *CacheService,
	fetcher ports.PageFetcher,
	extractor ports.ComicExtractor,
	images *ImageService,
	ttl time.Duration,
	concurrency int,
) *ComicsService {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &ComicsService{
		cache:       cache,
		fetcher:     fetcher,
		extractor:   extractor,
		images:      images,
		ttl:         ttl,
		concurrency: concurrency,
	}
}

// Extract returns the structured page at url. Successful extractions are
// cached; failures are returned and retried on the next call.
func (s *ComicsService) Extract(ctx context.Context, url string) (*domain.ComicExtraction, error) {
	return Cached(ctx, s.cache, ComicExtractPrefix+":"+url, s.ttl, func(ctx context.Context) (*domain.ComicExtraction, error) {
		page, err := s.fetcher.Fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		ext, err := s.extractor.Extract(ctx, url, page)
		if err != nil {
			return nil, err
		}
		if err := ext.Validate(); err != nil {
			return nil, err
		}
		return ext, nil
	})
}

// Entries extracts every item concurrently, keeping input order. An item
// that cannot be extracted carries the error instead of an extraction.
// Images that fail to download are left out of the entry.
func (s *ComicsService) Entries(ctx context.Context, items []domain.FeedItem) ([]domain.ComicEntry, error) {
	entries := make([]domain.ComicEntry, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, item := range items {
		entries[i].Item = item
		if item.Failed {
			entries[i].Error = item.Summary
			continue
		}

		g.Go(func() error {
			ext, err := s.Extract(gctx, item.Link)
			if err != nil {
				logger.Warn("failed to extract comic", "url", item.Link, "error", err)
				entries[i].Error = err.Error()
				return nil
			}
			entries[i].Extraction = ext
			entries[i].Images = s.localImages(gctx, ext)
			return nil
		})
	}

	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *ComicsService) localImages(ctx context.Context, ext *domain.ComicExtraction) []domain.LocalImage {
	if s.images == nil {
		return nil
	}

	var out []domain.LocalImage
	for _, url := range ext.AllImages() {
		img, err := s.images.Local(ctx, url)
		if err != nil {
			logger.Warn("failed to fetch comic image", "url", url, "error", err)
			continue
		}
		out = append(out, img)
	}
	return out
}
