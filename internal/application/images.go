package application

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/devbush/daybrief/internal/domain"
	"github.com/devbush/daybrief/internal/logger"
	"github.com/devbush/daybrief/internal/ports"
)

// ImageKeyPrefix namespaces converted image paths in the cache.
const ImageKeyPrefix = "img:png"

// ImageService downloads remote images and keeps PNG copies on disk.
type ImageService struct {
	cache     *CacheService
	fetcher   ports.PageFetcher
	converter ports.ImageConverter
	dir       string
	ttl       time.Duration
	exists    func(path string) bool
}

// NewImageService creates an image service writing into dir
func NewImageService(cache *CacheService, fetcher ports.PageFetcher, converter ports.ImageConverter, dir string, ttl time.Duration) *ImageService {
	return &ImageService{
		cache:     cache,
		fetcher:   fetcher,
		converter: converter,
		dir:       dir,
		ttl:       ttl,
		exists: func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		},
	}
}

// Local returns a PNG copy of url. The cached path is refreshed when the
// file it points to has been removed.
func (s *ImageService) Local(ctx context.Context, url string) (domain.LocalImage, error) {
	key := ImageKeyPrefix + ":" + url
	compute := func(ctx context.Context) (domain.LocalImage, error) {
		data, err := s.fetcher.Fetch(ctx, url)
		if err != nil {
			return domain.LocalImage{}, err
		}
		path, w, h, err := s.converter.ToPNG(data, s.dir)
		if err != nil {
			return domain.LocalImage{}, fmt.Errorf("%s: %w", url, err)
		}
		return domain.LocalImage{URL: url, Path: path, Width: w, Height: h}, nil
	}

	img, err := Cached(ctx, s.cache, key, s.ttl, compute)
	if err != nil {
		return domain.LocalImage{}, err
	}
	if s.exists(img.Path) {
		return img, nil
	}

	logger.Debug("cached image file missing, refetching", "url", url, "path", img.Path)
	raw, err := s.cache.Refresh(ctx, key, s.ttl, func(ctx context.Context) (any, error) {
		return compute(ctx)
	})
	if err != nil {
		return domain.LocalImage{}, err
	}
	if err := json.Unmarshal(raw, &img); err != nil {
		return domain.LocalImage{}, fmt.Errorf("failed to decode image entry: %w", err)
	}
	return img, nil
}
