package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/devbush/daybrief/internal/domain"
	"github.com/devbush/daybrief/internal/logger"
	"github.com/devbush/daybrief/internal/ports"
)

// hotEntries bounds the in-process copy of recently used entries.
const hotEntries = 512

// ComputeFunc produces the value to cache on a miss. The result must be
// JSON serializable.
type ComputeFunc func(ctx context.Context) (any, error)

// CacheStats holds cache statistics
type CacheStats struct {
	ItemCount int
	TotalSize int64
	Hits      int64 // lookups served from cache in this process
	Misses    int64 // lookups that ran the compute callback
}

// CacheService memoizes expensive calls across runs on top of a CacheStore.
type CacheService struct {
	cache  ports.CacheStore
	hot    *lru.Cache[string, *domain.CacheEntry]
	flight singleflight.Group
	now    func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCacheService creates a new cache service
func NewCacheService(cache ports.CacheStore) *CacheService {
	hot, err := lru.New[string, *domain.CacheEntry](hotEntries)
	if err != nil {
		panic(err)
	}
	return &CacheService{
		cache: cache,
		hot:   hot,
		now:   time.Now,
	}
}

// Get returns the cached payload for key if it is younger than ttl.
// Otherwise it runs compute, persists the result stamped with the current
// time and ttl, and returns it. Freshness is always judged against the ttl
// passed here, not the one the entry was written with. A ttl of zero or less
// always recomputes.
//
// Errors from compute are returned unchanged and nothing is written. A
// failure to persist the computed value is logged and the value is still
// returned, so a successful Get does not guarantee the next run will hit.
//
// Concurrent misses for the same key in one process share a single compute,
// which runs under the context of whichever caller started it. Each caller
// still returns as soon as its own ctx is done. If the shared compute fails
// with a context error while the caller's ctx is still live, the caller
// retries once with its own ctx.
func (s *CacheService) Get(ctx context.Context, key string, ttl time.Duration, compute ComputeFunc) (json.RawMessage, error) {
	payload, _, err := s.get(ctx, key, ttl, compute, false)
	return payload, err
}

// Refresh runs compute and overwrites the entry regardless of freshness.
func (s *CacheService) Refresh(ctx context.Context, key string, ttl time.Duration, compute ComputeFunc) (json.RawMessage, error) {
	payload, _, err := s.get(ctx, key, ttl, compute, true)
	return payload, err
}

func (s *CacheService) get(ctx context.Context, key string, ttl time.Duration, compute ComputeFunc, force bool) (json.RawMessage, bool, error) {
	if key == "" {
		return nil, false, domain.ErrEmptyKey
	}

	if !force {
		if entry, ok := s.lookup(ctx, key, ttl); ok {
			s.hits.Add(1)
			logger.Debug("cache hit", "key", key, "age", entry.Age(s.now()))
			return entry.Payload, true, nil
		}
	}

	payload, err := s.join(ctx, key, ttl, compute, force)
	if err != nil && ctx.Err() == nil && isContextErr(err) {
		logger.Debug("shared cache flight was cancelled, retrying", "key", key)
		payload, err = s.join(ctx, key, ttl, compute, force)
	}
	if err != nil {
		return nil, false, err
	}
	return payload, false, nil
}

// join runs compute through the flight group for key and waits for the
// result or for ctx to be done, whichever comes first.
func (s *CacheService) join(ctx context.Context, key string, ttl time.Duration, compute ComputeFunc, force bool) (json.RawMessage, error) {
	ch := s.flight.DoChan(key, func() (any, error) {
		// A flight for this key may have completed between our lookup
		// and joining the group.
		if !force {
			if entry, ok := s.lookup(ctx, key, ttl); ok {
				return entry.Payload, nil
			}
		}

		s.misses.Add(1)
		logger.Debug("cache miss", "key", key, "ttl", ttl)

		result, err := compute(ctx)
		if err != nil {
			return nil, err
		}

		payload, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to encode result for %s: %w", key, err)
		}

		entry := domain.NewCacheEntry(key, payload, s.now(), ttl)
		if err := s.cache.Set(ctx, key, entry); err != nil {
			// The value is still good for this run.
			logger.Warn("failed to persist cache entry", "key", key, "error", err)
		}
		s.hot.Add(key, entry)

		return json.RawMessage(payload), nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			logger.Debug("cache flight shared", "key", key)
		}
		return res.Val.(json.RawMessage), nil
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// lookup returns an entry from memory or the store that is fresh for ttl.
func (s *CacheService) lookup(ctx context.Context, key string, ttl time.Duration) (*domain.CacheEntry, bool) {
	now := s.now()

	if entry, ok := s.hot.Get(key); ok {
		if entry.IsFreshFor(now, ttl) {
			return entry, true
		}
		s.hot.Remove(key)
	}

	entry, err := s.cache.Get(ctx, key)
	if err != nil || !entry.IsFreshFor(now, ttl) {
		return nil, false
	}

	s.hot.Add(key, entry)
	return entry, true
}

// Cached is the typed form of CacheService.Get. A cached payload that no
// longer decodes into T is treated as a miss and recomputed.
func Cached[T any](ctx context.Context, s *CacheService, key string, ttl time.Duration, compute func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	fn := func(ctx context.Context) (any, error) {
		return compute(ctx)
	}

	raw, fromCache, err := s.get(ctx, key, ttl, fn, false)
	if err != nil {
		return zero, err
	}

	var out T
	if err := json.Unmarshal(raw, &out); err == nil {
		return out, nil
	} else if !fromCache {
		return zero, fmt.Errorf("failed to decode result for %s: %w", key, err)
	}

	logger.Debug("cached payload does not match, recomputing", "key", key)
	raw, _, err = s.get(ctx, key, ttl, fn, true)
	if err != nil {
		return zero, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, fmt.Errorf("failed to decode result for %s: %w", key, err)
	}
	return out, nil
}

// Stats returns cache statistics
func (s *CacheService) Stats(ctx context.Context) (*CacheStats, error) {
	count, size, err := s.cache.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &CacheStats{
		ItemCount: count,
		TotalSize: size,
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
	}, nil
}

// List returns all readable entries, most recently stored first.
func (s *CacheService) List(ctx context.Context) ([]*domain.CacheEntry, error) {
	entries, err := s.cache.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StoredAt > entries[j].StoredAt
	})
	return entries, nil
}

// CleanExpired removes expired cache entries
func (s *CacheService) CleanExpired(ctx context.Context) (int, error) {
	s.hot.Purge()
	return s.cache.CleanExpired(ctx)
}

// Clear removes all cache entries
func (s *CacheService) Clear(ctx context.Context) error {
	s.hot.Purge()
	return s.cache.Clear(ctx)
}
