package ports

import (
	"context"

	"github.com/devbush/daybrief/internal/domain"
)

// CacheStore persists raw cache entries keyed by the caller's key.
// Implementations decide the on-disk identifier (see domain.Digest).
type CacheStore interface {
	// Get returns the stored entry for key, fresh or not.
	// Returns domain.ErrCacheMiss when the entry is absent or unreadable.
	Get(ctx context.Context, key string) (*domain.CacheEntry, error)

	// Set fully replaces any prior entry for key.
	Set(ctx context.Context, key string, entry *domain.CacheEntry) error

	// Delete removes the entry for key, if any.
	Delete(ctx context.Context, key string) error

	// CleanExpired removes stale and unreadable entries and returns how many were removed.
	CleanExpired(ctx context.Context) (int, error)

	// Clear removes all cached entries.
	Clear(ctx context.Context) error

	// List returns all readable entries.
	List(ctx context.Context) ([]*domain.CacheEntry, error)

	// Path returns the file backing key.
	Path(key string) string

	// Stats returns cache statistics: item count and total size in bytes.
	Stats(ctx context.Context) (itemCount int, totalSize int64, err error)
}

// OfficialStore records when the last official brief was built.
type OfficialStore interface {
	// Last returns the last record, or nil if none is readable.
	Last(ctx context.Context) (*domain.OfficialRecord, error)

	// Record stores a new official run marker.
	Record(ctx context.Context, rec *domain.OfficialRecord) error
}
