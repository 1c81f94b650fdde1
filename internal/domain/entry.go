package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"time"
)

// CacheEntry is a single persisted cache record.
type CacheEntry struct {
	Key      string          `json:"key"`     // informational only, lookups go by digest
	Payload  json.RawMessage `json:"payload"` // JSON encoded result of the compute callback
	StoredAt int64           `json:"ts"`      // unix seconds, UTC
	TTL      int64           `json:"ttl"`     // seconds
}

// NewCacheEntry builds an entry stamped with now.
func NewCacheEntry(key string, payload json.RawMessage, now time.Time, ttl time.Duration) *CacheEntry {
	return &CacheEntry{
		Key:      key,
		Payload:  payload,
		StoredAt: now.Unix(),
		TTL:      int64(ttl / time.Second),
	}
}

// Age returns how long ago the entry was written, in whole seconds.
// It is negative when the clock moved backwards since the write.
func (e *CacheEntry) Age(now time.Time) time.Duration {
	return time.Duration(now.Unix()-e.StoredAt) * time.Second
}

// IsFresh reports whether the entry is still within the TTL it was written
// with. Used for housekeeping; lookups go through IsFreshFor.
func (e *CacheEntry) IsFresh(now time.Time) bool {
	return e.IsFreshFor(now, time.Duration(e.TTL)*time.Second)
}

// IsFreshFor reports whether the entry can be served to a caller asking for
// ttl. A ttl of zero or less is always stale. A negative age (clock moved
// backwards) counts as fresh.
func (e *CacheEntry) IsFreshFor(now time.Time, ttl time.Duration) bool {
	secs := int64(ttl / time.Second)
	if secs <= 0 {
		return false
	}
	return now.Unix()-e.StoredAt <= secs
}

// StoredTime returns the write time as a UTC time.Time.
func (e *CacheEntry) StoredTime() time.Time {
	return time.Unix(e.StoredAt, 0).UTC()
}

// ExpiresAt returns the last instant at which the entry is still fresh.
func (e *CacheEntry) ExpiresAt() time.Time {
	return e.StoredTime().Add(time.Duration(e.TTL) * time.Second)
}

// Digest derives the on-disk identifier for a cache key: hex SHA-1 of the
// UTF-8 bytes. Stable across processes and machines.
func Digest(key string) string {
	sum := sha1.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}
