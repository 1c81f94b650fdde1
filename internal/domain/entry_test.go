package domain

import (
	"testing"
	"time"
)

func TestCacheEntry_IsFresh(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name     string
		storedAt int64
		ttl      int64
		want     bool
	}{
		{"recent entry", now.Unix() - 100, 1800, true},
		{"expired entry", now.Unix() - 2000, 1800, false},
		{"exactly at ttl", now.Unix() - 1800, 1800, true},
		{"one second past ttl", now.Unix() - 1801, 1800, false},
		{"zero ttl always stale", now.Unix(), 0, false},
		{"negative ttl always stale", now.Unix(), -5, false},
		{"clock moved backwards", now.Unix() + 600, 60, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &CacheEntry{StoredAt: tt.storedAt, TTL: tt.ttl}
			if got := e.IsFresh(now); got != tt.want {
				t.Errorf("IsFresh() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCacheEntry_IsFreshFor(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	e := &CacheEntry{StoredAt: now.Unix() - 2000, TTL: 3600}

	tests := []struct {
		name string
		ttl  time.Duration
		want bool
	}{
		{"caller ttl shorter than stored", 1800 * time.Second, false},
		{"caller ttl longer than age", time.Hour, true},
		{"exactly at caller ttl", 2000 * time.Second, true},
		{"zero caller ttl", 0, false},
		{"negative caller ttl", -time.Minute, false},
		{"sub-second caller ttl", 500 * time.Millisecond, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.IsFreshFor(now, tt.ttl); got != tt.want {
				t.Errorf("IsFreshFor(%v) = %v, want %v", tt.ttl, got, tt.want)
			}
		})
	}

	future := &CacheEntry{StoredAt: now.Unix() + 600, TTL: 0}
	if !future.IsFreshFor(now, time.Minute) {
		t.Error("IsFreshFor() = false for an entry written after now")
	}
}

func TestNewCacheEntry(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	e := NewCacheEntry("rss:url:x", []byte(`{"a":1}`), now, 30*time.Minute)

	if e.StoredAt != now.Unix() {
		t.Errorf("StoredAt = %d, want %d", e.StoredAt, now.Unix())
	}
	if e.TTL != 1800 {
		t.Errorf("TTL = %d, want 1800", e.TTL)
	}
	if !e.ExpiresAt().Equal(now.Add(30 * time.Minute)) {
		t.Errorf("ExpiresAt() = %v, want %v", e.ExpiresAt(), now.Add(30*time.Minute))
	}
	if got := e.Age(now.Add(90 * time.Second)); got != 90*time.Second {
		t.Errorf("Age() = %v, want 90s", got)
	}
}

func TestDigest(t *testing.T) {
	// sha1("abc")
	if got := Digest("abc"); got != "a9993e364706816aba3e25717850c26c9cd0d89d" {
		t.Errorf("Digest(abc) = %s", got)
	}

	if Digest("rss:url:https://example.com/feed") != Digest("rss:url:https://example.com/feed") {
		t.Error("Digest() is not deterministic")
	}

	if Digest("Feed:A") == Digest("feed:a") {
		t.Error("Digest() should be case sensitive")
	}

	if len(Digest("")) != 40 {
		t.Errorf("Digest() length = %d, want 40", len(Digest("")))
	}
}
