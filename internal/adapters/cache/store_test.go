package cache

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/devbush/daybrief/internal/domain"
)

func newMemCache() (*FileCache, afero.Fs) {
	fs := afero.NewMemMapFs()
	return NewFileCacheFs(fs, "/data/cache"), fs
}

func TestFileCache_SetGet(t *testing.T) {
	cache := NewFileCache(t.TempDir())
	ctx := context.Background()

	entry := domain.NewCacheEntry("rss:url:https://example.com/feed", json.RawMessage(`{"items":[1,2]}`), time.Now(), time.Hour)
	if err := cache.Set(ctx, entry.Key, entry); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := cache.Get(ctx, entry.Key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if string(got.Payload) != `{"items":[1,2]}` {
		t.Errorf("Get() payload = %s", got.Payload)
	}
	if got.StoredAt != entry.StoredAt || got.TTL != 3600 {
		t.Errorf("Get() ts/ttl = %d/%d, want %d/3600", got.StoredAt, got.TTL, entry.StoredAt)
	}
}

func TestFileCache_Path(t *testing.T) {
	cache, _ := newMemCache()

	want := filepath.Join("/data/cache", domain.Digest("comics:extract:x")+".json")
	if got := cache.Path("comics:extract:x"); got != want {
		t.Errorf("Path() = %s, want %s", got, want)
	}
	if cache.Path("Feed:A") == cache.Path("feed:a") {
		t.Error("Path() collides for keys differing only in case")
	}
}

func TestFileCache_GetMiss(t *testing.T) {
	cache, _ := newMemCache()

	_, err := cache.Get(context.Background(), "nonexistent")
	if err != domain.ErrCacheMiss {
		t.Errorf("Get() error = %v, want ErrCacheMiss", err)
	}
}

func TestFileCache_GetCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "{{{ nope"},
		{"truncated", `{"payload": {"a": 1`},
		{"missing payload", `{"ts": 1, "ttl": 60}`},
		{"wrong types", `{"payload": 1, "ts": "yesterday", "ttl": 60}`},
		{"empty file", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache, fs := newMemCache()
			if err := afero.WriteFile(fs, cache.Path("k"), []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			_, err := cache.Get(context.Background(), "k")
			if err != domain.ErrCacheMiss {
				t.Errorf("Get() error = %v, want ErrCacheMiss", err)
			}
		})
	}
}

func TestFileCache_SetReplaces(t *testing.T) {
	cache, _ := newMemCache()
	ctx := context.Background()
	now := time.Now()

	_ = cache.Set(ctx, "k", domain.NewCacheEntry("k", json.RawMessage(`"first"`), now, time.Hour))
	_ = cache.Set(ctx, "k", domain.NewCacheEntry("k", json.RawMessage(`"second"`), now, time.Minute))

	got, err := cache.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got.Payload) != `"second"` || got.TTL != 60 {
		t.Errorf("Get() = %s ttl %d, want second ttl 60", got.Payload, got.TTL)
	}

	count, _, _ := cache.Stats(ctx)
	if count != 1 {
		t.Errorf("Stats() count = %d, want 1", count)
	}
}

func TestFileCache_Delete(t *testing.T) {
	cache, _ := newMemCache()
	ctx := context.Background()

	_ = cache.Set(ctx, "k", domain.NewCacheEntry("k", json.RawMessage(`1`), time.Now(), time.Hour))
	if err := cache.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := cache.Get(ctx, "k"); err != domain.ErrCacheMiss {
		t.Errorf("Get() after Delete error = %v, want ErrCacheMiss", err)
	}
	if err := cache.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() of missing key error = %v", err)
	}
}

func TestFileCache_CleanExpired(t *testing.T) {
	cache, fs := newMemCache()
	ctx := context.Background()
	now := time.Now()

	_ = cache.Set(ctx, "fresh", domain.NewCacheEntry("fresh", json.RawMessage(`1`), now, time.Hour))
	_ = cache.Set(ctx, "stale", domain.NewCacheEntry("stale", json.RawMessage(`2`), now.Add(-2*time.Hour), time.Hour))
	_ = afero.WriteFile(fs, cache.Path("corrupt"), []byte("garbage"), 0644)
	// Files that are not cache entries must survive.
	_ = afero.WriteFile(fs, "/data/cache/official.json", []byte(`{"last_official":"2025-01-01T00:00:00Z"}`), 0644)

	cleaned, err := cache.CleanExpired(ctx)
	if err != nil {
		t.Fatalf("CleanExpired() error = %v", err)
	}
	if cleaned != 2 {
		t.Errorf("CleanExpired() = %d, want 2", cleaned)
	}

	if _, err := cache.Get(ctx, "fresh"); err != nil {
		t.Errorf("fresh entry removed: %v", err)
	}
	if ok, _ := afero.Exists(fs, "/data/cache/official.json"); !ok {
		t.Error("CleanExpired() removed a non-entry file")
	}
}

func TestFileCache_ClearAndStats(t *testing.T) {
	cache, fs := newMemCache()
	ctx := context.Background()

	count, size, err := cache.Stats(ctx)
	if err != nil || count != 0 || size != 0 {
		t.Fatalf("Stats() on missing dir = %d, %d, %v", count, size, err)
	}

	for _, k := range []string{"a", "b", "c"} {
		_ = cache.Set(ctx, k, domain.NewCacheEntry(k, json.RawMessage(`{"v":"`+k+`"}`), time.Now(), time.Hour))
	}
	_ = afero.WriteFile(fs, "/data/cache/official.json", []byte(`{}`), 0644)

	count, size, err = cache.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if count != 3 || size == 0 {
		t.Errorf("Stats() = %d items, %d bytes", count, size)
	}

	entries, err := cache.List(ctx)
	if err != nil || len(entries) != 3 {
		t.Errorf("List() = %d entries, %v", len(entries), err)
	}

	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if count, _, _ := cache.Stats(ctx); count != 0 {
		t.Errorf("Stats() after Clear = %d, want 0", count)
	}
	if ok, _ := afero.Exists(fs, "/data/cache/official.json"); !ok {
		t.Error("Clear() removed a non-entry file")
	}
}
