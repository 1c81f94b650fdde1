package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/spf13/afero"

	"github.com/devbush/daybrief/internal/domain"
	"github.com/devbush/daybrief/internal/ports"
)

// entryName matches files written by FileCache; anything else in the
// directory (official.json, temp files) is left alone.
var entryName = regexp.MustCompile(`^[0-9a-f]{40}\.json$`)

// FileCache stores one JSON document per key under baseDir, named by the
// key's digest.
type FileCache struct {
	fs      afero.Fs
	baseDir string
	now     func() time.Time
}

// NewFileCache creates a cache rooted at baseDir on the OS filesystem.
func NewFileCache(baseDir string) *FileCache {
	return NewFileCacheFs(afero.NewOsFs(), baseDir)
}

// NewFileCacheFs creates a cache on an arbitrary filesystem.
func NewFileCacheFs(fs afero.Fs, baseDir string) *FileCache {
	return &FileCache{
		fs:      fs,
		baseDir: baseDir,
		now:     time.Now,
	}
}

func (c *FileCache) Path(key string) string {
	return filepath.Join(c.baseDir, domain.Digest(key)+".json")
}

func (c *FileCache) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	return c.read(c.Path(key))
}

// read loads an entry file. Every failure, including a corrupt or
// schema-mismatched document, is reported as a miss.
func (c *FileCache) read(path string) (*domain.CacheEntry, error) {
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return nil, domain.ErrCacheMiss
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, domain.ErrCacheMiss
	}
	if len(entry.Payload) == 0 || !json.Valid(entry.Payload) {
		return nil, domain.ErrCacheMiss
	}

	return &entry, nil
}

func (c *FileCache) Set(ctx context.Context, key string, entry *domain.CacheEntry) error {
	if err := c.fs.MkdirAll(c.baseDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	// Write to a unique temp file and rename over the target so readers
	// never observe a partial document.
	tmp, err := afero.TempFile(c.fs, c.baseDir, ".entry-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = c.fs.Remove(tmpPath)
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = c.fs.Remove(tmpPath)
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	if err := c.fs.Rename(tmpPath, c.Path(key)); err != nil {
		_ = c.fs.Remove(tmpPath)
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := c.fs.Remove(c.Path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// entryFiles lists the paths of all entry files.
func (c *FileCache) entryFiles() ([]os.FileInfo, error) {
	infos, err := afero.ReadDir(c.fs, c.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	files := infos[:0]
	for _, info := range infos {
		if info.IsDir() || !entryName.MatchString(info.Name()) {
			continue
		}
		files = append(files, info)
	}
	return files, nil
}

func (c *FileCache) CleanExpired(ctx context.Context) (int, error) {
	files, err := c.entryFiles()
	if err != nil {
		return 0, err
	}

	now := c.now()
	cleaned := 0
	for _, info := range files {
		path := filepath.Join(c.baseDir, info.Name())
		entry, err := c.read(path)
		if err == nil && entry.IsFresh(now) {
			continue
		}
		if err := c.fs.Remove(path); err == nil {
			cleaned++
		}
	}

	return cleaned, nil
}

func (c *FileCache) Clear(ctx context.Context) error {
	files, err := c.entryFiles()
	if err != nil {
		return err
	}

	for _, info := range files {
		_ = c.fs.Remove(filepath.Join(c.baseDir, info.Name()))
	}

	return nil
}

func (c *FileCache) List(ctx context.Context) ([]*domain.CacheEntry, error) {
	files, err := c.entryFiles()
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.CacheEntry, 0, len(files))
	for _, info := range files {
		entry, err := c.read(filepath.Join(c.baseDir, info.Name()))
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (c *FileCache) Stats(ctx context.Context) (itemCount int, totalSize int64, err error) {
	files, err := c.entryFiles()
	if err != nil {
		return 0, 0, err
	}

	for _, info := range files {
		itemCount++
		totalSize += info.Size()
	}

	return itemCount, totalSize, nil
}

var _ ports.CacheStore = (*FileCache)(nil)
