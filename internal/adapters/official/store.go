// Package official persists the timestamp of the last official brief.
//
// The record lives next to the cache entries as official.json:
//
//	{
//	  "last_official": "2025-01-15T07:00:00Z",
//	  "run_id": "5f0c..."
//	}
//
// A missing or unreadable file simply means there is no record.
package official

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/devbush/daybrief/internal/domain"
	"github.com/devbush/daybrief/internal/ports"
)

// FileName is the record's name inside the cache directory.
const FileName = "official.json"

type recordFile struct {
	LastOfficial string `json:"last_official"`
	RunID        string `json:"run_id,omitempty"`
}

// Store reads and writes the official run record.
type Store struct {
	fs   afero.Fs
	path string
}

// NewStore creates a store for dir/official.json on the OS filesystem.
func NewStore(dir string) *Store {
	return NewStoreFs(afero.NewOsFs(), dir)
}

// NewStoreFs creates a store on an arbitrary filesystem.
func NewStoreFs(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, path: filepath.Join(dir, FileName)}
}

// Path returns the record file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Last(ctx context.Context) (*domain.OfficialRecord, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return nil, nil
	}

	var rf recordFile
	if err := json.Unmarshal(data, &rf); err != nil || rf.LastOfficial == "" {
		return nil, nil
	}

	ts, err := parseTimestamp(rf.LastOfficial)
	if err != nil {
		return nil, nil
	}

	return &domain.OfficialRecord{LastOfficial: ts, RunID: rf.RunID}, nil
}

// parseTimestamp accepts RFC 3339 and naive ISO-8601 timestamps; naive
// values are taken as UTC.
func parseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts.UTC(), nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp: %s", s)
}

func (s *Store) Record(ctx context.Context, rec *domain.OfficialRecord) error {
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(recordFile{
		LastOfficial: rec.LastOfficial.UTC().Format(time.RFC3339),
		RunID:        rec.RunID,
	}, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write official record: %w", err)
	}
	return s.fs.Rename(tmpPath, s.path)
}

var _ ports.OfficialStore = (*Store)(nil)
