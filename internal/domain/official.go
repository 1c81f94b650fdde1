package domain

import "time"

// DefaultCutoffWindow is how far back content is included when there is no
// more recent official run.
const DefaultCutoffWindow = 48 * time.Hour

// OfficialRecord is the persisted marker of the last official build.
type OfficialRecord struct {
	LastOfficial time.Time `json:"last_official"`
	RunID        string    `json:"run_id,omitempty"`
}

// OfficialCutoff returns the later of the last official run and now-window.
// Everything published before the cutoff is left out of the next brief.
func OfficialCutoff(last *OfficialRecord, now time.Time, window time.Duration) time.Time {
	cutoff := now.UTC().Add(-window)
	if last == nil || last.LastOfficial.IsZero() {
		return cutoff
	}
	if lo := last.LastOfficial.UTC(); lo.After(cutoff) {
		return lo
	}
	return cutoff
}
