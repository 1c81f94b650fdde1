package application

import (
	"context"
	"time"

	"github.com/devbush/daybrief/internal/domain"
	"github.com/devbush/daybrief/internal/logger"
	"github.com/devbush/daybrief/internal/ports"
)

// CutoffService decides how far back a brief reaches.
type CutoffService struct {
	store  ports.OfficialStore
	window time.Duration
	now    func() time.Time
}

// NewCutoffService creates a cutoff service. A non-positive window means
// domain.DefaultCutoffWindow.
func NewCutoffService(store ports.OfficialStore, window time.Duration) *CutoffService {
	if window <= 0 {
		window = domain.DefaultCutoffWindow
	}
	return &CutoffService{store: store, window: window, now: time.Now}
}

// Window returns the configured lookback window.
func (s *CutoffService) Window() time.Duration {
	return s.window
}

// Last returns the last official run, or nil if none is recorded.
func (s *CutoffService) Last(ctx context.Context) (*domain.OfficialRecord, error) {
	return s.store.Last(ctx)
}

// Cutoff returns the later of the last official run and now minus the window.
func (s *CutoffService) Cutoff(ctx context.Context) (time.Time, error) {
	last, err := s.store.Last(ctx)
	if err != nil {
		return time.Time{}, err
	}
	cutoff := domain.OfficialCutoff(last, s.now(), s.window)
	logger.Debug("cutoff computed", "cutoff", cutoff, "has_official", last != nil)
	return cutoff, nil
}

// Record marks at as the latest official run.
func (s *CutoffService) Record(ctx context.Context, at time.Time, runID string) error {
	return s.store.Record(ctx, &domain.OfficialRecord{LastOfficial: at.UTC(), RunID: runID})
}
