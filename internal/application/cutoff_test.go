package application

import (
	"context"
	"testing"
	"time"

	"github.com/devbush/daybrief/internal/domain"
)

func TestCutoffService_Cutoff(t *testing.T) {
	tests := []struct {
		name string
		last *domain.OfficialRecord
		want time.Time
	}{
		{"no record", nil, fixedNow.Add(-48 * time.Hour)},
		{"recent official", &domain.OfficialRecord{LastOfficial: fixedNow.Add(-10 * time.Hour)}, fixedNow.Add(-10 * time.Hour)},
		{"old official", &domain.OfficialRecord{LastOfficial: fixedNow.Add(-72 * time.Hour)}, fixedNow.Add(-48 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCutoffService(&memOfficialStore{last: tt.last}, 0)
			svc.now = func() time.Time { return fixedNow }

			got, err := svc.Cutoff(context.Background())
			if err != nil {
				t.Fatalf("Cutoff() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Cutoff() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCutoffService_Window(t *testing.T) {
	if w := NewCutoffService(&memOfficialStore{}, 0).Window(); w != domain.DefaultCutoffWindow {
		t.Errorf("Window() = %v, want default", w)
	}

	svc := NewCutoffService(&memOfficialStore{}, 24*time.Hour)
	svc.now = func() time.Time { return fixedNow }
	got, _ := svc.Cutoff(context.Background())
	if !got.Equal(fixedNow.Add(-24 * time.Hour)) {
		t.Errorf("Cutoff() = %v with a 24h window", got)
	}
}

func TestCutoffService_Record(t *testing.T) {
	store := &memOfficialStore{}
	svc := NewCutoffService(store, 0)
	svc.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	at := fixedNow.Add(-time.Hour).In(time.FixedZone("PST", -8*3600))
	if err := svc.Record(ctx, at, "run-7"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	last, _ := svc.Last(ctx)
	if last == nil || last.RunID != "run-7" || last.LastOfficial.Location() != time.UTC {
		t.Fatalf("Last() = %+v", last)
	}

	got, _ := svc.Cutoff(ctx)
	if !got.Equal(at) {
		t.Errorf("Cutoff() = %v, want recorded %v", got, at)
	}
}

func TestCutoffService_StoreError(t *testing.T) {
	svc := NewCutoffService(&memOfficialStore{err: errBoom}, 0)
	if _, err := svc.Cutoff(context.Background()); err != errBoom {
		t.Errorf("Cutoff() error = %v, want %v", err, errBoom)
	}
}
