package service

import (
	"context"
	"testing"
	"time"
)

func TestNextRunDelay(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)
	tests := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{"mid-day", time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC), 12 * time.Hour},
		{"exactly midnight waits a full day", time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), 24 * time.Hour},
		{"just before midnight", time.Date(2026, 3, 14, 23, 59, 59, 0, time.UTC), time.Second},
		{"just after midnight", time.Date(2026, 3, 14, 0, 0, 1, 0, time.UTC), 24*time.Hour - time.Second},
		{"month rollover", time.Date(2026, 2, 28, 18, 0, 0, 0, time.UTC), 6 * time.Hour},
		{"non-UTC input", time.Date(2026, 3, 14, 8, 0, 0, 0, shanghai), 24 * time.Hour},
	}

	s, err := NewScheduler(DefaultScheduleSpec, time.UTC, func(context.Context) {})
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextRunDelay(tt.now); got != tt.want {
				t.Errorf("NextRunDelay() = %v, want %v", got, tt.want)
			}
			if got := s.NextRunDelay(tt.now); got != tt.want {
				t.Errorf("Scheduler.NextRunDelay() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	if _, err := NewScheduler("every day", nil, func(context.Context) {}); err == nil {
		t.Error("expected error for invalid spec")
	}
}

func TestSchedulerStartStop(t *testing.T) {
	s, err := NewScheduler("", nil, func(context.Context) {})
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	s.now = clock

	if st := s.State(); st.State != SchedulerIdle || st.NextFire != nil {
		t.Fatalf("initial state = %+v, want idle", st)
	}

	s.Start(context.Background())
	s.Start(context.Background())

	st := s.State()
	if st.State != SchedulerScheduled {
		t.Fatalf("state after Start = %s, want scheduled", st.State)
	}
	if want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC); st.NextFire == nil || !st.NextFire.Equal(want) {
		t.Errorf("NextFire = %v, want %v", st.NextFire, want)
	}

	for i := 0; i < 2; i++ {
		select {
		case <-s.Stop().Done():
		case <-time.After(time.Second):
			t.Fatalf("Stop() #%d did not complete", i+1)
		}
	}
	if st := s.State(); st.State != SchedulerIdle {
		t.Errorf("state after Stop = %s, want idle", st.State)
	}

	// re-arming after Stop works
	s.Start(context.Background())
	if s.State().State != SchedulerScheduled {
		t.Error("expected scheduled after restart")
	}
	<-s.Stop().Done()
}
