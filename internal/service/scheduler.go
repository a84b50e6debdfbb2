package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/timmy/pvhub/internal/logger"
)

// DefaultScheduleSpec fires once a day at 00:00 in the scheduler's location.
const DefaultScheduleSpec = "0 0 * * *"

// SchedulerState is Idle or Scheduled.
type SchedulerState string

const (
	SchedulerIdle      SchedulerState = "idle"
	SchedulerScheduled SchedulerState = "scheduled"
)

// SchedulerStatus is a snapshot of the scheduler. NextFire is nil when idle.
type SchedulerStatus struct {
	State    SchedulerState `json:"state"`
	NextFire *time.Time     `json:"nextFire,omitempty"`
	Spec     string         `json:"spec"`
	Location string         `json:"location"`
}

// Scheduler decides when to run; run decides what running means.
type Scheduler struct {
	mu       sync.Mutex
	spec     string
	loc      *time.Location
	schedule cron.Schedule
	run      func(ctx context.Context)
	now      func() time.Time

	cron   *cron.Cron
	cancel context.CancelFunc
}

// NewScheduler parses spec (standard 5-field cron) evaluated in loc. A nil
// loc means UTC.
func NewScheduler(spec string, loc *time.Location, run func(ctx context.Context)) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultScheduleSpec
	}
	if loc == nil {
		loc = time.UTC
	}
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schedule %q: %w", spec, err)
	}
	return &Scheduler{
		spec:     spec,
		loc:      loc,
		schedule: schedule,
		run:      run,
		now:      time.Now,
	}, nil
}

// NextFire returns the first activation strictly after now.
func (s *Scheduler) NextFire(now time.Time) time.Time {
	return s.schedule.Next(now.In(s.loc))
}

// NextRunDelay returns the wait from now until the next activation.
func (s *Scheduler) NextRunDelay(now time.Time) time.Duration {
	return s.NextFire(now).Sub(now)
}

// NextRunDelay returns the delay to the next 00:00 UTC strictly after now.
func NextRunDelay(now time.Time) time.Duration {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return next.Sub(now)
}

// Start arms the scheduler. Calling Start while scheduled is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	cronLogger := cron.PrintfLogger(logger.FromContext(ctx))
	c := cron.New(
		cron.WithLocation(s.loc),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	c.Schedule(s.schedule, cron.FuncJob(func() { s.run(runCtx) }))
	c.Start()

	s.cron = c
	s.cancel = cancel
	logger.CtxInfo(ctx, "Scheduler armed (%s %s), next run at %s",
		s.spec, s.loc, s.NextFire(s.now()).Format(time.RFC3339))
}

// Stop disarms the scheduler and cancels an in-flight run. The returned
// context is done once that run has returned. Calling Stop while idle
// returns an already-done context.
func (s *Scheduler) Stop() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		done, cancel := context.WithCancel(context.Background())
		cancel()
		return done
	}

	done := s.cron.Stop()
	s.cancel()
	s.cron = nil
	s.cancel = nil
	return done
}

// State reports the current state and, when scheduled, the next fire time.
func (s *Scheduler) State() SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := SchedulerStatus{State: SchedulerIdle, Spec: s.spec, Location: s.loc.String()}
	if s.cron != nil {
		next := s.NextFire(s.now())
		status.State = SchedulerScheduled
		status.NextFire = &next
	}
	return status
}
