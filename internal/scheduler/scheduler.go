// Package scheduler runs the daily collection in-process for hosts that
// don't use the systemd timer. It uses robfig/cron/v3 with the same trigger
// semantics the timer unit encodes: once a day at the fixed hour plus the
// configured minute offset, in the fixed zone.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/spellgrid/gridder/internal/logger"
	"github.com/spellgrid/gridder/internal/systemd"
)

// RunFunc executes one collection run.
type RunFunc func(ctx context.Context) error

// Scheduler fires the run function on the daily schedule.
type Scheduler struct {
	cron    *cron.Cron
	log     *logger.Logger
	spec    string
	run     RunFunc
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	running bool
	mu      sync.Mutex
}

// New creates a scheduler firing daily at the fixed hour plus minuteDelay.
func New(log *logger.Logger, minuteDelay int, run RunFunc) (*Scheduler, error) {
	spec, err := Spec(minuteDelay)
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(systemd.TriggerZone)
	if err != nil {
		return nil, fmt.Errorf("failed to load trigger time zone: %w", err)
	}

	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc)),
		log:  log,
		spec: spec,
		run:  run,
	}, nil
}

// Spec returns the cron expression equivalent to the timer unit's calendar
// trigger for the given minute offset.
func Spec(minuteDelay int) (string, error) {
	if minuteDelay < 0 || minuteDelay > 59 {
		return "", fmt.Errorf("minute delay must be in range [0, 60), got %d", minuteDelay)
	}
	return fmt.Sprintf("%d %d * * *", minuteDelay, systemd.TriggerHour), nil
}

// Start registers the daily job and starts the cron loop. It returns
// immediately; the loop stops when ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("scheduler already started")
	}

	s.ctx, s.cancel = context.WithCancel(ctx)

	if _, err := s.cron.AddFunc(s.spec, s.fire); err != nil {
		s.cancel()
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	s.started = true
	s.cron.Start()
	s.log.Info("scheduler started", logger.Field{Key: "spec", Value: s.spec})

	go func() {
		<-s.ctx.Done()
		s.cron.Stop()
		s.log.Info("scheduler stopped")
	}()

	return nil
}

// Stop stops the cron loop.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return fmt.Errorf("scheduler not started")
	}

	s.cancel()
	s.started = false
	return nil
}

// fire executes one run, skipping the trigger entirely while a previous run
// is still in flight. The systemd timer behaves the same way: a new
// activation waits for the service to exit.
func (s *Scheduler) fire() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.log.Warn("previous run still in flight, skipping trigger")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()

		if r := recover(); r != nil {
			s.log.Error("run panic recovered", fmt.Errorf("panic: %v", r))
		}
	}()

	if err := s.run(s.ctx); err != nil {
		s.log.Error("scheduled run failed", err)
	}
}
