// Package scheduler runs periodic catalog maintenance on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/bookcatalog/internal/config"
)

// SweepEnqueuer hands an orphan sweep to the task queue.
type SweepEnqueuer interface {
	EnqueueSweep() error
}

var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule reports whether schedule is a five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	if _, err := scheduleParser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	return nil
}

// SweepScheduler enqueues orphan sweeps on a cron schedule.
type SweepScheduler struct {
	enqueuer SweepEnqueuer
	cfg      config.Sweep

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
}

func NewSweepScheduler(enqueuer SweepEnqueuer, cfg config.Sweep) *SweepScheduler {
	return &SweepScheduler{
		enqueuer: enqueuer,
		cfg:      cfg,
		cron:     cron.New(cron.WithParser(scheduleParser)),
	}
}

// Start begins the scheduler if sweeping is enabled. The scheduler stops when ctx is done.
func (s *SweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if !s.cfg.Enabled {
		log.Info().Msg("Sweep scheduler: disabled")
		return nil
	}
	if err := ValidateCronSchedule(s.cfg.Schedule); err != nil {
		return err
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, s.enqueue)
	if err != nil {
		return fmt.Errorf("failed to schedule sweep job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	log.Info().Str("schedule", s.cfg.Schedule).Time("next_run", s.cron.Entry(entryID).Next).
		Msg("Sweep scheduler: started")

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop waits for a running enqueue to finish and stops the scheduler.
func (s *SweepScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	s.isRunning = false
	log.Info().Msg("Sweep scheduler: stopped")
}

// RunNow enqueues a sweep immediately.
func (s *SweepScheduler) RunNow() error {
	return s.enqueuer.EnqueueSweep()
}

func (s *SweepScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next sweep will be enqueued, or nil when stopped.
func (s *SweepScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	next := s.cron.Entry(s.entryID).Next
	return &next
}

func (s *SweepScheduler) enqueue() {
	if err := s.enqueuer.EnqueueSweep(); err != nil {
		log.Error().Err(err).Msg("Sweep scheduler: failed to enqueue sweep")
		return
	}
	log.Debug().Msg("Sweep scheduler: sweep enqueued")
}
