package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Scheduler runs full verification on a cron schedule, independent of
// filesystem events.
type Scheduler struct {
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a scheduler for the given cron expression. An
// empty expression produces a scheduler that does nothing.
func NewScheduler(schedule string) *Scheduler {
	return &Scheduler{
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "watcher.scheduler"),
	}
}

// Start begins scheduled verification. The verify callback runs at
// each tick until the context is cancelled.
//
// Common expressions:
//   - "0 3 * * *"   - Daily at 3 AM
//   - "0 */6 * * *" - Every 6 hours
func (s *Scheduler) Start(ctx context.Context, verify func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("verification schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	if _, err := s.cron.AddFunc(s.schedule, func() {
		s.logger.Info("scheduled verification starting")
		verify()
	}); err != nil {
		return fmt.Errorf("failed to schedule verification: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("verification scheduler started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop halts the scheduler and waits for a running verification to
// finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.running = false

	s.logger.Info("verification scheduler stopped")
}
