package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/yanqian/tithi-calendar/internal/domain/calendar"
)

// HorizonExtender fills in stored days missing from the rolling horizon.
type HorizonExtender interface {
	ExtendHorizons(ctx context.Context) (calendar.ExtendResult, error)
}

// Scheduler runs horizon maintenance on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	extender HorizonExtender
	timeout  time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	entryID cron.EntryID
	started bool
}

// New builds a scheduler. Standard five-field specs and descriptors such as
// "@yearly" or "@every 24h" are accepted.
func New(extender HorizonExtender, timeout time.Duration, logger *slog.Logger) *Scheduler {
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	return &Scheduler{
		cron: cron.New(cron.WithParser(cron.NewParser(
			cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
		)), cron.WithLocation(time.UTC)),
		extender: extender,
		timeout:  timeout,
		logger:   logger.With("component", "scheduler"),
	}
}

// Register schedules horizon maintenance. Calling it again replaces the previous entry.
func (s *Scheduler) Register(spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entryID != 0 {
		s.cron.Remove(s.entryID)
		s.entryID = 0
	}
	id, err := s.cron.AddFunc(spec, func() { s.RunOnce(context.Background()) })
	if err != nil {
		return fmt.Errorf("schedule horizon maintenance %q: %w", spec, err)
	}
	s.entryID = id
	return nil
}

// RunOnce performs a single maintenance pass and reports its outcome.
func (s *Scheduler) RunOnce(ctx context.Context) (calendar.ExtendResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	result, err := s.extender.ExtendHorizons(ctx)
	if err != nil {
		s.logger.Error("horizon maintenance failed", "error", err, "jobs", result.Jobs)
		return result, err
	}
	s.logger.Info("horizon maintenance finished",
		"locations", result.Locations,
		"jobs", result.Jobs,
		"rows", result.Rows,
		"elapsed", time.Since(started).String(),
	)
	return result, nil
}

// Next returns the next scheduled run, or zero when nothing is registered or the scheduler is stopped.
func (s *Scheduler) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entryID == 0 || !s.started {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// Start begins running registered entries in the background.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.cron.Start()
	s.started = true
	s.logger.Info("scheduler started")
}

// Stop halts the scheduler and waits for a running pass to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	done := s.cron.Stop()
	s.mu.Unlock()

	select {
	case <-done.Done():
		s.logger.Info("scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("scheduler stop interrupted", "error", ctx.Err())
	}
}
