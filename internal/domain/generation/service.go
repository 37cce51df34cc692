package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/tithi-calendar/internal/domain/astronomy"
	"github.com/yanqian/tithi-calendar/internal/domain/calendar"
	apperrors "github.com/yanqian/tithi-calendar/pkg/errors"
	"github.com/yanqian/tithi-calendar/pkg/metrics"
)

const (
	defaultWaitTimeout  = 2 * time.Minute
	defaultPollInterval = 500 * time.Millisecond
	// staleJobAfter lets a new job through when an unfinished one stopped updating.
	staleJobAfter = 15 * time.Minute
)

// Service runs bulk generation jobs: a job is submitted, processed by a queue
// worker and waited on through a completion signal.
type Service struct {
	cfg       Config
	jobs      Repository
	locations calendar.LocationRepository
	records   calendar.DailyAstronomyRepository
	generator *astronomy.Generator
	queue     Queue
	metrics   *metrics.Metrics
	clock     func() time.Time
	logger    *slog.Logger

	mu      sync.Mutex
	waiters map[uuid.UUID][]chan struct{}
}

// NewService constructs a Service.
func NewService(cfg Config, jobs Repository, locations calendar.LocationRepository, records calendar.DailyAstronomyRepository, generator *astronomy.Generator, queue Queue, m *metrics.Metrics, logger *slog.Logger) *Service {
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = defaultWaitTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	return &Service{
		cfg:       cfg,
		jobs:      jobs,
		locations: locations,
		records:   records,
		generator: generator,
		queue:     queue,
		metrics:   m,
		clock:     time.Now,
		logger:    logger.With("component", "generation.service"),
		waiters:   make(map[uuid.UUID][]chan struct{}),
	}
}

// Submit records a pending job and hands it to the queue.
func (s *Service) Submit(ctx context.Context, locationID int64, start, end time.Time) (Job, error) {
	start, end = astronomy.CivilDate(start), astronomy.CivilDate(end)
	if end.Before(start) {
		return Job{}, apperrors.Wrap(apperrors.CodeInvalidInput, "endDate precedes startDate", astronomy.ErrInvalidRange)
	}
	if _, found, err := s.locations.Get(ctx, locationID); err != nil {
		return Job{}, apperrors.Wrap(apperrors.CodeStorage, "failed to load location", err)
	} else if !found {
		return Job{}, apperrors.Wrap(apperrors.CodeNotFound, "location not found", nil)
	}
	if err := s.ensureIdle(ctx, locationID); err != nil {
		return Job{}, err
	}

	now := s.clock().UTC()
	job := Job{
		ID:         uuid.New(),
		LocationID: locationID,
		StartDate:  start,
		EndDate:    end,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return Job{}, apperrors.Wrap(apperrors.CodeStorage, "failed to create generation job", err)
	}
	if err := s.queue.Enqueue(ctx, JobName, map[string]any{"job_id": job.ID.String()}); err != nil {
		reason := "enqueue failed"
		_ = s.jobs.UpdateStatus(ctx, job.ID, StatusFailed, 0, &reason)
		return Job{}, apperrors.Wrap(apperrors.CodeStorage, "failed to enqueue generation job", err)
	}
	s.logger.Info("generation job submitted", "job_id", job.ID, "location_id", locationID,
		"start", astronomy.FormatDate(start), "end", astronomy.FormatDate(end))
	return job, nil
}

// ensureIdle refuses a second concurrent generation for the same location.
func (s *Service) ensureIdle(ctx context.Context, locationID int64) error {
	jobs, err := s.jobs.ListByLocation(ctx, locationID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "failed to list generation jobs", err)
	}
	cutoff := s.clock().Add(-staleJobAfter)
	for _, job := range jobs {
		if !job.Status.Done() && job.UpdatedAt.After(cutoff) {
			return apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("generation job %s is still %s", job.ID, job.Status), nil)
		}
	}
	return nil
}

// Get loads a job.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Job, error) {
	job, found, err := s.jobs.Get(ctx, id)
	if err != nil {
		return Job{}, apperrors.Wrap(apperrors.CodeStorage, "failed to load generation job", err)
	}
	if !found {
		return Job{}, apperrors.Wrap(apperrors.CodeNotFound, "generation job not found", nil)
	}
	return job, nil
}

// ListByLocation returns the jobs of a location, newest first.
func (s *Service) ListByLocation(ctx context.Context, locationID int64) ([]Job, error) {
	jobs, err := s.jobs.ListByLocation(ctx, locationID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "failed to list generation jobs", err)
	}
	if jobs == nil {
		jobs = []Job{}
	}
	return jobs, nil
}

// Wait blocks until the job is completed or failed, the wait timeout passes or
// ctx is done. Completion is signalled in-process; polling covers jobs finished
// by another worker.
func (s *Service) Wait(ctx context.Context, id uuid.UUID) (Job, error) {
	signal := s.subscribe(id)
	defer s.unsubscribe(id, signal)

	timer := time.NewTimer(s.cfg.WaitTimeout)
	defer timer.Stop()
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		job, err := s.Get(ctx, id)
		if err != nil {
			return Job{}, err
		}
		if job.Status.Done() {
			return job, nil
		}
		select {
		case <-signal:
		case <-ticker.C:
		case <-timer.C:
			return job, apperrors.Wrap(apperrors.CodeGeneration, "timed out waiting for generation job", nil)
		case <-ctx.Done():
			return job, apperrors.Wrap(apperrors.CodeGeneration, "stopped waiting for generation job", ctx.Err())
		}
	}
}

// Build submits a job and waits for it.
func (s *Service) Build(ctx context.Context, locationID int64, start, end time.Time) (calendar.BuildResult, error) {
	job, err := s.Submit(ctx, locationID, start, end)
	if err != nil {
		return calendar.BuildResult{}, err
	}
	done, err := s.Wait(ctx, job.ID)
	if err != nil {
		return calendar.BuildResult{JobID: job.ID}, err
	}
	if done.Status == StatusFailed {
		reason := "unknown failure"
		if done.FailureReason != nil {
			reason = *done.FailureReason
		}
		return calendar.BuildResult{JobID: job.ID}, apperrors.Wrap(apperrors.CodeGeneration, "generation job failed: "+reason, nil)
	}
	return calendar.BuildResult{JobID: done.ID, Rows: done.Rows}, nil
}

// Handle is the queue entry point.
func (s *Service) Handle(ctx context.Context, name string, payload map[string]any) {
	if name != JobName {
		s.logger.Warn("unknown job", "name", name)
		return
	}
	raw, _ := payload["job_id"].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		s.logger.Warn("invalid job payload", "job_id", raw, "error", err)
		return
	}
	if err := s.Process(ctx, id); err != nil {
		s.logger.Error("generation job failed", "job_id", id, "error", err)
	}
}

// Process generates and stores the job range. The location rows inside the
// range are replaced as one unit, so re-running a job is safe. Completed jobs
// are skipped.
func (s *Service) Process(ctx context.Context, id uuid.UUID) error {
	job, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if job.Status == StatusCompleted {
		return nil
	}
	started := s.clock()
	s.logger.Info("generation job start", "job_id", id, "location_id", job.LocationID)
	if err := s.jobs.UpdateStatus(ctx, id, StatusRunning, 0, nil); err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "failed to update generation job", err)
	}

	loc, found, err := s.locations.Get(ctx, job.LocationID)
	if err != nil {
		return s.fail(ctx, job, started, "failed to load location", apperrors.Wrap(apperrors.CodeStorage, "failed to load location", err))
	}
	if !found {
		return s.fail(ctx, job, started, "location not found", apperrors.Wrap(apperrors.CodeNotFound, "location not found", nil))
	}

	records, err := s.generator.GenerateRange(job.StartDate, job.EndDate, loc.Coordinate())
	if err != nil {
		code := apperrors.CodeGeneration
		if errors.Is(err, astronomy.ErrInvalidCoordinate) || errors.Is(err, astronomy.ErrInvalidRange) || errors.Is(err, astronomy.ErrRangeTooLong) {
			code = apperrors.CodeInvalidInput
		}
		return s.fail(ctx, job, started, err.Error(), apperrors.Wrap(code, "daily astronomy generation failed", err))
	}
	for i := range records {
		records[i] = records[i].WithLocation(loc.ID)
	}
	if err := s.records.ReplaceRange(ctx, loc.ID, job.StartDate, job.EndDate, records); err != nil {
		return s.fail(ctx, job, started, "persisting records failed", apperrors.Wrap(apperrors.CodeStorage, "failed to persist daily astronomy", err))
	}

	if err := s.jobs.UpdateStatus(ctx, id, StatusCompleted, len(records), nil); err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "failed to finalize generation job", err)
	}
	elapsed := s.clock().Sub(started)
	s.metrics.ObserveGeneration(string(StatusCompleted), len(records), elapsed)
	s.notify(id)
	s.logger.Info("generation job complete", "job_id", id, "location_id", loc.ID, "rows", len(records), "elapsed", elapsed)
	return nil
}

func (s *Service) fail(ctx context.Context, job Job, started time.Time, reason string, cause error) error {
	if err := s.jobs.UpdateStatus(ctx, job.ID, StatusFailed, 0, &reason); err != nil {
		s.logger.Warn("failed to mark generation job failed", "job_id", job.ID, "error", err)
	}
	s.metrics.ObserveGeneration(string(StatusFailed), 0, s.clock().Sub(started))
	s.notify(job.ID)
	return cause
}

func (s *Service) subscribe(id uuid.UUID) chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.waiters[id] = append(s.waiters[id], ch)
	s.mu.Unlock()
	return ch
}

func (s *Service) unsubscribe(id uuid.UUID, ch chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.waiters[id]
	for i, candidate := range list {
		if candidate == ch {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(s.waiters, id)
		return
	}
	s.waiters[id] = list
}

func (s *Service) notify(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.waiters[id] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

var _ calendar.DatasetBuilder = (*Service)(nil)
