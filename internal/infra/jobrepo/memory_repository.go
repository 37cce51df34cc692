package jobrepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/tithi-calendar/internal/domain/generation"
)

// MemoryRepository stores generation jobs in memory.
type MemoryRepository struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]generation.Job
	now  func() time.Time
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		jobs: make(map[uuid.UUID]generation.Job),
		now:  time.Now,
	}
}

// Create implements generation.Repository.
func (r *MemoryRepository) Create(_ context.Context, job generation.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.jobs[job.ID]; exists {
		return fmt.Errorf("job %s already exists", job.ID)
	}
	r.jobs[job.ID] = cloneJob(job)
	return nil
}

// Get implements generation.Repository.
func (r *MemoryRepository) Get(_ context.Context, id uuid.UUID) (generation.Job, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return generation.Job{}, false, nil
	}
	return cloneJob(job), true, nil
}

// UpdateStatus implements generation.Repository.
func (r *MemoryRepository) UpdateStatus(_ context.Context, id uuid.UUID, status generation.Status, rows int, failureReason *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return fmt.Errorf("job %s not found", id)
	}
	job.Status = status
	job.Rows = rows
	job.FailureReason = nil
	if failureReason != nil {
		reason := *failureReason
		job.FailureReason = &reason
	}
	job.UpdatedAt = r.now().UTC()
	r.jobs[id] = job
	return nil
}

// ListByLocation implements generation.Repository.
func (r *MemoryRepository) ListByLocation(_ context.Context, locationID int64) ([]generation.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []generation.Job
	for _, job := range r.jobs {
		if job.LocationID == locationID {
			out = append(out, cloneJob(job))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func cloneJob(job generation.Job) generation.Job {
	if job.FailureReason != nil {
		reason := *job.FailureReason
		job.FailureReason = &reason
	}
	return job
}

var _ generation.Repository = (*MemoryRepository)(nil)
