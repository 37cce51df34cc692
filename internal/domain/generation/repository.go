package generation

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists generation jobs.
type Repository interface {
	Create(ctx context.Context, job Job) error
	Get(ctx context.Context, id uuid.UUID) (Job, bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, rows int, failureReason *string) error
	ListByLocation(ctx context.Context, locationID int64) ([]Job, error)
}

// Queue enqueues processing tasks.
type Queue interface {
	Enqueue(ctx context.Context, name string, payload any) error
}
