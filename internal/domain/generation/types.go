package generation

import (
	"time"

	"github.com/google/uuid"
)

// JobName is the queue name of bulk generation jobs.
const JobName = "generate_daily_astronomy"

// Status tracks the lifecycle of a job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Done reports whether the job reached a terminal state.
func (s Status) Done() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is one bulk generation of a location date range.
type Job struct {
	ID            uuid.UUID `json:"id"`
	LocationID    int64     `json:"locationId"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	Status        Status    `json:"status"`
	Rows          int       `json:"rows"`
	FailureReason *string   `json:"failureReason,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Config bounds how long callers wait for a job.
type Config struct {
	WaitTimeout  time.Duration
	PollInterval time.Duration
}
