package jobrepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/tithi-calendar/internal/domain/astronomy"
	"github.com/yanqian/tithi-calendar/internal/domain/generation"
)

// PostgresRepository persists generation jobs in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, job generation.Job) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO generation_jobs (id, location_id, start_date, end_date, status, rows_written, failure_reason, created_at, updated_at)
		VALUES ($1, $2, $3::date, $4::date, $5, $6, $7, $8, $9)
	`, job.ID, job.LocationID, astronomy.FormatDate(job.StartDate), astronomy.FormatDate(job.EndDate),
		string(job.Status), job.Rows, job.FailureReason, job.CreatedAt, job.UpdatedAt)
	return err
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status generation.Status, rows int, failureReason *string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE generation_jobs
		SET status = $1, rows_written = $2, failure_reason = $3, updated_at = NOW()
		WHERE id = $4
	`, string(status), rows, failureReason, id)
	return err
}

func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (generation.Job, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, location_id, start_date, end_date, status, rows_written, failure_reason, created_at, updated_at
		FROM generation_jobs
		WHERE id = $1
	`, id)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return generation.Job{}, false, nil
		}
		return generation.Job{}, false, err
	}
	return job, true, nil
}

func (r *PostgresRepository) ListByLocation(ctx context.Context, locationID int64) ([]generation.Job, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, location_id, start_date, end_date, status, rows_written, failure_reason, created_at, updated_at
		FROM generation_jobs
		WHERE location_id = $1
		ORDER BY created_at DESC
	`, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []generation.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (generation.Job, error) {
	var (
		job        generation.Job
		start, end time.Time
		status     string
	)
	if err := row.Scan(&job.ID, &job.LocationID, &start, &end, &status, &job.Rows, &job.FailureReason, &job.CreatedAt, &job.UpdatedAt); err != nil {
		return generation.Job{}, err
	}
	job.StartDate = astronomy.CivilDate(start)
	job.EndDate = astronomy.CivilDate(end)
	job.Status = generation.Status(status)
	job.CreatedAt = job.CreatedAt.UTC()
	job.UpdatedAt = job.UpdatedAt.UTC()
	return job, nil
}

var _ generation.Repository = (*PostgresRepository)(nil)
