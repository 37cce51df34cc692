package locationrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/tithi-calendar/internal/domain/calendar"
)

// PostgresRepository implements calendar.LocationRepository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a location and returns it with its id.
func (r *PostgresRepository) Create(ctx context.Context, loc calendar.Location) (calendar.Location, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO saved_locations (name, latitude, longitude, is_primary, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, latitude, longitude, is_primary, created_at
	`, loc.Name, loc.Latitude, loc.Longitude, loc.IsPrimary, loc.CreatedAt)
	return scanLocation(row)
}

// Get fetches a location by id.
func (r *PostgresRepository) Get(ctx context.Context, id int64) (calendar.Location, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, latitude, longitude, is_primary, created_at
		FROM saved_locations
		WHERE id = $1
	`, id)
	loc, err := scanLocation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return calendar.Location{}, false, nil
		}
		return calendar.Location{}, false, err
	}
	return loc, true, nil
}

// List returns every location ordered by id.
func (r *PostgresRepository) List(ctx context.Context) ([]calendar.Location, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, latitude, longitude, is_primary, created_at
		FROM saved_locations
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locs []calendar.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locs = append(locs, loc)
	}
	return locs, rows.Err()
}

// Delete removes a location; its daily rows and jobs go with it through the cascade.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM saved_locations WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// SetPrimary flags one location as primary and clears the others.
func (r *PostgresRepository) SetPrimary(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE saved_locations SET is_primary = (id = $1)`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLocation(row rowScanner) (calendar.Location, error) {
	var loc calendar.Location
	if err := row.Scan(&loc.ID, &loc.Name, &loc.Latitude, &loc.Longitude, &loc.IsPrimary, &loc.CreatedAt); err != nil {
		return calendar.Location{}, err
	}
	loc.CreatedAt = loc.CreatedAt.UTC()
	return loc, nil
}

var _ calendar.LocationRepository = (*PostgresRepository)(nil)
