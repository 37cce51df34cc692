package astronomyrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/tithi-calendar/internal/domain/astronomy"
	"github.com/yanqian/tithi-calendar/internal/domain/calendar"
)

// PostgresRepository implements calendar.DailyAstronomyRepository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// ListRange returns the stored rows of [start, end] ordered by date.
func (r *PostgresRepository) ListRange(ctx context.Context, locationID int64, start, end time.Time) ([]astronomy.DailyRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT date, location_id, version, percentage_visible, is_waxing, phase, sunrise, sunset, moonrise, moonset
		FROM daily_astronomy
		WHERE location_id = $1 AND date BETWEEN $2::date AND $3::date
		ORDER BY date ASC
	`, locationID, astronomy.FormatDate(start), astronomy.FormatDate(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]astronomy.DailyRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ReplaceRange deletes and re-inserts the range inside one transaction. The
// insert also upserts on (date, location_id) so a concurrent writer cannot
// cause duplicates.
func (r *PostgresRepository) ReplaceRange(ctx context.Context, locationID int64, start, end time.Time, records []astronomy.DailyRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		DELETE FROM daily_astronomy
		WHERE location_id = $1 AND date BETWEEN $2::date AND $3::date
	`, locationID, astronomy.FormatDate(start), astronomy.FormatDate(end)); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		var phase *string
		if rec.Phase != nil {
			value := string(*rec.Phase)
			phase = &value
		}
		batch.Queue(`
			INSERT INTO daily_astronomy (date, location_id, version, percentage_visible, is_waxing, phase, sunrise, sunset, moonrise, moonset)
			VALUES ($1::date, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (date, location_id) DO UPDATE SET
				version = EXCLUDED.version,
				percentage_visible = EXCLUDED.percentage_visible,
				is_waxing = EXCLUDED.is_waxing,
				phase = EXCLUDED.phase,
				sunrise = EXCLUDED.sunrise,
				sunset = EXCLUDED.sunset,
				moonrise = EXCLUDED.moonrise,
				moonset = EXCLUDED.moonset
		`, astronomy.FormatDate(rec.Date), locationID, rec.Version, rec.PercentageVisible, rec.IsWaxing,
			phase, rec.Sunrise, rec.Sunset, rec.Moonrise, rec.Moonset)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// LatestDate returns the last stored civil date of a location.
func (r *PostgresRepository) LatestDate(ctx context.Context, locationID int64) (time.Time, bool, error) {
	var latest *time.Time
	err := r.pool.QueryRow(ctx, `SELECT MAX(date) FROM daily_astronomy WHERE location_id = $1`, locationID).Scan(&latest)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	if latest == nil {
		return time.Time{}, false, nil
	}
	return astronomy.CivilDate(*latest), true, nil
}

// Count returns how many rows a location owns.
func (r *PostgresRepository) Count(ctx context.Context, locationID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM daily_astronomy WHERE location_id = $1`, locationID).Scan(&count)
	return count, err
}

// DeleteByLocation removes every row of a location.
func (r *PostgresRepository) DeleteByLocation(ctx context.Context, locationID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM daily_astronomy WHERE location_id = $1`, locationID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (astronomy.DailyRecord, error) {
	var (
		rec        astronomy.DailyRecord
		date       time.Time
		locationID int64
		phase      *string
	)
	if err := row.Scan(&date, &locationID, &rec.Version, &rec.PercentageVisible, &rec.IsWaxing, &phase,
		&rec.Sunrise, &rec.Sunset, &rec.Moonrise, &rec.Moonset); err != nil {
		return astronomy.DailyRecord{}, err
	}
	// DATE columns come back as UTC midnight; records use noon.
	rec.Date = astronomy.CivilDate(date)
	if phase != nil {
		if named, ok := astronomy.ParseNamedPhase(*phase); ok {
			rec.Phase = &named
		}
	}
	return rec.WithLocation(locationID), nil
}

var _ calendar.DailyAstronomyRepository = (*PostgresRepository)(nil)
