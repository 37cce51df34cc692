package occurrencerepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/tithi-calendar/internal/domain/astronomy"
	"github.com/yanqian/tithi-calendar/internal/domain/lunar"
)

// PostgresRepository persists occurrences in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, occ lunar.Occurrence) (lunar.Occurrence, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO event_occurrences (title, date, tithi, paksha, nakshatra, notes, created_at)
		VALUES ($1, $2::date, $3, $4, $5, $6, $7)
		RETURNING id, title, date, tithi, paksha, nakshatra, notes, created_at
	`, occ.Title, astronomy.FormatDate(occ.Date), occ.Tithi, string(occ.Paksha), occ.Nakshatra, occ.Notes, occ.CreatedAt)
	return scanOccurrence(row)
}

func (r *PostgresRepository) ListRange(ctx context.Context, start, end time.Time) ([]lunar.Occurrence, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, date, tithi, paksha, nakshatra, notes, created_at
		FROM event_occurrences
		WHERE date BETWEEN $1::date AND $2::date
		ORDER BY date ASC, id ASC
	`, astronomy.FormatDate(start), astronomy.FormatDate(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []lunar.Occurrence
	for rows.Next() {
		occ, err := scanOccurrence(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, occ)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOccurrence(row rowScanner) (lunar.Occurrence, error) {
	var (
		occ    lunar.Occurrence
		date   time.Time
		paksha string
	)
	if err := row.Scan(&occ.ID, &occ.Title, &date, &occ.Tithi, &paksha, &occ.Nakshatra, &occ.Notes, &occ.CreatedAt); err != nil {
		return lunar.Occurrence{}, err
	}
	occ.Date = astronomy.CivilDate(date)
	occ.Paksha = lunar.Paksha(paksha)
	occ.CreatedAt = occ.CreatedAt.UTC()
	return occ, nil
}

var _ lunar.OccurrenceRepository = (*PostgresRepository)(nil)
