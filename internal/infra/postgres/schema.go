package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS saved_locations (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL CHECK (latitude BETWEEN -90 AND 90),
		longitude DOUBLE PRECISION NOT NULL CHECK (longitude BETWEEN -180 AND 180),
		is_primary BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS daily_astronomy (
		date DATE NOT NULL,
		location_id BIGINT NOT NULL REFERENCES saved_locations(id) ON DELETE CASCADE,
		version SMALLINT NOT NULL,
		percentage_visible SMALLINT NOT NULL CHECK (percentage_visible BETWEEN 0 AND 100),
		is_waxing BOOLEAN NOT NULL,
		phase TEXT NULL,
		sunrise TEXT NULL,
		sunset TEXT NULL,
		moonrise TEXT NULL,
		moonset TEXT NULL,
		CONSTRAINT daily_astronomy_date_location_key UNIQUE (date, location_id)
	)`,
	`CREATE INDEX IF NOT EXISTS daily_astronomy_location_date_idx ON daily_astronomy (location_id, date)`,
	`CREATE TABLE IF NOT EXISTS generation_jobs (
		id UUID PRIMARY KEY,
		location_id BIGINT NOT NULL REFERENCES saved_locations(id) ON DELETE CASCADE,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		status TEXT NOT NULL,
		rows_written INTEGER NOT NULL DEFAULT 0,
		failure_reason TEXT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS generation_jobs_location_idx ON generation_jobs (location_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS event_occurrences (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		date DATE NOT NULL,
		tithi TEXT NOT NULL,
		paksha TEXT NOT NULL,
		nakshatra TEXT NULL,
		notes TEXT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS event_occurrences_date_idx ON event_occurrences (date)`,
}

// EnsureSchema creates the tables used by the repositories when missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
