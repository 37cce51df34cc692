package calendar

import (
	"context"
	"time"

	"github.com/yanqian/tithi-calendar/internal/domain/astronomy"
)

// LocationRepository persists saved locations.
type LocationRepository interface {
	Create(ctx context.Context, loc Location) (Location, error)
	Get(ctx context.Context, id int64) (Location, bool, error)
	List(ctx context.Context) ([]Location, error)
	Delete(ctx context.Context, id int64) (bool, error)
	SetPrimary(ctx context.Context, id int64) error
}

// DailyAstronomyRepository stores generated rows keyed by (date, locationId).
type DailyAstronomyRepository interface {
	ListRange(ctx context.Context, locationID int64, start, end time.Time) ([]astronomy.DailyRecord, error)
	// ReplaceRange deletes the location rows inside [start, end] and inserts records
	// in one unit; either every record is stored or none is.
	ReplaceRange(ctx context.Context, locationID int64, start, end time.Time, records []astronomy.DailyRecord) error
	LatestDate(ctx context.Context, locationID int64) (time.Time, bool, error)
	Count(ctx context.Context, locationID int64) (int, error)
	DeleteByLocation(ctx context.Context, locationID int64) error
}

// PreferenceStore holds the active saved location and the temporary override.
type PreferenceStore interface {
	Load(ctx context.Context) (Preferences, error)
	SetActiveLocation(ctx context.Context, id int64) error
	ClearActiveLocation(ctx context.Context) error
	SetTemporaryLocation(ctx context.Context, loc TemporaryLocation) error
	ClearTemporaryLocation(ctx context.Context) error
}

// DatasetBuilder generates and stores the rows of a location for [start, end]
// and returns once the work has completed or failed.
type DatasetBuilder interface {
	Build(ctx context.Context, locationID int64, start, end time.Time) (BuildResult, error)
}
