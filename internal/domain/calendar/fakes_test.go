package calendar

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/tithi-calendar/internal/domain/astronomy"
	"github.com/yanqian/tithi-calendar/pkg/util"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubLocations struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]Location
}

func newStubLocations() *stubLocations {
	return &stubLocations{items: map[int64]Location{}}
}

func (s *stubLocations) Create(_ context.Context, loc Location) (Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	loc.ID = s.nextID
	s.items[loc.ID] = loc
	return loc, nil
}

func (s *stubLocations) Get(_ context.Context, id int64) (Location, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc, ok := s.items[id]
	return loc, ok, nil
}

func (s *stubLocations) List(_ context.Context) ([]Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Location, 0, len(s.items))
	for _, loc := range s.items {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubLocations) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[id]
	delete(s.items, id)
	return ok, nil
}

func (s *stubLocations) SetPrimary(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, loc := range s.items {
		loc.IsPrimary = key == id
		s.items[key] = loc
	}
	return nil
}

type stubRecords struct {
	mu   sync.Mutex
	rows map[int64]map[time.Time]astronomy.DailyRecord
}

func newStubRecords() *stubRecords {
	return &stubRecords{rows: map[int64]map[time.Time]astronomy.DailyRecord{}}
}

func (s *stubRecords) ListRange(_ context.Context, locationID int64, start, end time.Time) ([]astronomy.DailyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []astronomy.DailyRecord
	for date, rec := range s.rows[locationID] {
		if date.Before(start) || date.After(end) {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *stubRecords) ReplaceRange(_ context.Context, locationID int64, start, end time.Time, records []astronomy.DailyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket := s.rows[locationID]
	if bucket == nil {
		bucket = map[time.Time]astronomy.DailyRecord{}
		s.rows[locationID] = bucket
	}
	for date := range bucket {
		if !date.Before(start) && !date.After(end) {
			delete(bucket, date)
		}
	}
	for _, rec := range records {
		bucket[rec.Date] = rec
	}
	return nil
}

func (s *stubRecords) LatestDate(_ context.Context, locationID int64) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest time.Time
	for date := range s.rows[locationID] {
		if date.After(latest) {
			latest = date
		}
	}
	return latest, !latest.IsZero(), nil
}

func (s *stubRecords) Count(_ context.Context, locationID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows[locationID]), nil
}

func (s *stubRecords) DeleteByLocation(_ context.Context, locationID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, locationID)
	return nil
}

type stubPrefs struct {
	mu    sync.Mutex
	prefs Preferences
}

func (s *stubPrefs) Load(context.Context) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs, nil
}

func (s *stubPrefs) SetActiveLocation(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.ActiveLocationID = &id
	return nil
}

func (s *stubPrefs) ClearActiveLocation(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.ActiveLocationID = nil
	return nil
}

func (s *stubPrefs) SetTemporaryLocation(_ context.Context, loc TemporaryLocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.TemporaryLocation = &loc
	return nil
}

func (s *stubPrefs) ClearTemporaryLocation(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.TemporaryLocation = nil
	return nil
}

// generatingBuilder stores generator output directly, standing in for the job pipeline.
type generatingBuilder struct {
	locations *stubLocations
	records   *stubRecords
	generator *astronomy.Generator
	calls     int
	fail      bool
}

func (b *generatingBuilder) Build(ctx context.Context, locationID int64, start, end time.Time) (BuildResult, error) {
	b.calls++
	if b.fail {
		return BuildResult{}, errors.New("generator exploded")
	}
	loc, ok, _ := b.locations.Get(ctx, locationID)
	if !ok {
		return BuildResult{}, errors.New("location vanished")
	}
	recs, err := b.generator.GenerateRange(start, end, loc.Coordinate())
	if err != nil {
		return BuildResult{}, err
	}
	for i := range recs {
		recs[i] = recs[i].WithLocation(locationID)
	}
	if err := b.records.ReplaceRange(ctx, locationID, start, end, recs); err != nil {
		return BuildResult{}, err
	}
	return BuildResult{JobID: uuid.New(), Rows: len(recs)}, nil
}

type fixture struct {
	locations *stubLocations
	records   *stubRecords
	prefs     *stubPrefs
	builder   *generatingBuilder
	svc       *Service
}

func newFixture(now time.Time) *fixture {
	cfg := Config{
		MaxRangeDays: 1461,
		EpochYear:    2025,
		HorizonYears: 2,
		DefaultLocation: DefaultLocation{
			Name:      "The Hague",
			Latitude:  52.0705,
			Longitude: 4.3007,
		},
	}
	locations := newStubLocations()
	records := newStubRecords()
	prefs := &stubPrefs{}
	generator := astronomy.NewGenerator(cfg.MaxRangeDays)
	builder := &generatingBuilder{locations: locations, records: records, generator: generator}
	reconciler := NewReconciler(cfg, locations, records, prefs, generator, nil)
	svc := NewService(cfg, locations, records, prefs, builder, reconciler, util.FixedClock(now), discardLogger())
	return &fixture{locations: locations, records: records, prefs: prefs, builder: builder, svc: svc}
}
