package astronomyrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yanqian/tithi-calendar/internal/domain/astronomy"
	"github.com/yanqian/tithi-calendar/internal/domain/calendar"
)

// MemoryRepository keeps daily rows per location keyed by civil date.
type MemoryRepository struct {
	mu   sync.RWMutex
	rows map[int64]map[string]astronomy.DailyRecord
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[int64]map[string]astronomy.DailyRecord)}
}

// ListRange implements calendar.DailyAstronomyRepository.
func (r *MemoryRepository) ListRange(_ context.Context, locationID int64, start, end time.Time) ([]astronomy.DailyRecord, error) {
	from, to := astronomy.FormatDate(start), astronomy.FormatDate(end)
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]astronomy.DailyRecord, 0)
	for key, rec := range r.rows[locationID] {
		if key < from || key > to {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// ReplaceRange swaps the location bucket in one step so readers never see a
// partial range.
func (r *MemoryRepository) ReplaceRange(_ context.Context, locationID int64, start, end time.Time, records []astronomy.DailyRecord) error {
	from, to := astronomy.FormatDate(start), astronomy.FormatDate(end)
	r.mu.Lock()
	defer r.mu.Unlock()
	next := make(map[string]astronomy.DailyRecord, len(r.rows[locationID])+len(records))
	for key, rec := range r.rows[locationID] {
		if key >= from && key <= to {
			continue
		}
		next[key] = rec
	}
	for _, rec := range records {
		next[astronomy.FormatDate(rec.Date)] = rec.WithLocation(locationID)
	}
	r.rows[locationID] = next
	return nil
}

// LatestDate implements calendar.DailyAstronomyRepository.
func (r *MemoryRepository) LatestDate(_ context.Context, locationID int64) (time.Time, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	latest := ""
	var date time.Time
	for key, rec := range r.rows[locationID] {
		if key > latest {
			latest = key
			date = rec.Date
		}
	}
	return date, latest != "", nil
}

// Count implements calendar.DailyAstronomyRepository.
func (r *MemoryRepository) Count(_ context.Context, locationID int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows[locationID]), nil
}

// DeleteByLocation implements calendar.DailyAstronomyRepository.
func (r *MemoryRepository) DeleteByLocation(_ context.Context, locationID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, locationID)
	return nil
}

var _ calendar.DailyAstronomyRepository = (*MemoryRepository)(nil)
