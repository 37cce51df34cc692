package locationrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/yanqian/tithi-calendar/internal/domain/calendar"
)

// MemoryRepository is an in-memory LocationRepository used for tests/dev.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]calendar.Location
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID: 1,
		items:  make(map[int64]calendar.Location),
	}
}

// Create implements calendar.LocationRepository.
func (r *MemoryRepository) Create(_ context.Context, loc calendar.Location) (calendar.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	loc.ID = r.nextID
	r.nextID++
	r.items[loc.ID] = loc
	return loc, nil
}

// Get implements calendar.LocationRepository.
func (r *MemoryRepository) Get(_ context.Context, id int64) (calendar.Location, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	loc, ok := r.items[id]
	return loc, ok, nil
}

// List implements calendar.LocationRepository.
func (r *MemoryRepository) List(_ context.Context) ([]calendar.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]calendar.Location, 0, len(r.items))
	for _, loc := range r.items {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Delete implements calendar.LocationRepository.
func (r *MemoryRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

// SetPrimary implements calendar.LocationRepository.
func (r *MemoryRepository) SetPrimary(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, loc := range r.items {
		loc.IsPrimary = key == id
		r.items[key] = loc
	}
	return nil
}

var _ calendar.LocationRepository = (*MemoryRepository)(nil)
