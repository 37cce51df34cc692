package occurrencerepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yanqian/tithi-calendar/internal/domain/lunar"
)

// MemoryRepository stores occurrences in memory.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  []lunar.Occurrence
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

// Create implements lunar.OccurrenceRepository.
func (r *MemoryRepository) Create(_ context.Context, occ lunar.Occurrence) (lunar.Occurrence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	occ.ID = r.nextID
	r.nextID++
	r.items = append(r.items, occ)
	return occ, nil
}

// ListRange implements lunar.OccurrenceRepository.
func (r *MemoryRepository) ListRange(_ context.Context, start, end time.Time) ([]lunar.Occurrence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]lunar.Occurrence, 0)
	for _, occ := range r.items {
		if occ.Date.Before(start) || occ.Date.After(end) {
			continue
		}
		out = append(out, occ)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

var _ lunar.OccurrenceRepository = (*MemoryRepository)(nil)
