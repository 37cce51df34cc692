package prefstore

import (
	"context"
	"sync"

	"github.com/yanqian/tithi-calendar/internal/domain/calendar"
)

// MemoryStore keeps preferences in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	activeID  *int64
	temporary *calendar.TemporaryLocation
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(context.Context) (calendar.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var prefs calendar.Preferences
	if s.activeID != nil {
		id := *s.activeID
		prefs.ActiveLocationID = &id
	}
	if s.temporary != nil {
		tmp := *s.temporary
		prefs.TemporaryLocation = &tmp
	}
	return prefs, nil
}

func (s *MemoryStore) SetActiveLocation(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeID = &id
	return nil
}

func (s *MemoryStore) ClearActiveLocation(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeID = nil
	return nil
}

func (s *MemoryStore) SetTemporaryLocation(_ context.Context, loc calendar.TemporaryLocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.temporary = &loc
	return nil
}

func (s *MemoryStore) ClearTemporaryLocation(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.temporary = nil
	return nil
}

var _ calendar.PreferenceStore = (*MemoryStore)(nil)
