package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used by tests and the minimal example.
// Safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	plants map[uuid.UUID]Plant
}

// NewMemoryStore creates an empty in-memory plant store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{plants: make(map[uuid.UUID]Plant)}
}

func (m *MemoryStore) FindByID(ctx context.Context, id uuid.UUID) (*Plant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plant, ok := m.plants[id]
	if !ok {
		return nil, nil
	}
	return &plant, nil
}

func (m *MemoryStore) FindAll(ctx context.Context) ([]Plant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Plant, 0, len(m.plants))
	for _, plant := range m.plants {
		out = append(out, plant)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PopularName < out[j].PopularName })
	return out, nil
}

func (m *MemoryStore) SearchPopularName(ctx context.Context, name string) ([]Plant, error) {
	return m.search(func(p Plant) bool {
		return containsFold(p.PopularName, name)
	})
}

func (m *MemoryStore) SearchScientificName(ctx context.Context, name string) ([]Plant, error) {
	return m.search(func(p Plant) bool {
		return containsFold(p.ScientificName, name)
	})
}

func (m *MemoryStore) Search(ctx context.Context, term string) ([]Plant, error) {
	return m.search(func(p Plant) bool {
		return containsFold(p.PopularName, term) || containsFold(p.ScientificName, term)
	})
}

func (m *MemoryStore) search(match func(Plant) bool) ([]Plant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []Plant{}
	for _, plant := range m.plants {
		if match(plant) {
			out = append(out, plant)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PopularName < out[j].PopularName })
	return out, nil
}

func (m *MemoryStore) Save(ctx context.Context, plant *Plant) (*Plant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.plants[plant.ID] = *plant
	saved := *plant
	return &saved, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.plants[id]; !ok {
		return ErrNotFound
	}
	delete(m.plants, id)
	return nil
}

func (m *MemoryStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.plants), nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
