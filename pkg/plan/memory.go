package plan

import (
	"context"
	"sync"
)

// MemoryStore keeps plans in a map. Returned plans are copies.
type MemoryStore struct {
	mu    sync.RWMutex
	plans map[string]*Plan
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{plans: make(map[string]*Plan)}
}

func (s *MemoryStore) Save(ctx context.Context, p *Plan) error {
	if err := validate(p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, old := range s.plans {
		if old.Name == p.Name && id != p.ID {
			delete(s.plans, id)
		}
	}
	s.plans[p.ID] = clonePlan(p)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.plans[id]
	if !ok {
		return nil, notFound(id)
	}
	return clonePlan(p), nil
}

func (s *MemoryStore) GetByName(ctx context.Context, name string) (*Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.plans {
		if p.Name == name {
			return clonePlan(p), nil
		}
	}
	return nil, notFound(name)
}

func (s *MemoryStore) List(ctx context.Context) ([]*Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Plan, 0, len(s.plans))
	for _, p := range s.plans {
		out = append(out, clonePlan(p))
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.plans[id]; !ok {
		return notFound(id)
	}
	delete(s.plans, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
