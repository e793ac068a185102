package resources

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps resources in process memory. It is used when no
// database is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	items  map[int64]Resource
	nextID int64
	now    func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:  make(map[int64]Resource),
		nextID: 1,
		now:    time.Now,
	}
}

func (s *MemoryStore) List(_ context.Context) ([]Resource, error) {
	return s.filter(func(Resource) bool { return true }), nil
}

func (s *MemoryStore) ListPremium(_ context.Context) ([]Resource, error) {
	return s.filter(func(r Resource) bool { return r.IsPremium }), nil
}

func (s *MemoryStore) ListByCategory(_ context.Context, category string) ([]Resource, error) {
	return s.filter(func(r Resource) bool { return r.Category == category }), nil
}

func (s *MemoryStore) ListByType(_ context.Context, resourceType Type) ([]Resource, error) {
	return s.filter(func(r Resource) bool { return r.ResourceType == resourceType }), nil
}

func (s *MemoryStore) ListByTypeAndCategory(_ context.Context, resourceType Type, category string) ([]Resource, error) {
	return s.filter(func(r Resource) bool {
		return r.ResourceType == resourceType && r.Category == category
	}), nil
}

func (s *MemoryStore) Get(_ context.Context, id int64) (Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.items[id]
	if !ok {
		return Resource{}, ErrNotFound
	}
	return r, nil
}

func (s *MemoryStore) Create(_ context.Context, in CreateInput) (Resource, error) {
	if err := in.Validate(); err != nil {
		return Resource{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := Resource{
		ID:           s.nextID,
		Title:        in.Title,
		Description:  in.Description,
		URL:          in.URL,
		Category:     in.Category,
		ResourceType: in.ResourceType,
		IsPremium:    in.IsPremium,
		PromptText:   in.PromptText,
		ImageURL:     in.ImageURL,
		CreatedAt:    s.now().UTC(),
	}
	s.items[r.ID] = r
	s.nextID++

	return r, nil
}

func (s *MemoryStore) Update(_ context.Context, id int64, in UpdateInput) (Resource, error) {
	if err := in.Validate(); err != nil {
		return Resource{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.items[id]
	if !ok {
		return Resource{}, ErrNotFound
	}
	in.apply(&r)
	s.items[id] = r

	return r, nil
}

func (s *MemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *MemoryStore) filter(keep func(Resource) bool) []Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Resource, 0, len(s.items))
	for _, r := range s.items {
		if keep(r) {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result
}
