package store

import (
	"context"
	"sync"
	"time"
)

type resourceKey struct {
	name     string
	language string
}

// MemoryStore keeps resources in a map. It is intended for tests and for
// resources registered in code.
type MemoryStore struct {
	mu        sync.RWMutex
	resources map[resourceKey]*Resource
	closed    bool
}

// MemoryDriver opens MemoryStore instances.
type MemoryDriver struct{}

func init() {
	Register(DriverMemory, &MemoryDriver{})
}

// Open creates an empty MemoryStore; the connection string is ignored.
func (d *MemoryDriver) Open(string) (Store, error) {
	return NewMemoryStore(), nil
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{resources: make(map[resourceKey]*Resource)}
}

// Get implements Store
func (s *MemoryStore) Get(ctx context.Context, name, language string) (*Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, newClosedError()
	}
	r, ok := s.resources[resourceKey{name: name, language: language}]
	if !ok {
		return nil, newNotFoundError(name, language)
	}
	return copyResource(r), nil
}

// List implements Store
func (s *MemoryStore) List(ctx context.Context) ([]*Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, newClosedError()
	}
	list := make([]*Resource, 0, len(s.resources))
	for _, r := range s.resources {
		list = append(list, copyResource(r))
	}
	sortResources(list)
	return list, nil
}

// Save implements Store
func (s *MemoryStore) Save(ctx context.Context, resource *Resource) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateResource(resource); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return newClosedError()
	}
	resource.UpdatedAt = time.Now()
	s.resources[resourceKey{name: resource.Name, language: resource.Language}] = copyResource(resource)
	return nil
}

// Delete implements Store
func (s *MemoryStore) Delete(ctx context.Context, name, language string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return newClosedError()
	}
	key := resourceKey{name: name, language: language}
	if _, ok := s.resources[key]; !ok {
		return newNotFoundError(name, language)
	}
	delete(s.resources, key)
	return nil
}

// Close implements Store
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.resources = nil
	return nil
}
