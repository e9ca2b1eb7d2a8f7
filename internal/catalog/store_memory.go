package catalog

import (
	"context"
	"slices"
	"sync"
)

type MemStore struct {
	mu       sync.RWMutex
	products []Product
	byID     map[int]int
}

// NewMemStore keeps products in the given order. Later duplicates of an id
// are ignored.
func NewMemStore(products []Product) *MemStore {
	s := &MemStore{
		products: make([]Product, 0, len(products)),
		byID:     make(map[int]int, len(products)),
	}
	for _, p := range products {
		if _, dup := s.byID[p.ID]; dup {
			continue
		}
		s.byID[p.ID] = len(s.products)
		s.products = append(s.products, p)
	}
	return s
}

func NewStore() *MemStore {
	return NewMemStore(Defaults())
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.products), nil
}

func (s *MemStore) Get(ctx context.Context, id int) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return Product{}, false, nil
	}
	return s.products[i], true, nil
}
