package product

import (
	"context"
	"sync"

	"storefront/internal/domain"
)

// MemoryRepo backs local development and tests.
type MemoryRepo struct {
	mu       sync.RWMutex
	order    []string
	products map[string]Detail
}

func NewMemory() *MemoryRepo {
	return &MemoryRepo{products: make(map[string]Detail)}
}

// Put inserts or replaces a product with its variants.
func (r *MemoryRepo) Put(d Detail) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.products[d.ID]; !exists {
		r.order = append(r.order, d.ID)
	}
	r.products[d.ID] = d
}

func (r *MemoryRepo) List(_ context.Context) ([]Detail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Detail, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.products[id])
	}
	return result, nil
}

func (r *MemoryRepo) GetByID(_ context.Context, id string) (*Detail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := d
	return &out, nil
}
