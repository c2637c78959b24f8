package variant

import (
	"context"
	"sync"

	"storefront/internal/domain"
)

// MemoryRepo is the local-dev and test double for the variant lookup.
type MemoryRepo struct {
	mu       sync.RWMutex
	variants map[string]Detail
}

func NewMemory() *MemoryRepo {
	return &MemoryRepo{variants: make(map[string]Detail)}
}

// Put registers a variant with its display data.
func (r *MemoryRepo) Put(d Detail) {
	r.mu.Lock()
	r.variants[d.ID] = d
	r.mu.Unlock()
}

func (r *MemoryRepo) GetByID(_ context.Context, id string) (*domain.Variant, error) {
	r.mu.RLock()
	d, ok := r.variants[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	v := d.Variant
	return &v, nil
}

func (r *MemoryRepo) GetDetail(_ context.Context, id string) (*Detail, error) {
	r.mu.RLock()
	d, ok := r.variants[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := d
	return &out, nil
}
