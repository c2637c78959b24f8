package session

import (
	"context"
	"sync"

	"storefront/internal/domain"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewMemory() *MemoryRepo {
	return &MemoryRepo{sessions: make(map[string]Session)}
}

func (r *MemoryRepo) Create(_ context.Context, s Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.Token]; ok {
		return domain.ErrAlreadyExists
	}
	r.sessions[s.Token] = s
	return nil
}

func (r *MemoryRepo) Get(_ context.Context, token string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[token]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := s
	return &out, nil
}

func (r *MemoryRepo) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
	return nil
}
