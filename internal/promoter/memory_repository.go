package promoter

import (
	"context"
	"errors"
	"sync"

	"github.com/promohub/promohub/internal/session"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Promoter
}

// NewMemoryRepository constructs an in-memory repository for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Promoter)}
}

func (r *memoryRepository) Create(_ context.Context, p Promoter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.storage {
		if existing.Phone == p.Phone {
			return errors.New("phone already registered")
		}
	}
	r.storage[p.ID] = p
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (Promoter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.storage[id]
	if !ok {
		return Promoter{}, ErrNotFound
	}
	return p, nil
}

func (r *memoryRepository) FindByPhone(_ context.Context, phone string) (Promoter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.storage {
		if p.Phone == phone {
			return p, nil
		}
	}
	return Promoter{}, ErrNotFound
}

func (r *memoryRepository) UpdateRole(_ context.Context, id string, role session.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.storage[id]
	if !ok {
		return ErrNotFound
	}
	p.Role = role
	r.storage[id] = p
	return nil
}
