package inventory

import (
	"context"
	"sync"
)

// Repository persists the whole catalog. Save always receives the full
// product list in insertion order and overwrites whatever was stored.
type Repository interface {
	Save(ctx context.Context, products []Product) error
	Load(ctx context.Context) ([]Product, error)
}

// MemoryRepository keeps the last saved snapshot in memory.
type MemoryRepository struct {
	mu       sync.Mutex
	products []Product
	saves    int
}

func NewMemoryRepository(initial ...Product) *MemoryRepository {
	return &MemoryRepository{products: append([]Product(nil), initial...)}
}

func (r *MemoryRepository) Save(_ context.Context, products []Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = append([]Product(nil), products...)
	r.saves++
	return nil
}

func (r *MemoryRepository) Load(_ context.Context) ([]Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Product(nil), r.products...), nil
}

// Saves reports how many times Save was called.
func (r *MemoryRepository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}
