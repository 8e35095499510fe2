package inventory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/grocery-service-go/internal/apperr"
)

// Store owns the product catalog and is the single source of truth for
// stock. Every mutation is persisted through the Repository before the
// call returns.
type Store struct {
	repo   Repository
	logger zerolog.Logger

	mu       sync.Mutex
	products map[string]*Product // key -> product
	order    []string            // keys in insertion order
}

func NewStore(repo Repository, logger zerolog.Logger) *Store {
	return &Store{
		repo:     repo,
		logger:   logger.With().Str("component", "inventory").Logger(),
		products: make(map[string]*Product),
	}
}

// AddOrUpdate creates a product or updates an existing one.
//
// Watch the naming: for a new product initialStockOrDelta is the absolute
// starting stock, for an existing one it is added to the current stock.
// Callers rely on repeated calls accumulating stock.
func (s *Store) AddOrUpdate(ctx context.Context, name string, price, initialStockOrDelta decimal.Decimal) (string, error) {
	display := strings.TrimSpace(name)
	if display == "" {
		return "", apperr.New(ErrInvalidName, "Product name is required.")
	}
	if price.IsNegative() {
		return "", apperr.New(ErrInvalidPrice, "Price must be >= 0.")
	}
	if !InScale(price) {
		return "", apperr.New(ErrInvalidPrice, "Price is out of range.")
	}
	if !InScale(initialStockOrDelta) {
		return "", apperr.New(ErrInvalidQuantity, "Stock is out of range.")
	}

	k := Key(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.products[k]; ok {
		next := p.Stock.Add(initialStockOrDelta)
		if next.IsNegative() {
			return "", apperr.New(ErrInvalidQuantity, "Stock for %s cannot go below 0. Available: %s", p.Name, p.Stock)
		}
		p.Stock = next
		p.Price = price
		if err := s.saveLocked(ctx); err != nil {
			return "", err
		}
		return fmt.Sprintf("Updated %s: stock=%s, price=%s", p.Name, p.Stock, p.Price), nil
	}

	if initialStockOrDelta.IsNegative() {
		return "", apperr.New(ErrInvalidQuantity, "Stock must be >= 0.")
	}
	s.products[k] = &Product{Name: display, Price: price, Stock: initialStockOrDelta}
	s.order = append(s.order, k)
	if err := s.saveLocked(ctx); err != nil {
		return "", err
	}
	return fmt.Sprintf("Added new product %s with stock=%s, price=%s", display, initialStockOrDelta, price), nil
}

// Find looks a product up by name, ignoring case and surrounding space.
func (s *Store) Find(name string) (Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[Key(name)]
	if !ok {
		return Product{}, false
	}
	return *p, true
}

// ListAll returns every product in insertion order.
func (s *Store) ListAll() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// ReserveStock takes qty out of a product's stock. On failure stock is left
// untouched.
func (s *Store) ReserveStock(ctx context.Context, name string, qty decimal.Decimal) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[Key(name)]
	if !ok {
		return "", apperr.New(ErrNotFound, "%s not found in inventory.", name)
	}
	if !qty.IsPositive() {
		return "", apperr.New(ErrInvalidQuantity, "Quantity must be > 0.")
	}
	if !InScale(qty) {
		return "", apperr.New(ErrInvalidQuantity, "Quantity is out of range.")
	}
	if p.Stock.LessThan(qty) {
		return "", apperr.New(ErrInsufficientStock, "Not enough stock for %s. Available: %s", p.Name, p.Stock)
	}

	p.Stock = p.Stock.Sub(qty)
	if err := s.saveLocked(ctx); err != nil {
		// the reservation did not happen
		p.Stock = p.Stock.Add(qty)
		return "", err
	}
	return fmt.Sprintf("Reserved %s of %s.", qty, p.Name), nil
}

// RestoreStock puts qty back. Unknown products and non-positive or
// out-of-range quantities are ignored; only a failed save is reported.
func (s *Store) RestoreStock(ctx context.Context, name string, qty decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[Key(name)]
	if !ok || !qty.IsPositive() || !InScale(qty) {
		return nil
	}
	p.Stock = p.Stock.Add(qty)
	return s.saveLocked(ctx)
}

// Save writes the whole catalog to the repository.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

// Load replaces the in-memory catalog with the repository contents.
func (s *Store) Load(ctx context.Context) error {
	products, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load inventory: %w", err)
	}

	byKey := make(map[string]*Product, len(products))
	order := make([]string, 0, len(products))
	for _, p := range products {
		k := Key(p.Name)
		if _, dup := byKey[k]; dup {
			return fmt.Errorf("load inventory: duplicate product %q", p.Name)
		}
		if !InScale(p.Price) || !InScale(p.Stock) {
			return fmt.Errorf("load inventory: product %q: amount out of range", p.Name)
		}
		cp := p
		cp.Name = strings.TrimSpace(cp.Name)
		byKey[k] = &cp
		order = append(order, k)
	}

	s.mu.Lock()
	s.products = byKey
	s.order = order
	s.mu.Unlock()

	s.logger.Info().Int("products", len(order)).Msg("inventory loaded")
	return nil
}

func (s *Store) saveLocked(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.snapshotLocked()); err != nil {
		s.logger.Error().Err(err).Msg("save inventory failed")
		return fmt.Errorf("save inventory: %w", err)
	}
	s.logger.Debug().Int("products", len(s.order)).Msg("inventory saved")
	return nil
}

func (s *Store) snapshotLocked() []Product {
	out := make([]Product, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, *s.products[k])
	}
	return out
}
