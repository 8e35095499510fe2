package billing

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/grocery-service-go/internal/apperr"
	"github.com/andreasstove999/grocery-service-go/internal/inventory"
)

var (
	hundred = decimal.NewFromInt(100)
)

// Inventory is the part of the inventory store the ledger depends on.
// Every stock change goes through it.
type Inventory interface {
	ReserveStock(ctx context.Context, name string, qty decimal.Decimal) (string, error)
	RestoreStock(ctx context.Context, name string, qty decimal.Decimal) error
	Find(name string) (inventory.Product, bool)
}

// Ledger is the shopping cart plus a whole-cart discount. Its lines always
// mirror what has been reserved from the inventory.
type Ledger struct {
	inv    Inventory
	logger zerolog.Logger

	// mu is held across reserve-then-record and remove-then-restore;
	// it is always taken before the inventory's own lock.
	mu              sync.Mutex
	lines           map[string]*Line
	order           []string
	discountPercent decimal.Decimal
}

func NewLedger(inv Inventory, logger zerolog.Logger) *Ledger {
	return &Ledger{
		inv:    inv,
		logger: logger.With().Str("component", "billing").Logger(),
		lines:  make(map[string]*Line),
	}
}

// AddToCart reserves qty from the inventory and records it in the cart.
// An inventory failure is returned as is and the cart is left untouched.
func (l *Ledger) AddToCart(ctx context.Context, name string, qty decimal.Decimal) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.inv.ReserveStock(ctx, name, qty); err != nil {
		return "", err
	}

	k := inventory.Key(name)
	display, price := strings.TrimSpace(name), decimal.Zero
	if p, ok := l.inv.Find(name); ok {
		display, price = p.Name, p.Price
	}

	if line, ok := l.lines[k]; ok {
		line.Quantity = line.Quantity.Add(qty)
		line.Price = price
		display = line.Name
	} else {
		l.lines[k] = &Line{Name: display, Price: price, Quantity: qty}
		l.order = append(l.order, k)
	}

	l.logger.Debug().Str("product", display).Stringer("qty", qty).Msg("added to cart")
	return fmt.Sprintf("Added %s x %s to cart.", qty, display), nil
}

// RemoveFromCart drops the whole line and gives its quantity back to the
// inventory. Partial removal is not supported.
func (l *Ledger) RemoveFromCart(ctx context.Context, name string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := inventory.Key(name)
	line, ok := l.lines[k]
	if !ok {
		return "", apperr.New(ErrNotInCart, "%s not found in cart.", name)
	}

	delete(l.lines, k)
	for i, key := range l.order {
		if key == k {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}

	if err := l.inv.RestoreStock(ctx, line.Name, line.Quantity); err != nil {
		return "", fmt.Errorf("restore %s: %w", line.Name, err)
	}

	l.logger.Debug().Str("product", line.Name).Stringer("qty", line.Quantity).Msg("removed from cart")
	return fmt.Sprintf("Removed %s from cart.", line.Name), nil
}

// ApplyDiscount replaces the current discount; discounts do not stack.
func (l *Ledger) ApplyDiscount(percent decimal.Decimal) (string, error) {
	if !inventory.InScale(percent) || percent.IsNegative() || percent.GreaterThan(hundred) {
		return "", apperr.New(ErrInvalidDiscount, "Discount must be between 0 and 100.")
	}

	l.mu.Lock()
	l.discountPercent = percent
	l.mu.Unlock()

	return fmt.Sprintf("Discount of %s%% applied.", percent), nil
}

func (l *Ledger) ClearDiscount() {
	l.mu.Lock()
	l.discountPercent = decimal.Zero
	l.mu.Unlock()
}

func (l *Ledger) DiscountPercent() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.discountPercent
}

// Lines returns the cart lines in the order they were first added.
func (l *Ledger) Lines() []Line {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.linesLocked()
}

// Subtotal is the unrounded sum of price times quantity.
func (l *Ledger) Subtotal() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.subtotalLocked()
}

func (l *Ledger) Totals() Totals {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalsLocked()
}

// Checkout snapshots the cart, then empties it and resets the discount.
// Stock was already taken when items were added, so the inventory is not
// touched here.
func (l *Ledger) Checkout() Receipt {
	l.mu.Lock()
	defer l.mu.Unlock()

	receipt := Receipt{Items: l.linesLocked(), Totals: l.totalsLocked()}

	l.lines = make(map[string]*Line)
	l.order = nil
	l.discountPercent = decimal.Zero

	l.logger.Info().
		Int("items", len(receipt.Items)).
		Stringer("final_total", receipt.Totals.FinalTotal).
		Msg("checkout complete")
	return receipt
}

func (l *Ledger) linesLocked() []Line {
	out := make([]Line, 0, len(l.order))
	for _, k := range l.order {
		out = append(out, *l.lines[k])
	}
	return out
}

func (l *Ledger) subtotalLocked() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range l.lines {
		sum = sum.Add(line.Amount())
	}
	return sum
}

func (l *Ledger) totalsLocked() Totals {
	sub := l.subtotalLocked()
	discount := decimal.Zero
	if l.discountPercent.IsPositive() {
		discount = sub.Mul(l.discountPercent).Shift(-2)
	}
	// final is derived from the rounded parts so the three always add up
	sub, discount = sub.Round(2), discount.Round(2)
	return Totals{
		Subtotal:        sub,
		DiscountPercent: l.discountPercent,
		DiscountAmount:  discount,
		FinalTotal:      sub.Sub(discount),
	}
}
