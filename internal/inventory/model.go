package inventory

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Stock may be fractional (sold by weight).
type Product struct {
	Name  string
	Price decimal.Decimal
	Stock decimal.Decimal
}

// MaxScale bounds the decimal exponent of every amount the store accepts.
// Out-of-range amounts are rejected before any comparison or arithmetic
// touches them.
const MaxScale = 18

// InScale reports whether d's exponent lies within ±MaxScale.
func InScale(d decimal.Decimal) bool {
	e := d.Exponent()
	return e >= -MaxScale && e <= MaxScale
}

// Key normalizes a product name into its identity key. Every lookup and
// write into the catalog or a cart goes through it.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
