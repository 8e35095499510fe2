package billing

import "github.com/shopspring/decimal"

// Line is one product in the cart. Price is the unit price seen on the
// most recent add.
type Line struct {
	Name     string
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// Amount is price times quantity at full precision.
func (l Line) Amount() decimal.Decimal {
	return l.Price.Mul(l.Quantity)
}

// Totals holds money values rounded to two places.
type Totals struct {
	Subtotal        decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	FinalTotal      decimal.Decimal
}

// Receipt is what checkout hands back: the cart as it was and its totals.
type Receipt struct {
	Items  []Line
	Totals Totals
}
