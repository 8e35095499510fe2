package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/grocery-service-go/internal/apperr"
	"github.com/andreasstove999/grocery-service-go/internal/inventory"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, got.Equal(d(want)), "expected %s, got %s", want, got)
}

func setupLedger(t *testing.T) (*Ledger, *inventory.Store) {
	t.Helper()
	repo := inventory.NewMemoryRepository(
		inventory.Product{Name: "Rice", Price: d("55"), Stock: d("30")},
		inventory.Product{Name: "Sugar", Price: d("42"), Stock: d("20")},
		inventory.Product{Name: "Milk", Price: d("30"), Stock: d("25")},
		inventory.Product{Name: "Oil", Price: d("125"), Stock: d("12")},
	)
	store := inventory.NewStore(repo, zerolog.Nop())
	require.NoError(t, store.Load(context.Background()))
	return NewLedger(store, zerolog.Nop()), store
}

func stockOf(t *testing.T, store *inventory.Store, name string) decimal.Decimal {
	t.Helper()
	p, ok := store.Find(name)
	require.True(t, ok, "product %s missing", name)
	return p.Stock
}

func TestLedger_RiceScenario(t *testing.T) {
	ledger, store := setupLedger(t)
	ctx := context.Background()

	msg, err := ledger.AddToCart(ctx, "Rice", d("5"))
	require.NoError(t, err)
	assert.Equal(t, "Added 5 x Rice to cart.", msg)
	assertDecimal(t, "25", stockOf(t, store, "Rice"))

	lines := ledger.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "Rice", lines[0].Name)
	assertDecimal(t, "55", lines[0].Price)
	assertDecimal(t, "5", lines[0].Quantity)

	msg, err = ledger.ApplyDiscount(d("10"))
	require.NoError(t, err)
	assert.Equal(t, "Discount of 10% applied.", msg)

	totals := ledger.Totals()
	assertDecimal(t, "275", totals.Subtotal)
	assertDecimal(t, "10", totals.DiscountPercent)
	assertDecimal(t, "27.5", totals.DiscountAmount)
	assertDecimal(t, "247.5", totals.FinalTotal)

	receipt := ledger.Checkout()
	require.Len(t, receipt.Items, 1)
	assert.Equal(t, "Rice", receipt.Items[0].Name)
	assertDecimal(t, "247.5", receipt.Totals.FinalTotal)

	assert.Empty(t, ledger.Lines())
	assert.True(t, ledger.DiscountPercent().IsZero())
	assert.True(t, ledger.Totals().Subtotal.IsZero())
	// checkout does not touch stock
	assertDecimal(t, "25", stockOf(t, store, "Rice"))
}

func TestLedger_AddToCart_FailurePropagatesUnchanged(t *testing.T) {
	tests := []struct {
		name    string
		product string
		qty     string
		kind    error
		wantMsg string
	}{
		{name: "unknown product", product: "Bread", qty: "1", kind: inventory.ErrNotFound, wantMsg: "Bread not found in inventory."},
		{name: "zero quantity", product: "Rice", qty: "0", kind: inventory.ErrInvalidQuantity, wantMsg: "Quantity must be > 0."},
		{name: "too much", product: "Rice", qty: "1000", kind: inventory.ErrInsufficientStock, wantMsg: "Not enough stock for Rice. Available: 30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger, store := setupLedger(t)

			_, err := ledger.AddToCart(context.Background(), tt.product, d(tt.qty))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Empty(t, ledger.Lines())
			assertDecimal(t, "30", stockOf(t, store, "Rice"))
		})
	}
}

func TestLedger_AddToCart_RepeatedAddsAccumulate(t *testing.T) {
	ledger, store := setupLedger(t)
	ctx := context.Background()

	_, err := ledger.AddToCart(ctx, "Sugar", d("2"))
	require.NoError(t, err)

	// price changes between adds; the line takes the latest price
	_, err = store.AddOrUpdate(ctx, "sugar", d("45"), d("0"))
	require.NoError(t, err)

	msg, err := ledger.AddToCart(ctx, " SUGAR ", d("1.5"))
	require.NoError(t, err)
	assert.Equal(t, "Added 1.5 x Sugar to cart.", msg)

	lines := ledger.Lines()
	require.Len(t, lines, 1)
	assertDecimal(t, "3.5", lines[0].Quantity)
	assertDecimal(t, "45", lines[0].Price)
	assertDecimal(t, "16.5", stockOf(t, store, "Sugar"))
	assertDecimal(t, "157.5", ledger.Subtotal())
}

func TestLedger_AddThenRemoveIsRoundTrip(t *testing.T) {
	ledger, store := setupLedger(t)
	ctx := context.Background()

	_, err := ledger.AddToCart(ctx, "Milk", d("4"))
	require.NoError(t, err)
	_, err = ledger.AddToCart(ctx, "milk", d("6"))
	require.NoError(t, err)
	assertDecimal(t, "15", stockOf(t, store, "Milk"))

	msg, err := ledger.RemoveFromCart(ctx, "MILK")
	require.NoError(t, err)
	assert.Equal(t, "Removed Milk from cart.", msg)

	assertDecimal(t, "25", stockOf(t, store, "Milk"))
	assert.Empty(t, ledger.Lines())
}

func TestLedger_RemoveFromCart_NotInCart(t *testing.T) {
	ledger, store := setupLedger(t)
	ctx := context.Background()

	_, err := ledger.AddToCart(ctx, "Rice", d("1"))
	require.NoError(t, err)

	_, err = ledger.RemoveFromCart(ctx, "Sugar")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotInCart)
	assert.True(t, apperr.IsFailure(err))
	assert.Equal(t, "Sugar not found in cart.", err.Error())

	assert.Len(t, ledger.Lines(), 1)
	assertDecimal(t, "20", stockOf(t, store, "Sugar"))
}

func TestLedger_RemoveKeepsOrderOfOtherLines(t *testing.T) {
	ledger, _ := setupLedger(t)
	ctx := context.Background()

	for _, name := range []string{"Rice", "Sugar", "Milk"} {
		_, err := ledger.AddToCart(ctx, name, d("1"))
		require.NoError(t, err)
	}
	_, err := ledger.RemoveFromCart(ctx, "Sugar")
	require.NoError(t, err)

	lines := ledger.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "Rice", lines[0].Name)
	assert.Equal(t, "Milk", lines[1].Name)
}

func TestLedger_ApplyDiscount(t *testing.T) {
	tests := map[string]struct {
		percent string
		wantErr bool
	}{
		"zero":          {percent: "0"},
		"hundred":       {percent: "100"},
		"fractional":    {percent: "12.5"},
		"negative":      {percent: "-0.01", wantErr: true},
		"above hundred": {percent: "100.01", wantErr: true},
		"far above":     {percent: "250", wantErr: true},
		"tiny exponent": {percent: "1e-200000000", wantErr: true},
		"huge exponent": {percent: "1e200000000", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ledger, _ := setupLedger(t)
			_, err := ledger.ApplyDiscount(d("5"))
			require.NoError(t, err)

			_, err = ledger.ApplyDiscount(d(tt.percent))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidDiscount)
				assert.Equal(t, "Discount must be between 0 and 100.", err.Error())
				assertDecimal(t, "5", ledger.DiscountPercent())
				return
			}
			require.NoError(t, err)
			assertDecimal(t, tt.percent, ledger.DiscountPercent())
		})
	}
}

func TestLedger_ApplyDiscountReplaces(t *testing.T) {
	ledger, _ := setupLedger(t)
	ctx := context.Background()

	_, err := ledger.AddToCart(ctx, "Oil", d("2"))
	require.NoError(t, err)
	_, err = ledger.ApplyDiscount(d("10"))
	require.NoError(t, err)
	_, err = ledger.ApplyDiscount(d("20"))
	require.NoError(t, err)

	totals := ledger.Totals()
	assertDecimal(t, "20", totals.DiscountPercent)
	assertDecimal(t, "50", totals.DiscountAmount)
	assertDecimal(t, "200", totals.FinalTotal)

	ledger.ClearDiscount()
	assert.True(t, ledger.Totals().DiscountAmount.IsZero())
}

func TestLedger_TotalsRounding(t *testing.T) {
	ledger, store := setupLedger(t)
	ctx := context.Background()

	_, err := store.AddOrUpdate(ctx, "Cashews", d("19.99"), d("10"))
	require.NoError(t, err)
	_, err = ledger.AddToCart(ctx, "Cashews", d("0.333"))
	require.NoError(t, err)
	_, err = ledger.ApplyDiscount(d("7.5"))
	require.NoError(t, err)

	// 19.99 * 0.333 = 6.65667, 7.5% of that = 0.49925
	assertDecimal(t, "6.65667", ledger.Subtotal())
	totals := ledger.Totals()
	assertDecimal(t, "6.66", totals.Subtotal)
	assertDecimal(t, "0.5", totals.DiscountAmount)
	assertDecimal(t, "6.16", totals.FinalTotal)
	assert.True(t, totals.FinalTotal.Equal(totals.Subtotal.Sub(totals.DiscountAmount)))
}

func TestLedger_TotalsKeepFullPrecisionBeforeRounding(t *testing.T) {
	ledger, store := setupLedger(t)
	ctx := context.Background()

	_, err := store.AddOrUpdate(ctx, "Gold", d("1000000000000"), d("1"))
	require.NoError(t, err)
	_, err = ledger.AddToCart(ctx, "Gold", d("1"))
	require.NoError(t, err)
	_, err = ledger.ApplyDiscount(d("0.000000000000005"))
	require.NoError(t, err)

	// 0.000000000000005% of 10^12 is exactly 0.005
	totals := ledger.Totals()
	assertDecimal(t, "0.01", totals.DiscountAmount)
	assertDecimal(t, "999999999999.99", totals.FinalTotal)
}

func TestLedger_TotalsWithoutDiscount(t *testing.T) {
	ledger, _ := setupLedger(t)
	ctx := context.Background()

	_, err := ledger.AddToCart(ctx, "Rice", d("2"))
	require.NoError(t, err)
	_, err = ledger.AddToCart(ctx, "Milk", d("3"))
	require.NoError(t, err)

	totals := ledger.Totals()
	assertDecimal(t, "200", totals.Subtotal)
	assert.True(t, totals.DiscountAmount.IsZero())
	assertDecimal(t, "200", totals.FinalTotal)
}

type restoreFailingInventory struct {
	Inventory
	err error
}

func (f restoreFailingInventory) RestoreStock(context.Context, string, decimal.Decimal) error {
	return f.err
}

func TestLedger_RemoveFromCart_RestoreFailureSurfaces(t *testing.T) {
	_, store := setupLedger(t)
	boom := errors.New("disk full")
	ledger := NewLedger(restoreFailingInventory{Inventory: store, err: boom}, zerolog.Nop())
	ctx := context.Background()

	_, err := ledger.AddToCart(ctx, "Rice", d("1"))
	require.NoError(t, err)

	_, err = ledger.RemoveFromCart(ctx, "Rice")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.False(t, apperr.IsFailure(err))
}
