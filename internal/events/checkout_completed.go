package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/grocery-service-go/internal/billing"
)

const (
	EventTypeCheckoutCompleted = "CheckoutCompleted"
	checkoutCompletedSchema    = "grocery.checkout.completed.v1"
)

// CheckoutCompletedPayload carries money and quantities as decimal strings.
type CheckoutCompletedPayload struct {
	ReceiptID       string          `json:"receiptId"`
	Items           []CheckoutLine  `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	FinalTotal      decimal.Decimal `json:"finalTotal"`
	CheckedOutAt    time.Time       `json:"checkedOutAt"`
}

type CheckoutLine struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}

type CheckoutCompletedEvent struct {
	EventEnvelope
	Payload CheckoutCompletedPayload `json:"payload"`
}

// NewCheckoutCompletedPayload flattens a receipt for publishing.
func NewCheckoutCompletedPayload(receiptID string, receipt billing.Receipt, checkedOutAt time.Time) CheckoutCompletedPayload {
	items := make([]CheckoutLine, 0, len(receipt.Items))
	for _, it := range receipt.Items {
		items = append(items, CheckoutLine{Name: it.Name, Price: it.Price, Quantity: it.Quantity})
	}
	return CheckoutCompletedPayload{
		ReceiptID:       receiptID,
		Items:           items,
		Subtotal:        receipt.Totals.Subtotal,
		DiscountPercent: receipt.Totals.DiscountPercent,
		DiscountAmount:  receipt.Totals.DiscountAmount,
		FinalTotal:      receipt.Totals.FinalTotal,
		CheckedOutAt:    checkedOutAt.UTC(),
	}
}
