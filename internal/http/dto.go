package httpapi

import (
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/grocery-service-go/internal/billing"
	"github.com/andreasstove999/grocery-service-go/internal/inventory"
)

// Request amounts decode into decimals so both 12.5 and "12.5" are accepted.
// Responses carry plain JSON numbers.

type addOrUpdateRequest struct {
	Name  string           `json:"name"`
	Price *decimal.Decimal `json:"price"`
	Stock *decimal.Decimal `json:"stock"`
}

type addToCartRequest struct {
	ProductName string           `json:"productName"`
	Quantity    *decimal.Decimal `json:"quantity"`
}

type discountRequest struct {
	Percent *decimal.Decimal `json:"percent"`
}

type messageResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type productDTO struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock float64 `json:"stock"`
}

type cartLineDTO struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
	Amount   float64 `json:"amount"`
}

type totalsDTO struct {
	Subtotal        float64 `json:"subtotal"`
	DiscountPercent float64 `json:"discountPercent"`
	DiscountAmount  float64 `json:"discountAmount"`
	FinalTotal      float64 `json:"finalTotal"`
}

type inventoryResponse struct {
	Products []productDTO `json:"products"`
}

type productResponse struct {
	messageResponse
	Product *productDTO `json:"product,omitempty"`
}

type cartResponse struct {
	messageResponse
	Cart   []cartLineDTO `json:"cart"`
	Totals totalsDTO     `json:"totals"`
}

type billingResponse struct {
	Products []productDTO  `json:"products"`
	Cart     []cartLineDTO `json:"cart"`
	Totals   totalsDTO     `json:"totals"`
}

type checkoutResponse struct {
	messageResponse
	ReceiptID string        `json:"receiptId"`
	Items     []cartLineDTO `json:"items"`
	Totals    totalsDTO     `json:"totals"`
}

func toProductDTO(p inventory.Product) productDTO {
	return productDTO{Name: p.Name, Price: p.Price.InexactFloat64(), Stock: p.Stock.InexactFloat64()}
}

func toProductDTOs(products []inventory.Product) []productDTO {
	out := make([]productDTO, 0, len(products))
	for _, p := range products {
		out = append(out, toProductDTO(p))
	}
	return out
}

func toCartDTOs(lines []billing.Line) []cartLineDTO {
	out := make([]cartLineDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, cartLineDTO{
			Name:     l.Name,
			Price:    l.Price.InexactFloat64(),
			Quantity: l.Quantity.InexactFloat64(),
			Amount:   l.Amount().Round(2).InexactFloat64(),
		})
	}
	return out
}

func toTotalsDTO(t billing.Totals) totalsDTO {
	return totalsDTO{
		Subtotal:        t.Subtotal.InexactFloat64(),
		DiscountPercent: t.DiscountPercent.InexactFloat64(),
		DiscountAmount:  t.DiscountAmount.InexactFloat64(),
		FinalTotal:      t.FinalTotal.InexactFloat64(),
	}
}
