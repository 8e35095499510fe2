package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/andreasstove999/grocery-service-go/internal/events"
)

const checkoutMessage = "Checkout complete. Cart cleared."

// Billing is the combined view: products, cart lines and totals.
func (h *Handler) Billing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, billingResponse{
		Products: toProductDTOs(h.store.ListAll()),
		Cart:     toCartDTOs(h.ledger.Lines()),
		Totals:   toTotalsDTO(h.ledger.Totals()),
	})
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.Quantity == nil {
		writeBadRequest(w, "quantity is required")
		return
	}

	msg, err := h.ledger.AddToCart(r.Context(), req.ProductName, *req.Quantity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCart(w, msg)
}

func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	msg, err := h.ledger.RemoveFromCart(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCart(w, msg)
}

func (h *Handler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	var req discountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.Percent == nil {
		writeBadRequest(w, "percent is required")
		return
	}

	msg, err := h.ledger.ApplyDiscount(*req.Percent)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCart(w, msg)
}

func (h *Handler) Totals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toTotalsDTO(h.ledger.Totals()))
}

// Checkout empties the cart and announces the receipt. The checkout stands
// even if publishing fails.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	receipt := h.ledger.Checkout()
	receiptID := uuid.NewString()

	if len(receipt.Items) > 0 {
		payload := events.NewCheckoutCompletedPayload(receiptID, receipt, h.now())
		meta := events.EventMeta{
			CorrelationID: middleware.GetReqID(r.Context()),
			PartitionKey:  receiptID,
		}
		if err := h.publisher.PublishCheckoutCompleted(r.Context(), meta, payload); err != nil {
			h.logger.Error().Err(err).Str("receipt_id", receiptID).Msg("publish CheckoutCompleted failed")
		}
	}

	writeJSON(w, http.StatusOK, checkoutResponse{
		messageResponse: messageResponse{OK: true, Message: checkoutMessage},
		ReceiptID:       receiptID,
		Items:           toCartDTOs(receipt.Items),
		Totals:          toTotalsDTO(receipt.Totals),
	})
}

func (h *Handler) writeCart(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, cartResponse{
		messageResponse: messageResponse{OK: true, Message: msg},
		Cart:            toCartDTOs(h.ledger.Lines()),
		Totals:          toTotalsDTO(h.ledger.Totals()),
	})
}
