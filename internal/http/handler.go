package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/andreasstove999/grocery-service-go/internal/apperr"
	"github.com/andreasstove999/grocery-service-go/internal/billing"
	"github.com/andreasstove999/grocery-service-go/internal/events"
	"github.com/andreasstove999/grocery-service-go/internal/inventory"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	store     *inventory.Store
	ledger    *billing.Ledger
	publisher events.CheckoutPublisher
	logger    zerolog.Logger
	now       func() time.Time
}

func NewHandler(store *inventory.Store, ledger *billing.Ledger, publisher events.CheckoutPublisher, logger zerolog.Logger) *Handler {
	if publisher == nil {
		publisher = events.NopPublisher{Logger: logger}
	}
	return &Handler{
		store:     store,
		ledger:    ledger,
		publisher: publisher,
		logger:    logger.With().Str("component", "http").Logger(),
		now:       time.Now,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "grocery-service"})
}

// statusFor maps a domain failure kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, inventory.ErrNotFound), errors.Is(err, billing.ErrNotInCart):
		return http.StatusNotFound
	case errors.Is(err, inventory.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, inventory.ErrInvalidQuantity),
		errors.Is(err, inventory.ErrInvalidPrice),
		errors.Is(err, inventory.ErrInvalidName),
		errors.Is(err, billing.ErrInvalidDiscount):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if apperr.IsFailure(err) {
		writeJSON(w, statusFor(err), messageResponse{OK: false, Message: err.Error()})
		return
	}
	h.logger.Error().
		Err(err).
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("path", r.URL.Path).
		Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, messageResponse{OK: false, Message: "internal error"})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, messageResponse{OK: false, Message: msg})
}

// decodeJSON reads a single JSON object, rejecting unknown fields and
// trailing data.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if dec.More() {
		return errors.New("invalid JSON body: trailing data")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
