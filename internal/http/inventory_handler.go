package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListInventory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, inventoryResponse{Products: toProductDTOs(h.store.ListAll())})
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, ok := h.store.Find(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, messageResponse{OK: false, Message: name + " not found in inventory."})
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(p))
}

func (h *Handler) AddOrUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req addOrUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.Price == nil || req.Stock == nil {
		writeBadRequest(w, "price and stock are required")
		return
	}

	msg, err := h.store.AddOrUpdate(r.Context(), req.Name, *req.Price, *req.Stock)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := productResponse{messageResponse: messageResponse{OK: true, Message: msg}}
	if p, ok := h.store.Find(req.Name); ok {
		dto := toProductDTO(p)
		resp.Product = &dto
	}
	writeJSON(w, http.StatusOK, resp)
}
