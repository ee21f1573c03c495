package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"procurement/internal/apperr"
	"procurement/internal/vendors"
	"procurement/models"
)

// GetVendorsHandler возвращает поставщиков с поиском и фильтром по статусу
func (h *Handler) GetVendorsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := strings.TrimSpace(q.Get("filter"))
	if status != "" && !models.ValidVendorStatus(models.VendorStatus(status)) {
		h.writeError(w, r, apperr.Invalid("Invalid filter", nil))
		return
	}

	page, err := h.Vendors.GetVendors(r.Context(), models.VendorFilter{
		Page:   queryInt(r, "page", 1),
		Search: strings.TrimSpace(q.Get("search")),
		Status: status,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) GetVendorDetailHandler(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "vendorId"))
	vendor, err := h.Vendors.GetVendorDetail(r.Context(), code)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vendor)
}

func (h *Handler) UpdateVendorStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req vendors.UpdateStatusRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	vendor, err := h.Vendors.UpdateVendorStatus(r.Context(), id, req.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vendor)
}

func (h *Handler) GetMiniListHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.Vendors.GetMiniList(r.Context(), strings.TrimSpace(r.URL.Query().Get("search")))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// UpdateCreditLimitHandler обрабатывает PUT /api/credits/{contractorId}
func (h *Handler) UpdateCreditLimitHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	contractorID, err := pathID(r, "contractorId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req vendors.CreditRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	credit, err := h.Vendors.UpdateCreditLimit(r.Context(), actor, contractorID, req.Amount)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, credit)
}
