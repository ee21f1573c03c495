package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"procurement/internal/apperr"
	"procurement/internal/negotiation"
	"procurement/models"
)

// CreateEnquiryHandler обрабатывает POST /api/enquiries
func (h *Handler) CreateEnquiryHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req negotiation.CreateEnquiryRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	enquiry, err := h.Negotiations.CreateEnquiry(r.Context(), actor, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, enquiry)
}

// GetEnquiriesHandler возвращает заявки поставщика, по одной последней
// переговорной записи на заявку
func (h *Handler) GetEnquiriesHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if actor.Role != models.RoleVendor || actor.VendorID == 0 {
		h.writeError(w, r, apperr.Forbidden("Access Denied!!!", nil).WithStatus(http.StatusNotFound))
		return
	}

	q := r.URL.Query()
	page, err := h.Negotiations.GetEnquiries(r.Context(), actor.VendorID, models.EnquiryFilter{
		Page:       queryInt(r, "page", 1),
		Search:     strings.TrimSpace(q.Get("search")),
		Status:     strings.TrimSpace(q.Get("status")),
		Contractor: strings.TrimSpace(q.Get("contractor")),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) GetContractorsHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	names, err := h.Negotiations.GetContractors(r.Context(), actor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (h *Handler) GetEnquiryDetailsHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	code := strings.TrimSpace(chi.URLParam(r, "enquiryId"))
	if code == "" {
		h.writeError(w, r, apperr.Invalid("Invalid enquiryId", nil))
		return
	}

	detail, err := h.Negotiations.GetEnquiryDetails(r.Context(), actor, code)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// UpdateNegotiationHandler обрабатывает PATCH /api/negotiations/{negotiationId};
// что именно меняется, решает роль вызывающего
func (h *Handler) UpdateNegotiationHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := pathID(r, "negotiationId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req negotiation.UpdateNegotiationRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	n, err := h.Negotiations.UpdateNegotiation(r.Context(), actor, id, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}
