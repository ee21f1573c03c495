package handlers

import (
	"net/http"

	"procurement/internal/backoffice"
)

func (h *Handler) CreateEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	var req backoffice.CreateEmployeeRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.Backoffice.CreateEmployee(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// GetDailyRatesHandler возвращает курсы продукта за последние days дней
func (h *Handler) GetDailyRatesHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "productId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	page, err := h.Backoffice.GetDailyRates(r.Context(), productID, queryInt(r, "page", 1), queryInt(r, "days", 0))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) UpdateDailyRatesHandler(w http.ResponseWriter, r *http.Request) {
	var req backoffice.UpdateDailyRatesRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	rates, err := h.Backoffice.UpdateDailyRates(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rates)
}
