package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"procurement/internal/logging"
	"procurement/models"
)

// Routes builds the API router. Everything except /api/ping needs a valid
// token signed with jwtSecret.
func (h *Handler) Routes(jwtSecret string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(h.log))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.PingHandler)

		r.Group(func(r chi.Router) {
			r.Use(h.Authenticate(jwtSecret))

			// заявки и переговоры
			r.Post("/enquiries", h.CreateEnquiryHandler)
			r.Get("/enquiries", h.GetEnquiriesHandler)
			r.Get("/enquiries/contractors", h.GetContractorsHandler)
			r.Get("/enquiries/{enquiryId}", h.GetEnquiryDetailsHandler)
			r.Patch("/negotiations/{negotiationId}", h.UpdateNegotiationHandler)

			// поставщики
			r.Get("/vendors/mini", h.GetMiniListHandler)
			r.Put("/credits/{contractorId}", h.UpdateCreditLimitHandler)
			r.Get("/products/{productId}/daily-rates", h.GetDailyRatesHandler)

			r.Group(func(r chi.Router) {
				r.Use(h.RequireRole(models.RoleAdmin))
				r.Get("/vendors", h.GetVendorsHandler)
				r.Get("/vendors/{vendorId}", h.GetVendorDetailHandler)
				r.Patch("/vendors/{id}/status", h.UpdateVendorStatusHandler)
				r.Post("/employees", h.CreateEmployeeHandler)
				r.Post("/daily-rates", h.UpdateDailyRatesHandler)
			})
		})
	})
	return r
}
