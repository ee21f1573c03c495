package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"procurement/internal/apperr"
	"procurement/internal/auth"
	"procurement/internal/backoffice"
	"procurement/internal/negotiation"
	"procurement/models"
)

const maxBodyBytes = 1 << 20

type NegotiationService interface {
	CreateEnquiry(ctx context.Context, actor models.Actor, req negotiation.CreateEnquiryRequest) (*models.Enquiry, error)
	UpdateNegotiation(ctx context.Context, actor models.Actor, negotiationID int64, req negotiation.UpdateNegotiationRequest) (*models.Negotiation, error)
	GetEnquiries(ctx context.Context, vendorID int64, f models.EnquiryFilter) (models.Page[models.EnquirySummary], error)
	GetEnquiryDetails(ctx context.Context, actor models.Actor, code string) (*models.EnquiryDetail, error)
	GetContractors(ctx context.Context, actor models.Actor) ([]negotiation.ContractorName, error)
}

type VendorService interface {
	GetVendors(ctx context.Context, f models.VendorFilter) (models.Page[models.Vendor], error)
	GetVendorDetail(ctx context.Context, code string) (*models.Vendor, error)
	UpdateVendorStatus(ctx context.Context, id int64, status models.VendorStatus) (*models.Vendor, error)
	GetMiniList(ctx context.Context, search string) ([]models.VendorMini, error)
	UpdateCreditLimit(ctx context.Context, actor models.Actor, contractorID int64, amount decimal.Decimal) (*models.Credit, error)
}

type BackofficeService interface {
	CreateEmployee(ctx context.Context, req backoffice.CreateEmployeeRequest) (*models.User, error)
	GetDailyRates(ctx context.Context, productID int64, page, days int) (models.Page[models.DailyRate], error)
	UpdateDailyRates(ctx context.Context, req backoffice.UpdateDailyRatesRequest) ([]models.DailyRate, error)
}

// Handler serves the HTTP API on top of the services.
type Handler struct {
	Negotiations NegotiationService
	Vendors      VendorService
	Backoffice   BackofficeService

	log      logrus.FieldLogger
	validate *validator.Validate
}

func NewHandler(n NegotiationService, v VendorService, b BackofficeService, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{
		Negotiations: n,
		Vendors:      v,
		Backoffice:   b,
		log:          log,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
	}
}

// PingHandler отвечает "ok" для проверки сервера
func (h *Handler) PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError answers with the status and message carried by err and logs the
// underlying cause.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperr.From(err)

	entry := h.log.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"kind":   appErr.Kind.String(),
		"status": appErr.Status,
	})
	if appErr.Err != nil {
		entry = entry.WithError(appErr.Err)
	}
	if appErr.Kind == apperr.KindInternal {
		entry.Error(appErr.Message)
	} else {
		entry.Debug(appErr.Message)
	}

	writeJSON(w, appErr.Status, errorResponse{Message: appErr.Message})
}

// decodeJSON reads a size-limited JSON body into dst and validates it.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return apperr.Invalid("Failed to read request body", err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperr.Invalid("Invalid JSON format", err)
	}
	if err := h.validate.Struct(dst); err != nil {
		return apperr.Invalid(validationMessage(err), err)
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Field()+" failed on "+fe.Tag())
	}
	return strings.Join(parts, "; ")
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalid("Invalid "+name, err)
	}
	return id, nil
}

// queryInt парсит целое из query; пустое или неверное значение даёт def
func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func actorFrom(r *http.Request) (models.Actor, error) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		return models.Actor{}, apperr.Forbidden("Unauthorized", nil).WithStatus(http.StatusUnauthorized)
	}
	return actor, nil
}
