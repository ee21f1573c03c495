package negotiation

import (
	"github.com/shopspring/decimal"

	"procurement/models"
)

type CreateEnquiryRequest struct {
	ProductID           int64           `json:"product_id" validate:"required,gt=0"`
	VendorID            int64           `json:"vendor_id" validate:"required,gt=0"`
	Quantity            int             `json:"quantity" validate:"required,gt=0"`
	PriceFromContractor decimal.Decimal `json:"price_from_contractor"`
}

// UpdateNegotiationRequest is the body of a negotiation update. Which fields
// matter depends on the caller's role.
type UpdateNegotiationRequest struct {
	PriceFromVendor     *decimal.Decimal         `json:"price_from_vendor,omitempty"`
	PriceFromContractor *decimal.Decimal         `json:"price_from_contractor,omitempty"`
	Status              models.NegotiationStatus `json:"status,omitempty" validate:"omitempty,oneof=PENDING REPLIED ACCEPTED"`
}

type ContractorName struct {
	Name string `json:"name"`
}
