package negotiation

import (
	"context"

	"procurement/models"
)

// Store is the record store the engine reads and mutates. InTx runs fn with a
// Store bound to a single database transaction; fn's error rolls it back.
type Store interface {
	InTx(ctx context.Context, fn func(Store) error) error

	CreateEnquiry(ctx context.Context, e *models.Enquiry) error
	SetEnquiryCode(ctx context.Context, id int64, code string) error
	GetEnquiry(ctx context.Context, id int64) (*models.Enquiry, error)
	MarkEnquiryRead(ctx context.Context, id int64) (*models.Enquiry, error)
	ListEnquiries(ctx context.Context, vendorID int64, f models.EnquiryFilter) ([]models.EnquirySummary, int, error)
	GetEnquiryDetail(ctx context.Context, code string, vendorID int64) (*models.EnquiryDetail, error)
	ListContractorNames(ctx context.Context, vendorID int64) ([]string, error)

	CreateNegotiation(ctx context.Context, n *models.Negotiation) error
	GetNegotiation(ctx context.Context, id int64) (*models.Negotiation, error)
	UpdateNegotiation(ctx context.Context, n *models.Negotiation) error

	CreateOrder(ctx context.Context, o *models.Order) error
	SetOrderCode(ctx context.Context, id int64, code string) error
}

// ContractorCache keeps the per-vendor contractor name list. Contractors
// reports the vendor's current version even on a miss; StoreContractors files
// the list under that version, so a list read before an invalidation is never
// served after it.
type ContractorCache interface {
	Contractors(ctx context.Context, vendorID int64) (names []string, version int64, ok bool, err error)
	StoreContractors(ctx context.Context, vendorID, version int64, names []string) error
	InvalidateContractors(ctx context.Context, vendorID int64) error
}

type nopCache struct{}

func (nopCache) Contractors(context.Context, int64) ([]string, int64, bool, error) {
	return nil, 0, false, nil
}
func (nopCache) StoreContractors(context.Context, int64, int64, []string) error { return nil }
func (nopCache) InvalidateContractors(context.Context, int64) error             { return nil }
