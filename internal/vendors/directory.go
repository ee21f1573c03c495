// Package vendors serves the vendor directory: listing and search, approval
// status and the credit limits vendors grant to contractors.
package vendors

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"procurement/internal/apperr"
	"procurement/models"
)

type Store interface {
	InTx(ctx context.Context, fn func(Store) error) error

	ListVendors(ctx context.Context, f models.VendorFilter) ([]models.Vendor, int, error)
	GetVendorByCode(ctx context.Context, code string) (*models.Vendor, error)
	UpdateVendorStatus(ctx context.Context, id int64, status models.VendorStatus) (*models.Vendor, error)
	SetUserVerified(ctx context.Context, userID int64, verified bool) error
	MiniVendors(ctx context.Context, search string) ([]models.VendorMini, error)
	ContractorExists(ctx context.Context, id int64) (bool, error)
	AddCredit(ctx context.Context, contractorID, vendorID int64, amount decimal.Decimal) (*models.Credit, error)
}

type UpdateStatusRequest struct {
	Status models.VendorStatus `json:"status" validate:"required,oneof=Pending Approved Rejected"`
}

type CreditRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type Directory struct {
	store    Store
	pageSize int
	log      logrus.FieldLogger
}

func NewDirectory(store Store, pageSize int, log logrus.FieldLogger) *Directory {
	if pageSize < 1 {
		pageSize = 8
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Directory{store: store, pageSize: pageSize, log: log}
}

// GetVendors lists vendors newest first, optionally filtered by a search
// over code, company name, email, phone and address, and by status.
func (d *Directory) GetVendors(ctx context.Context, f models.VendorFilter) (models.Page[models.Vendor], error) {
	f.Page, f.PerPage = models.NormalizePage(f.Page, f.PerPage, d.pageSize)
	vendors, total, err := d.store.ListVendors(ctx, f)
	if err != nil {
		return models.Page[models.Vendor]{}, apperr.Internal("Cannot get Vendors", err)
	}
	return models.NewPage(vendors, total, f.Page, f.PerPage), nil
}

func (d *Directory) GetVendorDetail(ctx context.Context, code string) (*models.Vendor, error) {
	v, err := d.store.GetVendorByCode(ctx, code)
	if errors.Is(err, models.ErrNotFound) {
		return nil, apperr.NotFound("Vendor not found", err)
	}
	if err != nil {
		return nil, apperr.Internal("Cannot get Detail", err)
	}
	return v, nil
}

// UpdateVendorStatus sets the vendor's status and marks the owning user
// verified exactly when the vendor is approved.
func (d *Directory) UpdateVendorStatus(ctx context.Context, id int64, status models.VendorStatus) (*models.Vendor, error) {
	if !models.ValidVendorStatus(status) {
		return nil, apperr.Invalid(fmt.Sprintf("unknown vendor status %q", status), nil)
	}

	var vendor *models.Vendor
	err := d.store.InTx(ctx, func(s Store) error {
		v, err := s.UpdateVendorStatus(ctx, id, status)
		if err != nil {
			return fmt.Errorf("update vendor %d status: %w", id, err)
		}
		if err := s.SetUserVerified(ctx, v.UserID, status == models.VendorApproved); err != nil {
			return fmt.Errorf("set user %d verified: %w", v.UserID, err)
		}
		vendor = v
		return nil
	})
	if errors.Is(err, models.ErrNotFound) {
		return nil, apperr.NotFound("Vendor not found", err)
	}
	if err != nil {
		return nil, apperr.Internal("Cannot update Status", err)
	}

	d.log.WithFields(logrus.Fields{"vendor_id": id, "status": status}).Info("vendor status updated")
	return vendor, nil
}

func (d *Directory) GetMiniList(ctx context.Context, search string) ([]models.VendorMini, error) {
	vendors, err := d.store.MiniVendors(ctx, search)
	if err != nil {
		return nil, apperr.Internal("Cannot get list", err)
	}
	return vendors, nil
}

// UpdateCreditLimit adds amount to the credit the calling vendor extends to
// the contractor.
func (d *Directory) UpdateCreditLimit(ctx context.Context, actor models.Actor, contractorID int64, amount decimal.Decimal) (*models.Credit, error) {
	if actor.Role != models.RoleVendor || actor.VendorID == 0 {
		return nil, apperr.Forbidden("Access Denied!!!", nil)
	}
	if !amount.IsPositive() {
		return nil, apperr.Invalid("amount must be greater than zero", nil)
	}
	if !models.FitsMoney(amount) {
		return nil, apperr.Invalid("amount must have at most 2 decimals and stay below 1000000000000", nil)
	}

	ok, err := d.store.ContractorExists(ctx, contractorID)
	if err != nil {
		return nil, apperr.Internal("Cannot update credit limit", err)
	}
	if !ok {
		return nil, apperr.NotFound("Contractor not found", nil)
	}

	credit, err := d.store.AddCredit(ctx, contractorID, actor.VendorID, amount)
	if err != nil {
		return nil, apperr.Internal("Cannot update credit limit", err)
	}
	return credit, nil
}
