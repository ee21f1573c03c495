package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"procurement/models"
)

const vendorColumns = `id, vendor_id, user_id, company_name, email, phone, address, status, requested_on`

func buildVendorWhere(f models.VendorFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if search := strings.TrimSpace(f.Search); search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(vendor_id ILIKE $%d OR company_name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d OR address ILIKE $%d)",
			n, n, n, n, n))
	}
	if status := strings.TrimSpace(f.Status); status != "" {
		args = append(args, status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *Storage) ListVendors(ctx context.Context, f models.VendorFilter) ([]models.Vendor, int, error) {
	where, args := buildVendorWhere(f)

	var total int
	if err := sqlx.GetContext(ctx, s.q, &total, "SELECT COUNT(*) FROM vendor"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count vendors: %w", err)
	}

	query := "SELECT " + vendorColumns + " FROM vendor" + where + " ORDER BY id DESC"
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PerPage, models.Offset(f.Page, f.PerPage))

	vendors := []models.Vendor{}
	if err := sqlx.SelectContext(ctx, s.q, &vendors, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list vendors: %w", err)
	}
	return vendors, total, nil
}

func (s *Storage) GetVendorByCode(ctx context.Context, code string) (*models.Vendor, error) {
	v := &models.Vendor{}
	query := `SELECT ` + vendorColumns + ` FROM vendor WHERE vendor_id = $1`
	if err := sqlx.GetContext(ctx, s.q, v, query, code); err != nil {
		return nil, mapErr(err)
	}
	return v, nil
}

func (s *Storage) UpdateVendorStatus(ctx context.Context, id int64, status models.VendorStatus) (*models.Vendor, error) {
	v := &models.Vendor{}
	query := `UPDATE vendor SET status = $1 WHERE id = $2 RETURNING ` + vendorColumns
	if err := sqlx.GetContext(ctx, s.q, v, query, status, id); err != nil {
		return nil, mapErr(err)
	}
	return v, nil
}

// MiniVendors lists approved vendors whose company name contains search.
func (s *Storage) MiniVendors(ctx context.Context, search string) ([]models.VendorMini, error) {
	query := `
        SELECT id, vendor_id, company_name
        FROM vendor
        WHERE status = $1 AND company_name ILIKE $2
        ORDER BY company_name ASC`
	vendors := []models.VendorMini{}
	err := sqlx.SelectContext(ctx, s.q, &vendors, query, models.VendorApproved, "%"+strings.TrimSpace(search)+"%")
	if err != nil {
		return nil, fmt.Errorf("list mini vendors: %w", err)
	}
	return vendors, nil
}
