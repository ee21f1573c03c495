package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"procurement/models"
)

const enquiryColumns = `id, COALESCE(enquiry_id, '') AS enquiry_id, product_id, vendor_id, contractor_id, quantity, is_read, created_at`

// CreateEnquiry inserts the row without a display identifier; SetEnquiryCode
// fills it in once the id is known.
func (s *Storage) CreateEnquiry(ctx context.Context, e *models.Enquiry) error {
	query := `
        INSERT INTO enquiry (product_id, vendor_id, contractor_id, quantity)
        VALUES ($1, $2, $3, $4)
        RETURNING id, is_read, created_at`
	err := s.q.QueryRowxContext(ctx, query, e.ProductID, e.VendorID, e.ContractorID, e.Quantity).
		Scan(&e.ID, &e.IsRead, &e.CreatedAt)
	return mapErr(err)
}

func (s *Storage) SetEnquiryCode(ctx context.Context, id int64, code string) error {
	res, err := s.q.ExecContext(ctx, `UPDATE enquiry SET enquiry_id = $1 WHERE id = $2`, code, id)
	if err != nil {
		return mapErr(err)
	}
	return expectRow(res)
}

func (s *Storage) GetEnquiry(ctx context.Context, id int64) (*models.Enquiry, error) {
	e := &models.Enquiry{}
	query := `SELECT ` + enquiryColumns + ` FROM enquiry WHERE id = $1`
	if err := sqlx.GetContext(ctx, s.q, e, query, id); err != nil {
		return nil, mapErr(err)
	}
	return e, nil
}

func (s *Storage) MarkEnquiryRead(ctx context.Context, id int64) (*models.Enquiry, error) {
	e := &models.Enquiry{}
	query := `UPDATE enquiry SET is_read = TRUE WHERE id = $1 RETURNING ` + enquiryColumns
	if err := sqlx.GetContext(ctx, s.q, e, query, id); err != nil {
		return nil, mapErr(err)
	}
	return e, nil
}

type enquiryRow struct {
	ID                   int64               `db:"id"`
	EnquiryCode          string              `db:"enquiry_id"`
	Quantity             int                 `db:"quantity"`
	IsRead               bool                `db:"is_read"`
	CreatedAt            time.Time           `db:"created_at"`
	ProductID            int64               `db:"product_id"`
	ProductName          string              `db:"product_name"`
	ProductUnit          string              `db:"product_unit"`
	VendorID             int64               `db:"vendor_id"`
	VendorCompany        string              `db:"vendor_company_name"`
	ContractorID         int64               `db:"contractor_id"`
	ContractorName       string              `db:"contractor_name"`
	NegotiationID        sql.NullInt64       `db:"n_id"`
	PriceFromContractor  decimal.NullDecimal `db:"n_price_from_contractor"`
	StatusFromContractor sql.NullString      `db:"n_status_from_contractor"`
	PriceFromVendor      decimal.NullDecimal `db:"n_price_from_vendor"`
	StatusFromVendor     sql.NullString      `db:"n_status_from_vendor"`
	NegotiationCreatedAt sql.NullTime        `db:"n_created_at"`
	NegotiationUpdatedAt sql.NullTime        `db:"n_updated_at"`
}

func (r enquiryRow) summary() models.EnquirySummary {
	out := models.EnquirySummary{
		ID:           r.ID,
		EnquiryCode:  r.EnquiryCode,
		Quantity:     r.Quantity,
		IsRead:       r.IsRead,
		CreatedAt:    r.CreatedAt,
		Product:      models.ProductRef{ID: r.ProductID, Name: r.ProductName, Unit: r.ProductUnit},
		Vendor:       models.VendorRef{ID: r.VendorID, CompanyName: r.VendorCompany},
		Contractor:   models.ContractorRef{ID: r.ContractorID, Name: r.ContractorName},
		Negotiations: []models.Negotiation{},
	}
	if r.NegotiationID.Valid {
		out.Negotiations = append(out.Negotiations, models.Negotiation{
			ID:                   r.NegotiationID.Int64,
			EnquiryID:            r.ID,
			PriceFromContractor:  r.PriceFromContractor,
			StatusFromContractor: models.NegotiationStatus(r.StatusFromContractor.String),
			PriceFromVendor:      r.PriceFromVendor,
			StatusFromVendor:     models.NegotiationStatus(r.StatusFromVendor.String),
			CreatedAt:            r.NegotiationCreatedAt.Time,
			UpdatedAt:            r.NegotiationUpdatedAt.Time,
		})
	}
	return out
}

const enquiryListFrom = `
        FROM enquiry e
        JOIN product p ON p.id = e.product_id
        JOIN vendor v ON v.id = e.vendor_id
        JOIN contractor c ON c.id = e.contractor_id
        LEFT JOIN LATERAL (
            SELECT n.* FROM negotiation n
            WHERE n.enquiry_id = e.id
            ORDER BY n.created_at DESC, n.id DESC
            LIMIT 1
        ) ln ON TRUE`

// buildEnquiryWhere renders the filter of a vendor's enquiry listing. Status
// buckets look at the latest negotiation only.
func buildEnquiryWhere(vendorID int64, f models.EnquiryFilter) (string, []interface{}) {
	conds := []string{"e.vendor_id = $1"}
	args := []interface{}{vendorID}

	if search := strings.TrimSpace(f.Search); search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(e.enquiry_id ILIKE $%d OR p.name ILIKE $%d OR c.name ILIKE $%d)", n, n, n))
	}

	switch status := strings.TrimSpace(f.Status); status {
	case "":
	case string(models.StatusPending):
		conds = append(conds, "ln.status_from_vendor = 'PENDING' AND ln.price_from_vendor IS NULL")
	case string(models.StatusReplied):
		conds = append(conds, "ln.status_from_vendor = 'REPLIED' AND ln.price_from_vendor IS NOT NULL")
	default:
		args = append(args, status)
		conds = append(conds, fmt.Sprintf("ln.status_from_vendor = $%d", len(args)))
	}

	if contractor := strings.TrimSpace(f.Contractor); contractor != "" {
		args = append(args, contractor)
		conds = append(conds, fmt.Sprintf("c.name = $%d", len(args)))
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *Storage) ListEnquiries(ctx context.Context, vendorID int64, f models.EnquiryFilter) ([]models.EnquirySummary, int, error) {
	where, args := buildEnquiryWhere(vendorID, f)

	var total int
	if err := sqlx.GetContext(ctx, s.q, &total, "SELECT COUNT(*)"+enquiryListFrom+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count enquiries: %w", err)
	}

	query := `
        SELECT e.id, COALESCE(e.enquiry_id, '') AS enquiry_id, e.quantity, e.is_read, e.created_at,
            p.id AS product_id, p.name AS product_name, p.unit AS product_unit,
            v.id AS vendor_id, v.company_name AS vendor_company_name,
            c.id AS contractor_id, c.name AS contractor_name,
            ln.id AS n_id,
            ln.price_from_contractor AS n_price_from_contractor,
            ln.status_from_contractor AS n_status_from_contractor,
            ln.price_from_vendor AS n_price_from_vendor,
            ln.status_from_vendor AS n_status_from_vendor,
            ln.created_at AS n_created_at,
            ln.updated_at AS n_updated_at` + enquiryListFrom + where +
		" ORDER BY e.created_at DESC, e.id DESC" +
		fmt.Sprintf(" LIMIT %d OFFSET %d", f.PerPage, models.Offset(f.Page, f.PerPage))

	rows := []enquiryRow{}
	if err := sqlx.SelectContext(ctx, s.q, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list enquiries: %w", err)
	}
	out := make([]models.EnquirySummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.summary())
	}
	return out, total, nil
}

type enquiryDetailRow struct {
	ID             int64          `db:"id"`
	EnquiryCode    string         `db:"enquiry_id"`
	Quantity       int            `db:"quantity"`
	IsRead         bool           `db:"is_read"`
	CreatedAt      time.Time      `db:"created_at"`
	VendorID       int64          `db:"vendor_id"`
	VendorCompany  string         `db:"vendor_company_name"`
	ContractorID   int64          `db:"contractor_id"`
	ContractorName string         `db:"contractor_name"`
	Product        models.Product `db:"product"`
}

// GetEnquiryDetail loads an enquiry of the vendor by display identifier with
// its whole negotiation history and the product's latest daily rate.
func (s *Storage) GetEnquiryDetail(ctx context.Context, code string, vendorID int64) (*models.EnquiryDetail, error) {
	var row enquiryDetailRow
	query := `
        SELECT e.id, e.enquiry_id, e.quantity, e.is_read, e.created_at,
            v.id AS vendor_id, v.company_name AS vendor_company_name,
            c.id AS contractor_id, c.name AS contractor_name,
            p.id AS "product.id", p.name AS "product.name", p.unit AS "product.unit",
            p.category AS "product.category", p.grade AS "product.grade",
            p.product_image AS "product.product_image"
        FROM enquiry e
        JOIN product p ON p.id = e.product_id
        JOIN vendor v ON v.id = e.vendor_id
        JOIN contractor c ON c.id = e.contractor_id
        WHERE e.enquiry_id = $1 AND e.vendor_id = $2`
	if err := sqlx.GetContext(ctx, s.q, &row, query, code, vendorID); err != nil {
		return nil, mapErr(err)
	}

	history, err := s.ListNegotiations(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	rates, err := s.latestDailyRate(ctx, row.Product.ID)
	if err != nil {
		return nil, err
	}

	return &models.EnquiryDetail{
		ID:           row.ID,
		EnquiryCode:  row.EnquiryCode,
		Quantity:     row.Quantity,
		IsRead:       row.IsRead,
		CreatedAt:    row.CreatedAt,
		Product:      models.ProductDetail{Product: row.Product, DailyRates: rates},
		Vendor:       models.VendorRef{ID: row.VendorID, CompanyName: row.VendorCompany},
		Contractor:   models.ContractorRef{ID: row.ContractorID, Name: row.ContractorName},
		Negotiations: history,
	}, nil
}

func (s *Storage) ListContractorNames(ctx context.Context, vendorID int64) ([]string, error) {
	query := `
        SELECT DISTINCT c.name
        FROM enquiry e
        JOIN contractor c ON c.id = e.contractor_id
        WHERE e.vendor_id = $1
        ORDER BY c.name ASC`
	names := []string{}
	if err := sqlx.SelectContext(ctx, s.q, &names, query, vendorID); err != nil {
		return nil, fmt.Errorf("list contractor names: %w", err)
	}
	return names, nil
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
