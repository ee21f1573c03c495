package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"procurement/models"
)

func (s *Storage) CreateNegotiation(ctx context.Context, n *models.Negotiation) error {
	query := `
        INSERT INTO negotiation
            (enquiry_id, price_from_contractor, status_from_contractor, price_from_vendor, status_from_vendor)
        VALUES
            ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`
	err := s.q.QueryRowxContext(ctx, query,
		n.EnquiryID, n.PriceFromContractor, n.StatusFromContractor, n.PriceFromVendor, n.StatusFromVendor).
		Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	return mapErr(err)
}

func (s *Storage) GetNegotiation(ctx context.Context, id int64) (*models.Negotiation, error) {
	n := &models.Negotiation{}
	query := `SELECT * FROM negotiation WHERE id = $1 FOR UPDATE`
	if err := sqlx.GetContext(ctx, s.q, n, query, id); err != nil {
		return nil, mapErr(err)
	}
	return n, nil
}

func (s *Storage) UpdateNegotiation(ctx context.Context, n *models.Negotiation) error {
	query := `
        UPDATE negotiation
        SET price_from_contractor = $1, status_from_contractor = $2,
            price_from_vendor = $3, status_from_vendor = $4, updated_at = NOW()
        WHERE id = $5
        RETURNING updated_at`
	err := s.q.QueryRowxContext(ctx, query,
		n.PriceFromContractor, n.StatusFromContractor, n.PriceFromVendor, n.StatusFromVendor, n.ID).
		Scan(&n.UpdatedAt)
	return mapErr(err)
}

// ListNegotiations returns the history of an enquiry, newest first.
func (s *Storage) ListNegotiations(ctx context.Context, enquiryID int64) ([]models.Negotiation, error) {
	query := `
        SELECT * FROM negotiation
        WHERE enquiry_id = $1
        ORDER BY created_at DESC, id DESC`
	history := []models.Negotiation{}
	if err := sqlx.SelectContext(ctx, s.q, &history, query, enquiryID); err != nil {
		return nil, fmt.Errorf("list negotiations of enquiry %d: %w", enquiryID, err)
	}
	return history, nil
}
