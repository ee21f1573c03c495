package db

import (
	"context"

	"procurement/models"
)

// CreateOrder inserts the order without a display identifier. A second order
// for the same negotiation fails with models.ErrDuplicate.
func (s *Storage) CreateOrder(ctx context.Context, o *models.Order) error {
	query := `
        INSERT INTO orders
            (negotiation_id, product_id, vendor_id, contractor_id, quantity, proposed_price, status)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at`
	err := s.q.QueryRowxContext(ctx, query,
		o.NegotiationID, o.ProductID, o.VendorID, o.ContractorID, o.Quantity, o.ProposedPrice, o.Status).
		Scan(&o.ID, &o.CreatedAt)
	return mapErr(err)
}

func (s *Storage) SetOrderCode(ctx context.Context, id int64, code string) error {
	res, err := s.q.ExecContext(ctx, `UPDATE orders SET order_id = $1 WHERE id = $2`, code, id)
	if err != nil {
		return mapErr(err)
	}
	return expectRow(res)
}
