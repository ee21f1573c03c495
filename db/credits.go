package db

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"procurement/models"
)

// AddCredit adds amount to the (contractor, vendor) balance, creating the row
// on first use. The increment happens in one statement so concurrent calls
// never lose an update.
func (s *Storage) AddCredit(ctx context.Context, contractorID, vendorID int64, amount decimal.Decimal) (*models.Credit, error) {
	c := &models.Credit{}
	query := `
        INSERT INTO credit (contractor_id, vendor_id, amount)
        VALUES ($1, $2, $3)
        ON CONFLICT (contractor_id, vendor_id)
        DO UPDATE SET amount = credit.amount + EXCLUDED.amount, updated_at = NOW()
        RETURNING id, contractor_id, vendor_id, amount, created_at, updated_at`
	if err := sqlx.GetContext(ctx, s.q, c, query, contractorID, vendorID, amount); err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}
