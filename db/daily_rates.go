package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"procurement/models"
)

func (s *Storage) CreateDailyRate(ctx context.Context, r *models.DailyRate) error {
	query := `
        INSERT INTO daily_rate (product_id, rate)
        VALUES ($1, $2)
        RETURNING id, created_at`
	err := s.q.QueryRowxContext(ctx, query, r.ProductID, r.Rate).Scan(&r.ID, &r.CreatedAt)
	return mapErr(err)
}

// ListDailyRates returns a product's rates created inside [From, To], newest first.
func (s *Storage) ListDailyRates(ctx context.Context, productID int64, f models.DailyRateFilter) ([]models.DailyRate, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM daily_rate WHERE product_id = $1 AND created_at BETWEEN $2 AND $3`
	if err := sqlx.GetContext(ctx, s.q, &total, countQuery, productID, f.From, f.To); err != nil {
		return nil, 0, fmt.Errorf("count daily rates: %w", err)
	}

	query := `
        SELECT id, product_id, rate, created_at
        FROM daily_rate
        WHERE product_id = $1 AND created_at BETWEEN $2 AND $3
        ORDER BY created_at DESC, id DESC
        LIMIT $4 OFFSET $5`
	rates := []models.DailyRate{}
	err := sqlx.SelectContext(ctx, s.q, &rates, query, productID, f.From, f.To, f.PerPage, models.Offset(f.Page, f.PerPage))
	if err != nil {
		return nil, 0, fmt.Errorf("list daily rates: %w", err)
	}
	return rates, total, nil
}

// latestDailyRate returns at most one row: the product's current rate.
func (s *Storage) latestDailyRate(ctx context.Context, productID int64) ([]models.DailyRate, error) {
	query := `
        SELECT id, product_id, rate, created_at
        FROM daily_rate
        WHERE product_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT 1`
	rates := []models.DailyRate{}
	if err := sqlx.SelectContext(ctx, s.q, &rates, query, productID); err != nil {
		return nil, fmt.Errorf("latest daily rate of product %d: %w", productID, err)
	}
	return rates, nil
}

func (s *Storage) ProductExists(ctx context.Context, id int64) (bool, error) {
	var count int
	err := sqlx.GetContext(ctx, s.q, &count, `SELECT COUNT(1) FROM product WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
