package db

import (
	"context"

	"github.com/jmoiron/sqlx"

	"procurement/models"
)

func (s *Storage) CreateUser(ctx context.Context, u *models.User) error {
	query := `
        INSERT INTO users (name, email, password_hash, role, verified)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`
	err := s.q.QueryRowxContext(ctx, query, u.Name, u.Email, u.PasswordHash, u.Role, u.Verified).
		Scan(&u.ID, &u.CreatedAt)
	return mapErr(err)
}

func (s *Storage) SetUserVerified(ctx context.Context, userID int64, verified bool) error {
	res, err := s.q.ExecContext(ctx, `UPDATE users SET verified = $1 WHERE id = $2`, verified, userID)
	if err != nil {
		return mapErr(err)
	}
	return expectRow(res)
}

// VendorUserID returns the user account that owns a vendor profile.
func (s *Storage) VendorUserID(ctx context.Context, vendorID int64) (int64, error) {
	var id int64
	if err := sqlx.GetContext(ctx, s.q, &id, `SELECT user_id FROM vendor WHERE id = $1`, vendorID); err != nil {
		return 0, mapErr(err)
	}
	return id, nil
}

func (s *Storage) ContractorUserID(ctx context.Context, contractorID int64) (int64, error) {
	var id int64
	if err := sqlx.GetContext(ctx, s.q, &id, `SELECT user_id FROM contractor WHERE id = $1`, contractorID); err != nil {
		return 0, mapErr(err)
	}
	return id, nil
}

// ContractorExists reports whether a contractor profile with id exists.
func (s *Storage) ContractorExists(ctx context.Context, id int64) (bool, error) {
	var count int
	err := sqlx.GetContext(ctx, s.q, &count, `SELECT COUNT(1) FROM contractor WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
