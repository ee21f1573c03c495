package db

import (
	"context"

	"procurement/models"
)

// CreateNotification stores n unless a row with the same (event_id, user_id)
// exists. It reports whether a row was written.
func (s *Storage) CreateNotification(ctx context.Context, n *models.Notification) (bool, error) {
	query := `
        INSERT INTO notification (event_id, user_id, message, link)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (event_id, user_id) DO NOTHING
        RETURNING id, is_read, created_at`
	rows, err := s.q.QueryxContext(ctx, query, n.EventID, n.UserID, n.Message, n.Link)
	if err != nil {
		return false, mapErr(err)
	}
	defer rows.Close()

	if !rows.Next() {
		return false, rows.Err()
	}
	if err := rows.Scan(&n.ID, &n.IsRead, &n.CreatedAt); err != nil {
		return false, err
	}
	return true, nil
}
