package negotiation

import (
	"context"

	"procurement/db"
)

type pgStore struct {
	*db.Storage
}

// NewPostgresStore adapts the shared storage to the engine's Store.
func NewPostgresStore(s *db.Storage) Store {
	return pgStore{s}
}

func (p pgStore) InTx(ctx context.Context, fn func(Store) error) error {
	return p.Storage.InTx(ctx, func(tx *db.Storage) error {
		return fn(pgStore{tx})
	})
}
