package vendors

import (
	"context"

	"procurement/db"
)

type pgStore struct {
	*db.Storage
}

func NewPostgresStore(s *db.Storage) Store {
	return pgStore{s}
}

func (p pgStore) InTx(ctx context.Context, fn func(Store) error) error {
	return p.Storage.InTx(ctx, func(tx *db.Storage) error {
		return fn(pgStore{tx})
	})
}
