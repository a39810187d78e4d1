package employee

import (
	"context"

	"github.com/frahmantamala/roster-management/internal/kvstore"
)

type kvRepository struct {
	store kvstore.Store
}

func NewRepository(store kvstore.Store) RepositoryAPI {
	return &kvRepository{store: store}
}

func (r *kvRepository) LoadAll(ctx context.Context) ([]Employee, bool, error) {
	return kvstore.Load(ctx, r.store, kvstore.KeyEmployees, []Employee{})
}

func (r *kvRepository) SaveAll(ctx context.Context, employees []Employee) error {
	return kvstore.Save(ctx, r.store, kvstore.KeyEmployees, employees)
}
