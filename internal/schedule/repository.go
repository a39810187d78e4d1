package schedule

import (
	"context"

	"github.com/frahmantamala/roster-management/internal/kvstore"
)

// RepositoryAPI persists the whole schedule document. Week keys are returned
// raw so the service can re-key legacy offsets.
type RepositoryAPI interface {
	LoadAll(ctx context.Context) (map[string]Week, bool, error)
	SaveAll(ctx context.Context, schedules Schedules) error
}

type kvRepository struct {
	store kvstore.Store
}

func NewRepository(store kvstore.Store) RepositoryAPI {
	return &kvRepository{store: store}
}

func (r *kvRepository) LoadAll(ctx context.Context) (map[string]Week, bool, error) {
	return kvstore.Load(ctx, r.store, kvstore.KeySchedules, map[string]Week{})
}

func (r *kvRepository) SaveAll(ctx context.Context, schedules Schedules) error {
	return kvstore.Save(ctx, r.store, kvstore.KeySchedules, schedules)
}
