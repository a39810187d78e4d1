package salary

import (
	"context"

	"github.com/frahmantamala/roster-management/internal/kvstore"
)

type RepositoryAPI interface {
	LoadCurrent(ctx context.Context) (map[string]Record, bool, error)
	SaveCurrent(ctx context.Context, records map[string]Record) error
	LoadMonthly(ctx context.Context) (map[string]MonthlyRecord, bool, error)
	SaveMonthly(ctx context.Context, records map[string]MonthlyRecord) error
}

type kvRepository struct {
	store kvstore.Store
}

func NewRepository(store kvstore.Store) RepositoryAPI {
	return &kvRepository{store: store}
}

func (r *kvRepository) LoadCurrent(ctx context.Context) (map[string]Record, bool, error) {
	return kvstore.Load(ctx, r.store, kvstore.KeySalaries, map[string]Record{})
}

func (r *kvRepository) SaveCurrent(ctx context.Context, records map[string]Record) error {
	return kvstore.Save(ctx, r.store, kvstore.KeySalaries, records)
}

func (r *kvRepository) LoadMonthly(ctx context.Context) (map[string]MonthlyRecord, bool, error) {
	return kvstore.Load(ctx, r.store, kvstore.KeyMonthlySalaries, map[string]MonthlyRecord{})
}

func (r *kvRepository) SaveMonthly(ctx context.Context, records map[string]MonthlyRecord) error {
	return kvstore.Save(ctx, r.store, kvstore.KeyMonthlySalaries, records)
}
