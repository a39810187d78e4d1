package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	kvDatamodel "github.com/frahmantamala/roster-management/internal/core/datamodel/kv"
	"github.com/frahmantamala/roster-management/internal/kvstore"
)

// KVRepository stores documents in the kv_entries table. It runs on any gorm
// dialect; production uses postgres, tests and single-user installs sqlite.
type KVRepository struct {
	db *gorm.DB
}

func NewKVRepository(db *gorm.DB) kvstore.Store {
	return &KVRepository{db: db}
}

func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry kvDatamodel.Entry
	err := r.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: "key"}, Value: key}).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(entry.Value), true, nil
}

func (r *KVRepository) Set(ctx context.Context, key string, value []byte) error {
	entry := kvDatamodel.Entry{
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (r *KVRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *KVRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
