package kv

import "time"

// Entry is one persisted document of the key-value store.
type Entry struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Entry) TableName() string {
	return "kv_entries"
}
