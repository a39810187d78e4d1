// Package kvstore is the persistence shim behind every stateful service: a
// flat map of named JSON documents with pluggable drivers.
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
)

const (
	KeyEmployees       = "employees"
	KeySchedules       = "schedules"
	KeySalaries        = "salaries"
	KeyMonthlySalaries = "monthly_salaries"
)

type Store interface {
	// Get returns the raw document under key; found is false if it was never written.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}

// Load decodes the document under key, returning def when the key was never written.
func Load[T any](ctx context.Context, s Store, key string, def T) (T, bool, error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil {
		return def, false, fmt.Errorf("kvstore: get %s: %w", key, err)
	}
	if !found {
		return def, false, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return def, false, fmt.Errorf("kvstore: decode %s: %w", key, err)
	}
	return v, true, nil
}

func Save[T any](ctx context.Context, s Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kvstore: encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("kvstore: set %s: %w", key, err)
	}
	return nil
}
