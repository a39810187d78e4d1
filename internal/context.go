package internal

import (
	"context"
	"time"
)

// DefaultStoreTimeout bounds store calls when storage.timeout is unset.
const DefaultStoreTimeout = 5 * time.Second

// WithStoreTimeout bounds a call against the backing store, such as the
// startup ping of a redis store, by the configured storage timeout.
func WithStoreTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
