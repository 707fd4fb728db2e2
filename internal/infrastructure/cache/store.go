package cache

import (
	"context"
	"time"
)

// Store is a key-value cache with expiration. Backed by Redis in
// deployments; the in-memory implementation serves tests and
// single-process development.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}
