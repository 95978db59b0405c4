package cache

import (
	"context"
	"time"
)

// Store is the key-value contract shared by the language cache and the
// summary store. A miss is reported with ok=false and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
