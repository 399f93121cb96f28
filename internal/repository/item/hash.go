package item

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/fanout/internal/domain"
)

// hashStore is the consumer interface for hash lookups (ISP).
type hashStore interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Ping(ctx context.Context) error
}

// HashExecutor answers a key with the fields of one hash.
type HashExecutor struct {
	store hashStore
}

// NewHashExecutor creates an executor over a hash store.
func NewHashExecutor(s hashStore) *HashExecutor {
	return &HashExecutor{store: s}
}

// Query reads the hash stored at key as a single record.
func (e *HashExecutor) Query(ctx context.Context, key string) (domain.Item, error) {
	fields, err := e.store.HGetAll(ctx, key)
	if err != nil {
		return domain.Item{}, fmt.Errorf("hgetall %s: %w", key, translate(err))
	}

	rec := make(domain.Record, len(fields))
	for k, v := range fields {
		rec[k] = v
	}
	return domain.NewItem(key, []domain.Record{rec}), nil
}

// HealthCheck pings the underlying store.
func (e *HashExecutor) HealthCheck(ctx context.Context) error {
	if err := e.store.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}
