package item

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/fanout/internal/db"
	"github.com/kailas-cloud/fanout/internal/domain"
)

// partitionStore is the consumer interface for partition lookups (ISP).
type partitionStore interface {
	QueryPartition(ctx context.Context, value string) ([]map[string]any, error)
	Ping(ctx context.Context) error
}

// PartitionExecutor answers a key with every row of the matching partition.
type PartitionExecutor struct {
	store partitionStore
}

// NewPartitionExecutor creates an executor over a partitioned table.
func NewPartitionExecutor(s partitionStore) *PartitionExecutor {
	return &PartitionExecutor{store: s}
}

// Query runs one partition query. An empty partition is ErrItemNotFound.
func (e *PartitionExecutor) Query(ctx context.Context, key string) (domain.Item, error) {
	rows, err := e.store.QueryPartition(ctx, key)
	if err != nil {
		return domain.Item{}, fmt.Errorf("query partition %s: %w", key, translate(err))
	}
	if len(rows) == 0 {
		return domain.Item{}, fmt.Errorf("partition %s: %w", key, domain.ErrItemNotFound)
	}

	records := make([]domain.Record, len(rows))
	for i, row := range rows {
		records[i] = domain.Record(row)
	}
	return domain.NewItem(key, records), nil
}

// HealthCheck pings the underlying table.
func (e *PartitionExecutor) HealthCheck(ctx context.Context) error {
	if err := e.store.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// translate maps store sentinels onto domain sentinels, keeping the cause.
func translate(err error) error {
	switch {
	case errors.Is(err, db.ErrKeyNotFound):
		return fmt.Errorf("%w: %w", domain.ErrItemNotFound, err)
	case errors.Is(err, db.ErrThrottled):
		return fmt.Errorf("%w: %w", domain.ErrThrottled, err)
	case errors.Is(err, db.ErrTableNotFound):
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	default:
		return err
	}
}
