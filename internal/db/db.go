package db

import (
	"context"
	"time"
)

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadyWaiter blocks until a store answers pings.
type ReadyWaiter interface {
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// KVStore provides the key-value operations the item cache needs.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// HashStore provides hash reads.
type HashStore interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// PartitionQuerier returns every row stored under one partition key value.
type PartitionQuerier interface {
	QueryPartition(ctx context.Context, value string) ([]map[string]any, error)
}
