package item

import (
	"context"
)

// mockPartitionStore implements partitionStore for tests.
type mockPartitionStore struct {
	rows    map[string][]map[string]any
	err     error
	pingErr error
}

func (m *mockPartitionStore) QueryPartition(_ context.Context, value string) ([]map[string]any, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rows[value], nil
}

func (m *mockPartitionStore) Ping(_ context.Context) error {
	return m.pingErr
}

// mockHashStore implements hashStore for tests.
type mockHashStore struct {
	hgetallFn func(ctx context.Context, key string) (map[string]string, error)
	pingErr   error
}

func (m *mockHashStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return m.hgetallFn(ctx, key)
}

func (m *mockHashStore) Ping(_ context.Context) error {
	return m.pingErr
}
