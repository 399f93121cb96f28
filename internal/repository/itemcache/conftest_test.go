package itemcache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fanout/internal/db"
	"github.com/kailas-cloud/fanout/internal/domain"
)

type mockExecutor struct {
	records []domain.Record
	err     error
	calls   atomic.Int32
}

func (m *mockExecutor) Query(_ context.Context, key string) (domain.Item, error) {
	m.calls.Add(1)
	if m.err != nil {
		return domain.Item{}, m.err
	}
	return domain.NewItem(key, m.records), nil
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn   func(ctx context.Context, key string) ([]byte, error)
	setFn   func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	pingErr error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockKVStore) Ping(_ context.Context) error {
	return m.pingErr
}

func newTestCachedExecutor(t *testing.T, inner *mockExecutor) (*CachedExecutor, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	ce := New(inner, ms, time.Minute, nil, zap.NewNop())
	return ce, ms
}
