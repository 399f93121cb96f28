package itemcache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/fanout/internal/db"
	"github.com/kailas-cloud/fanout/internal/domain"
)

// DefaultKeyPrefix namespaces cache entries in a shared store.
const DefaultKeyPrefix = domain.KeyPrefix + "item_cache:"

// store is the consumer interface for the item cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
}

// CachedExecutor caches successful lookups in a key-value store.
// Failures are never cached.
//
// Records are stored as JSON, and every returned record, hit or miss, is
// decoded from that JSON: numbers become json.Number, binary values base64
// strings, sets []any. Callers see the same shapes whatever the cache state.
type CachedExecutor struct {
	inner      domain.Executor
	store      store
	ttl        time.Duration
	prefix     string
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// Option configures a CachedExecutor.
type Option func(*CachedExecutor)

// WithKeyPrefix overrides DefaultKeyPrefix.
func WithKeyPrefix(prefix string) Option {
	return func(c *CachedExecutor) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Executor,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
	opts ...Option,
) *CachedExecutor {
	c := &CachedExecutor{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		prefix:     DefaultKeyPrefix,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Query returns a cached item or calls the inner executor.
func (c *CachedExecutor) Query(ctx context.Context, key string) (domain.Item, error) {
	cacheKey := c.cacheKey(key)

	if records, ok := c.getFromCache(ctx, cacheKey); ok {
		c.incCache("hit")
		return domain.NewItem(key, records), nil
	}

	c.incCache("miss")

	item, err := c.inner.Query(ctx, key)
	if err != nil {
		return domain.Item{}, fmt.Errorf("cached query: %w", err)
	}

	data, err := json.Marshal(item.Records())
	if err != nil {
		c.logger.Warn("Failed to encode item for cache", zap.String("key", cacheKey), zap.Error(err))
		return item, nil
	}
	records, err := decodeRecords(data)
	if err != nil {
		c.logger.Warn("Failed to normalize item", zap.String("key", cacheKey), zap.Error(err))
		return item, nil
	}
	if err := c.store.SetWithTTL(ctx, cacheKey, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache item", zap.String("key", cacheKey), zap.Error(err))
	}
	return domain.NewItem(key, records), nil
}

// HealthCheck pings the cache, then the inner executor.
func (c *CachedExecutor) HealthCheck(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("item cache: %w", err)
	}
	if hc, ok := c.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // transparent decorator
	}
	return nil
}

func (c *CachedExecutor) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedExecutor) cacheKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return c.prefix + hex.EncodeToString(h[:])
}

func (c *CachedExecutor) getFromCache(ctx context.Context, key string) ([]domain.Record, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached item", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	records, err := decodeRecords(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached item", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return records, true
}

// decodeRecords keeps numbers exact as json.Number.
func decodeRecords(data []byte) ([]domain.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var records []domain.Record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}
