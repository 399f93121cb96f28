package domain

import (
	"context"
	"fmt"
)

// Executor runs one point query by key against a store.
// Implementations must be safe for concurrent use up to the bound the caller picks.
type Executor interface {
	Query(ctx context.Context, key string) (Item, error)
}

// ExecutorFunc adapts a plain function to Executor.
type ExecutorFunc func(ctx context.Context, key string) (Item, error)

// Query calls f(ctx, key).
func (f ExecutorFunc) Query(ctx context.Context, key string) (Item, error) {
	return f(ctx, key)
}

// HealthChecker verifies store availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// PrefixedExecutor is a domain decorator that namespaces keys before querying.
// The returned item keeps the caller's key.
type PrefixedExecutor struct {
	inner  Executor
	prefix string
}

// NewPrefixedExecutor wraps an executor with a key prefix.
func NewPrefixedExecutor(inner Executor, prefix string) *PrefixedExecutor {
	return &PrefixedExecutor{inner: inner, prefix: prefix}
}

// Query prepends the prefix and delegates.
func (p *PrefixedExecutor) Query(ctx context.Context, key string) (Item, error) {
	item, err := p.inner.Query(ctx, p.prefix+key)
	if err != nil {
		return Item{}, fmt.Errorf("prefixed query: %w", err)
	}
	return NewItem(key, item.Records()), nil
}

// HealthCheck delegates to the inner executor when it supports health checks.
func (p *PrefixedExecutor) HealthCheck(ctx context.Context) error {
	if hc, ok := p.inner.(HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // transparent decorator
	}
	return nil
}
