package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConcurrency signals a concurrency bound below one.
	ErrInvalidConcurrency = errors.New("invalid concurrency bound")
	// ErrNoExecutor signals a run without a query executor.
	ErrNoExecutor = errors.New("no query executor")
	// ErrExecutorPanic signals an executor that panicked instead of returning an error.
	ErrExecutorPanic = errors.New("executor panic")
	// ErrItemNotFound signals a key with no data in the store.
	ErrItemNotFound = errors.New("item not found")
	// ErrInvalidKey signals a key the store cannot accept.
	ErrInvalidKey = errors.New("invalid key")
	// ErrBatchTooLarge signals a batch above the configured size limit.
	ErrBatchTooLarge = errors.New("batch too large")
	// ErrThrottled signals that the store rejected the query due to rate limiting.
	ErrThrottled = errors.New("throttled")
	// ErrStoreUnavailable signals a store that could not be reached.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ConfigError reports an invalid runner setting. It wraps ErrInvalidConcurrency
// or ErrNoExecutor and is the only error a batch run returns to its caller.
type ConfigError struct {
	Field string
	Value any
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s=%v", e.Err.Error(), e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewConcurrencyError creates a ConfigError for a bad concurrency bound.
func NewConcurrencyError(value int) error {
	return &ConfigError{Field: "max_concurrency", Value: value, Err: ErrInvalidConcurrency}
}
