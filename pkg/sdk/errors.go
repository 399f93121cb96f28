package fanout

import "github.com/kailas-cloud/fanout/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidConcurrency = domain.ErrInvalidConcurrency
	ErrNoExecutor         = domain.ErrNoExecutor
	ErrExecutorPanic      = domain.ErrExecutorPanic
	ErrItemNotFound       = domain.ErrItemNotFound
	ErrInvalidKey         = domain.ErrInvalidKey
	ErrBatchTooLarge      = domain.ErrBatchTooLarge
	ErrThrottled          = domain.ErrThrottled
	ErrStoreUnavailable   = domain.ErrStoreUnavailable
)

// ConfigError reports an invalid batch setting. Use errors.As() to inspect it.
type ConfigError = domain.ConfigError
