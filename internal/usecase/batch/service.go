package batch

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/fanout/internal/domain"
	dombatch "github.com/kailas-cloud/fanout/internal/domain/batch"
)

// Defaults for a batch service.
const (
	DefaultMaxConcurrency = 16
	DefaultMaxBatchSize   = 1000
)

// Service runs batch lookups against the configured store executor.
type Service struct {
	runner         *Runner
	exec           Executor
	maxConcurrency int
	maxBatchSize   int
}

// New creates a batch service.
func New(runner *Runner, exec Executor) *Service {
	return &Service{
		runner:         runner,
		exec:           exec,
		maxConcurrency: DefaultMaxConcurrency,
		maxBatchSize:   DefaultMaxBatchSize,
	}
}

// WithMaxConcurrency configures the default and upper concurrency bound.
func (s *Service) WithMaxConcurrency(n int) *Service {
	if n > 0 {
		s.maxConcurrency = n
	}
	return s
}

// WithMaxBatchSize configures the maximum number of keys per batch.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// MaxConcurrency returns the configured concurrency bound.
func (s *Service) MaxConcurrency() int { return s.maxConcurrency }

// MaxBatchSize returns the configured batch size limit.
func (s *Service) MaxBatchSize() int { return s.maxBatchSize }

// Get looks up keys with the given concurrency.
// concurrency 0 means the configured bound; values above it are clamped.
// Negative concurrency is a *domain.ConfigError.
func (s *Service) Get(ctx context.Context, keys []string, concurrency int) (dombatch.Result, error) {
	switch {
	case concurrency < 0:
		return dombatch.Result{}, domain.NewConcurrencyError(concurrency)
	case concurrency == 0, concurrency > s.maxConcurrency:
		concurrency = s.maxConcurrency
	}

	if len(keys) > s.maxBatchSize {
		outcomes := make([]dombatch.Outcome, len(keys))
		for i, key := range keys {
			outcomes[i] = dombatch.NewFailure(key,
				fmt.Errorf("batch size %d exceeds %d: %w", len(keys), s.maxBatchSize, domain.ErrBatchTooLarge))
		}
		return dombatch.NewResult(outcomes), nil
	}

	return s.runner.Run(ctx, keys, validating(s.exec), concurrency)
}

// validating rejects malformed keys without reaching the store.
func validating(exec Executor) Executor {
	return domain.ExecutorFunc(func(ctx context.Context, key string) (domain.Item, error) {
		if err := domain.ValidateKey(key); err != nil {
			return domain.Item{}, fmt.Errorf("key of %d bytes: %w", len(key), err)
		}
		return exec.Query(ctx, key) //nolint:wrapcheck // executor errors are already contextual
	})
}
