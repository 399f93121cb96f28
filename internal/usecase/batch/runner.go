package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/kailas-cloud/fanout/internal/domain"
	dombatch "github.com/kailas-cloud/fanout/internal/domain/batch"
	logpkg "github.com/kailas-cloud/fanout/internal/logger"
)

// Runner fans a batch of keys out to an executor with bounded concurrency.
// A failing key never aborts its siblings.
type Runner struct {
	observer Observer
}

// NewRunner creates a runner. observer can be nil.
func NewRunner(observer Observer) *Runner {
	return &Runner{observer: observer}
}

// Run queries every key exactly once, never with more than maxConcurrency calls
// in flight, and returns one outcome per key in input order.
//
// The only error returned is a *domain.ConfigError, before any query is issued.
// When ctx is done, keys not yet admitted are recorded as cancelled; admitted
// queries see the same ctx and finish on their own terms.
func (r *Runner) Run(
	ctx context.Context, keys []string, exec Executor, maxConcurrency int,
) (dombatch.Result, error) {
	if maxConcurrency < 1 {
		return dombatch.Result{}, domain.NewConcurrencyError(maxConcurrency)
	}
	if exec == nil {
		return dombatch.Result{}, &domain.ConfigError{Field: "executor", Value: nil, Err: domain.ErrNoExecutor}
	}
	if len(keys) == 0 {
		return dombatch.NewResult([]dombatch.Outcome{}), nil
	}

	logger := logpkg.FromContext(ctx)
	start := time.Now()

	// Each task owns outcomes[i]; no lock needed.
	outcomes := make([]dombatch.Outcome, len(keys))
	gate := semaphore.NewWeighted(int64(maxConcurrency))

	var wg sync.WaitGroup
	admitted := 0
	for i, key := range keys {
		if err := admit(ctx, gate); err != nil {
			break
		}
		admitted++

		wg.Add(1)
		go func(i int, key string) {
			defer wg.Done()
			defer gate.Release(1)
			outcomes[i] = r.execute(ctx, exec, key, logger)
		}(i, key)
	}

	for i := admitted; i < len(keys); i++ {
		outcomes[i] = dombatch.NewCancelled(keys[i], fmt.Errorf("not started: %w", context.Cause(ctx)))
	}

	wg.Wait()

	result := dombatch.NewResult(outcomes)
	if r.observer != nil {
		r.observer.ObserveBatch(result)
	}

	logger.Debug("Batch run completed",
		zap.Int("keys", len(keys)),
		zap.Int("max_concurrency", maxConcurrency),
		zap.Int("succeeded", result.Succeeded()),
		zap.Int("failed", result.Failed()),
		zap.Int("cancelled", result.Cancelled()),
		zap.Duration("duration", time.Since(start)),
	)

	return result, nil
}

// admit blocks until a slot is free. A done context always wins, even when a
// slot is available.
func admit(ctx context.Context, gate *semaphore.Weighted) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := gate.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquire slot: %w", err)
	}
	if err := ctx.Err(); err != nil {
		gate.Release(1)
		return err
	}
	return nil
}

// execute calls the executor once and classifies the outcome.
func (r *Runner) execute(ctx context.Context, exec Executor, key string, logger *zap.Logger) (out dombatch.Outcome) {
	defer func() {
		if rvr := recover(); rvr != nil {
			logger.Warn("Executor panic recovered",
				zap.String("key", key),
				zap.Any("panic", rvr),
			)
			out = dombatch.NewFailure(key, fmt.Errorf("%w: %v", domain.ErrExecutorPanic, rvr))
		}
	}()

	item, err := exec.Query(ctx, key)
	if err == nil {
		return dombatch.NewSuccess(key, item)
	}
	if isCancellation(ctx, err) {
		return dombatch.NewCancelled(key, err)
	}
	return dombatch.NewFailure(key, err)
}

// isCancellation reports whether err is the run's own cancellation surfacing
// through the executor, as opposed to a store-side timeout.
func isCancellation(ctx context.Context, err error) bool {
	if ctx.Err() == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
