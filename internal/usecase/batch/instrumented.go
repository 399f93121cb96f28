package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fanout/internal/domain"
	dombatch "github.com/kailas-cloud/fanout/internal/domain/batch"
	"github.com/kailas-cloud/fanout/internal/metrics"
)

// InstrumentedExecutor wraps an Executor with per-query metrics and logging.
type InstrumentedExecutor struct {
	inner  Executor
	store  string
	logger *zap.Logger
}

// NewInstrumentedExecutor wraps an executor. store labels the metrics (dynamodb, redis, ...).
func NewInstrumentedExecutor(inner Executor, store string, logger *zap.Logger) *InstrumentedExecutor {
	return &InstrumentedExecutor{inner: inner, store: store, logger: logger}
}

// Query delegates to the inner executor and records duration and status.
func (e *InstrumentedExecutor) Query(ctx context.Context, key string) (domain.Item, error) {
	inFlight := metrics.QueryInFlight.WithLabelValues(e.store)
	inFlight.Inc()
	defer inFlight.Dec()

	start := time.Now()
	item, err := e.inner.Query(ctx, key)
	duration := time.Since(start)

	metrics.QueryDuration.WithLabelValues(e.store).Observe(duration.Seconds())
	metrics.QueryRequestsTotal.WithLabelValues(e.store, queryStatus(err)).Inc()

	if err != nil {
		if !errors.Is(err, domain.ErrItemNotFound) {
			e.logger.Warn("Store query failed",
				zap.String("store", e.store),
				zap.String("key", key),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		}
		return domain.Item{}, fmt.Errorf("query %s: %w", e.store, err)
	}

	e.logger.Debug("Store query completed",
		zap.String("store", e.store),
		zap.String("key", key),
		zap.Duration("duration", duration),
		zap.Int("records", item.Len()),
	)
	return item, nil
}

// HealthCheck delegates to the inner executor when it supports health checks.
func (e *InstrumentedExecutor) HealthCheck(ctx context.Context) error {
	if hc, ok := e.inner.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("%s health check: %w", e.store, err)
		}
	}
	return nil
}

func queryStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrItemNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrThrottled):
		return "throttled"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}

// MetricsObserver records batch sizes and per-key outcome counts.
type MetricsObserver struct{}

// ObserveBatch implements Observer.
func (MetricsObserver) ObserveBatch(result dombatch.Result) {
	metrics.BatchSize.Observe(float64(result.Len()))
	if n := result.Succeeded(); n > 0 {
		metrics.BatchOutcomesTotal.WithLabelValues(string(dombatch.StatusOK)).Add(float64(n))
	}
	if n := result.Failed(); n > 0 {
		metrics.BatchOutcomesTotal.WithLabelValues(string(dombatch.StatusError)).Add(float64(n))
	}
	if n := result.Cancelled(); n > 0 {
		metrics.BatchOutcomesTotal.WithLabelValues(string(dombatch.StatusCancelled)).Add(float64(n))
	}
}
