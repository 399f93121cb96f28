package fanout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fanout/internal/app"
	"github.com/kailas-cloud/fanout/internal/config"
	"github.com/kailas-cloud/fanout/internal/domain"
	dombatch "github.com/kailas-cloud/fanout/internal/domain/batch"
	batchuc "github.com/kailas-cloud/fanout/internal/usecase/batch"
	healthuc "github.com/kailas-cloud/fanout/internal/usecase/health"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped out in tests.
type batchUseCase interface {
	Get(ctx context.Context, keys []string, concurrency int) (dombatch.Result, error)
}

// Client is the fanout SDK entry point.
type Client struct {
	batchSvc  batchUseCase
	healthSvc healthUseCase
	close     func()
	obs       *observer
}

// New creates a Client. For store-backed clients it connects and waits for the
// store to answer; ctx bounds that readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	if cfg.executor != nil {
		return wireExecutor(cfg, obs), nil
	}
	if cfg.driver == "" {
		return nil, errors.New("fanout: store required (use WithDynamoDB, WithRedis, WithValkey or WithExecutor)")
	}

	a, err := app.Build(ctx, appConfig(cfg), zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("fanout: %w", err)
	}

	return &Client{
		batchSvc:  a.Batch,
		healthSvc: a.Health,
		close:     a.Close,
		obs:       obs,
	}, nil
}

// appConfig maps SDK options onto the service configuration.
func appConfig(cfg *clientConfig) config.Config {
	c := config.Config{
		Store: config.StoreConfig{
			Driver: cfg.driver,
			DynamoDB: config.DynamoDBConfig{
				Region:         cfg.region,
				Endpoint:       cfg.endpoint,
				Table:          cfg.table,
				PartitionKey:   cfg.partitionKey,
				ConsistentRead: cfg.consistentRead,
			},
			Redis: config.RedisConfig{
				Addrs:     cfg.addrs,
				Password:  cfg.password,
				KeyPrefix: cfg.keyPrefix,
			},
			ReadinessTimeout: int(defaultReadinessTimeout / time.Second),
		},
		Batch: config.BatchConfig{
			MaxConcurrency: cfg.maxConcurrency,
			MaxBatchSize:   cfg.maxBatchSize,
		},
	}
	c.ApplyDefaults()
	return c
}

func wireExecutor(cfg *clientConfig, obs *observer) *Client {
	exec := executorAdapter{inner: cfg.executor}

	svc := batchuc.New(batchuc.NewRunner(nil), exec)
	if cfg.maxConcurrency > 0 {
		svc = svc.WithMaxConcurrency(cfg.maxConcurrency)
	}
	if cfg.maxBatchSize > 0 {
		svc = svc.WithMaxBatchSize(cfg.maxBatchSize)
	}

	return &Client{
		batchSvc:  svc,
		healthSvc: healthuc.New(healthuc.PingFunc(exec.HealthCheck), nil),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.close != nil {
		c.close()
	}
}

// Get looks up every key and returns one outcome per key, in input order.
// The only error is a *ConfigError for an invalid concurrency bound.
func (c *Client) Get(ctx context.Context, keys []string, opts ...GetOption) (res Result, err error) {
	done := c.obs.track("get")
	defer func() { done(err) }()

	g := getConfig{}
	for _, o := range opts {
		o(&g)
	}

	r, err := c.batchSvc.Get(ctx, keys, g.concurrency)
	if err != nil {
		return Result{}, fmt.Errorf("get: %w", err)
	}
	res = resultFromDomain(r)
	c.obs.countOutcomes(res)
	return res, nil
}

// Run queries keys through exec without a Client, never with more than
// maxConcurrency calls in flight. Cancelling ctx stops admitting new keys;
// those keys are reported with StatusCancelled.
func Run(ctx context.Context, keys []string, exec Executor, maxConcurrency int) (Result, error) {
	var inner domain.Executor
	if exec != nil {
		inner = executorAdapter{inner: exec}
	}
	r, err := batchuc.NewRunner(nil).Run(ctx, keys, inner, maxConcurrency)
	if err != nil {
		return Result{}, fmt.Errorf("fanout: %w", err)
	}
	return resultFromDomain(r), nil
}
