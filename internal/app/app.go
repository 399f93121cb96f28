// Package app assembles the executor chain and services from configuration.
// Shared by the HTTP server and the CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fanout/internal/config"
	"github.com/kailas-cloud/fanout/internal/db"
	dbDynamo "github.com/kailas-cloud/fanout/internal/db/dynamodb"
	dbRedis "github.com/kailas-cloud/fanout/internal/db/redis"
	"github.com/kailas-cloud/fanout/internal/domain"
	"github.com/kailas-cloud/fanout/internal/metrics"
	"github.com/kailas-cloud/fanout/internal/repository/item"
	"github.com/kailas-cloud/fanout/internal/repository/itemcache"
	batchuc "github.com/kailas-cloud/fanout/internal/usecase/batch"
	healthuc "github.com/kailas-cloud/fanout/internal/usecase/health"
)

// App holds the wired services and the connections they own.
type App struct {
	Batch  *batchuc.Service
	Health *healthuc.Service

	closers []func()
}

// Close releases store connections.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// storeHandle is what the composition root needs from a backing store.
type storeHandle interface {
	db.Pinger
	db.ReadyWaiter
}

// Build connects to the configured store (and cache), waits for readiness and
// assembles the executor chain: store -> cache -> instrumented.
func Build(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	a := &App{}
	readiness := time.Duration(cfg.Store.ReadinessTimeout) * time.Second

	base, store, err := a.buildStoreExecutor(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	if err := store.WaitForReady(ctx, readiness); err != nil {
		a.Close()
		return nil, fmt.Errorf("store not ready: %w", err)
	}
	logger.Info("Connected to store", zap.String("driver", cfg.Store.Driver))

	exec := base
	var cachePinger healthuc.Pinger
	if cfg.Cache.Enabled {
		cache, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("create cache store: %w", err)
		}
		a.closers = append(a.closers, cache.Close)
		if err := cache.WaitForReady(ctx, readiness); err != nil {
			a.Close()
			return nil, fmt.Errorf("cache not ready: %w", err)
		}

		exec = itemcache.New(exec, cache,
			time.Duration(cfg.Cache.TTLSec)*time.Second,
			metrics.ItemCacheTotal, logger,
			itemcache.WithKeyPrefix(cfg.Cache.KeyPrefix),
		)
		cachePinger = cache
		logger.Info("Item cache enabled", zap.Int("ttl_sec", cfg.Cache.TTLSec))
	}

	exec = batchuc.NewInstrumentedExecutor(exec, cfg.Store.Driver, logger)

	runner := batchuc.NewRunner(batchuc.MetricsObserver{})
	a.Batch = batchuc.New(runner, exec).
		WithMaxConcurrency(cfg.Batch.MaxConcurrency).
		WithMaxBatchSize(cfg.Batch.MaxBatchSize)
	a.Health = healthuc.New(storeHealth(base, store), cachePinger)

	return a, nil
}

func (a *App) buildStoreExecutor(ctx context.Context, cfg config.Config) (domain.Executor, storeHandle, error) {
	switch cfg.Store.Driver {
	case config.DriverDynamoDB:
		d := cfg.Store.DynamoDB
		store, err := dbDynamo.NewStore(ctx, dbDynamo.Config{
			Region:         d.Region,
			Endpoint:       d.Endpoint,
			Table:          d.Table,
			PartitionKey:   d.PartitionKey,
			Projection:     d.Projection,
			ConsistentRead: d.ConsistentRead,
			PageLimit:      d.PageLimit,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create dynamodb store: %w", err)
		}
		return item.NewPartitionExecutor(store), store, nil

	case config.DriverRedis, config.DriverValkey:
		r := cfg.Store.Redis
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    r.Addrs,
			Username: r.Username,
			Password: r.Password,
			DB:       r.DB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create %s store: %w", cfg.Store.Driver, err)
		}
		a.closers = append(a.closers, store.Close)
		return domain.NewPrefixedExecutor(item.NewHashExecutor(store), r.KeyPrefix), store, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// storeHealth prefers the executor's own health check, which maps store
// failures onto domain.ErrStoreUnavailable.
func storeHealth(exec domain.Executor, store db.Pinger) healthuc.Pinger {
	if hc, ok := exec.(domain.HealthChecker); ok {
		return healthuc.PingFunc(hc.HealthCheck)
	}
	return store
}
