// Package health reports store and cache reachability.
package health

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the item cache is failing while the store answers.
	Degraded Status = "degraded"
	// Unhealthy indicates the store cannot be queried.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names reported in Report.Checks.
const (
	ComponentStore = "store"
	ComponentCache = "cache"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

const defaultCheckTimeout = 2 * time.Second

// Service pings the store and the optional cache.
type Service struct {
	store   Pinger
	cache   Pinger
	timeout time.Duration
}

// New creates a Service. cache can be nil when caching is disabled.
func New(store, cache Pinger) *Service {
	return &Service{store: store, cache: cache, timeout: defaultCheckTimeout}
}

// Check pings all components concurrently, each bounded by the check timeout.
// A failing store makes the report Unhealthy; a failing cache only Degraded,
// since lookups still reach the store.
func (s *Service) Check(ctx context.Context) Report {
	var storeRes, cacheRes CheckResult
	var g errgroup.Group
	g.Go(func() error { storeRes = s.ping(ctx, s.store); return nil })
	if s.cache != nil {
		g.Go(func() error { cacheRes = s.ping(ctx, s.cache); return nil })
	}
	_ = g.Wait()

	report := Report{Status: Healthy, Checks: map[string]CheckResult{ComponentStore: storeRes}}
	if s.cache != nil {
		report.Checks[ComponentCache] = cacheRes
		if cacheRes == CheckError {
			report.Status = Degraded
		}
	}
	if storeRes == CheckError {
		report.Status = Unhealthy
	}
	return report
}

func (s *Service) ping(ctx context.Context, p Pinger) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
