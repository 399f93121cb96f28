package fanout

import (
	"context"
	"errors"

	healthuc "github.com/kailas-cloud/fanout/internal/usecase/health"
)

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// HealthStatus is the store (and cache) reachability seen by the client.
// Status is "ok", "degraded" or "error"; Checks maps "store" and, when a
// cache is configured, "cache" to "ok" or "error".
type HealthStatus struct {
	Status string
	Checks map[string]string
}

// OK reports whether every component answered.
func (h HealthStatus) OK() bool { return h.Status == string(healthuc.Healthy) }

// Health pings the store behind the client. Custom executors are pinged through
// their HealthCheck(ctx) error method when they have one.
func (c *Client) Health(ctx context.Context) (h HealthStatus) {
	done := c.obs.track("health")
	report := c.healthSvc.Check(ctx)

	h = HealthStatus{Status: string(report.Status), Checks: make(map[string]string, len(report.Checks))}
	for component, res := range report.Checks {
		h.Checks[component] = string(res)
	}

	var err error
	if !h.OK() {
		err = errors.New("health: " + h.Status)
	}
	done(err)
	return h
}

// HealthCheck lets a custom executor take part in Health.
func (a executorAdapter) HealthCheck(ctx context.Context) error {
	hc, ok := a.inner.(interface{ HealthCheck(context.Context) error })
	if !ok {
		return nil
	}
	return hc.HealthCheck(ctx) //nolint:wrapcheck // caller-supplied error surfaces as-is
}
