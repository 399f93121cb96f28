package fanout

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "fanout_sdk"

type sdkMetrics struct {
	operations *prometheus.CounterVec   // operation, status
	duration   *prometheus.HistogramVec // operation
	outcomes   *prometheus.CounterVec   // status of each looked-up key
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	var (
		m   sdkMetrics
		err error
	)
	m.operations, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "operations_total",
		Help:      "Client calls by operation and status.",
	}, []string{"operation", "status"}))
	if err != nil {
		return nil, err
	}
	m.duration, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "operation_duration_seconds",
		Help:      "Client call latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"}))
	if err != nil {
		return nil, err
	}
	m.outcomes, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "key_outcomes_total",
		Help:      "Looked-up keys by outcome.",
	}, []string{"status"}))
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// register adds c to reg. When an identical collector is already there (a
// second Client on the same registry) the existing one is returned instead.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return c, fmt.Errorf("fanout: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(C)
	if !ok {
		return c, fmt.Errorf("fanout: metric registered with type %T", are.ExistingCollector)
	}
	return existing, nil
}

// observer logs and counts client calls. Both sinks are optional; a nil
// observer is valid.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

// track starts timing op. The returned func records the end of the call.
func (o *observer) track(op string) func(err error) {
	if o == nil {
		return func(error) {}
	}
	start := time.Now()
	return func(err error) {
		elapsed := time.Since(start)
		status := "ok"
		if err != nil {
			status = "error"
		}
		if o.metrics != nil {
			o.metrics.operations.WithLabelValues(op, status).Inc()
			o.metrics.duration.WithLabelValues(op).Observe(elapsed.Seconds())
		}
		if o.logger == nil {
			return
		}
		if err != nil {
			o.logger.Warn("fanout call failed", "op", op, "elapsed", elapsed, "error", err)
			return
		}
		o.logger.Debug("fanout call done", "op", op, "elapsed", elapsed)
	}
}

func (o *observer) countOutcomes(res Result) {
	if o == nil || o.metrics == nil {
		return
	}
	o.metrics.outcomes.WithLabelValues(string(StatusOK)).Add(float64(res.Succeeded))
	o.metrics.outcomes.WithLabelValues(string(StatusError)).Add(float64(res.Failed))
	o.metrics.outcomes.WithLabelValues(string(StatusCancelled)).Add(float64(res.Cancelled))
}
