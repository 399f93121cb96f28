package fanout

import (
	"context"

	"github.com/kailas-cloud/fanout/internal/domain"
	dombatch "github.com/kailas-cloud/fanout/internal/domain/batch"
)

// Record is one stored row returned for a key. DynamoDB numbers arrive as
// json.Number, so large integers keep every digit.
type Record map[string]any

// Executor runs one point query by key. It is called concurrently, up to the
// concurrency bound of the batch.
type Executor interface {
	Query(ctx context.Context, key string) ([]Record, error)
}

// ExecutorFunc adapts a plain function to Executor.
type ExecutorFunc func(ctx context.Context, key string) ([]Record, error)

// Query calls f(ctx, key).
func (f ExecutorFunc) Query(ctx context.Context, key string) ([]Record, error) {
	return f(ctx, key)
}

// Status is the outcome kind of one key.
type Status string

// Status constants.
const (
	StatusOK        Status = "ok"
	StatusError     Status = "error"
	StatusCancelled Status = "cancelled"
)

// Outcome is the result for one requested key.
type Outcome struct {
	Key     string
	Status  Status
	Records []Record // set when Status is StatusOK
	Err     error    // set otherwise
}

// Result holds one outcome per requested key, in request order.
type Result struct {
	Outcomes  []Outcome
	Succeeded int
	Failed    int
	Cancelled int
}

// RetryableKeys returns the keys that did not succeed, in request order.
func (r Result) RetryableKeys() []string {
	var keys []string
	for _, o := range r.Outcomes {
		if o.Status != StatusOK {
			keys = append(keys, o.Key)
		}
	}
	return keys
}

func resultFromDomain(r dombatch.Result) Result {
	out := Result{
		Outcomes:  make([]Outcome, r.Len()),
		Succeeded: r.Succeeded(),
		Failed:    r.Failed(),
		Cancelled: r.Cancelled(),
	}
	for i := range out.Outcomes {
		o := r.At(i)
		pub := Outcome{Key: o.Key(), Status: Status(o.Status()), Err: o.Err()}
		if o.OK() {
			recs := o.Item().Records()
			pub.Records = make([]Record, len(recs))
			for j, rec := range recs {
				pub.Records[j] = Record(rec)
			}
		}
		out.Outcomes[i] = pub
	}
	return out
}

// executorAdapter wraps a public Executor to satisfy domain.Executor.
type executorAdapter struct {
	inner Executor
}

func (a executorAdapter) Query(ctx context.Context, key string) (domain.Item, error) {
	recs, err := a.inner.Query(ctx, key)
	if err != nil {
		return domain.Item{}, err //nolint:wrapcheck // caller-supplied error surfaces as-is
	}
	out := make([]domain.Record, len(recs))
	for i, rec := range recs {
		out[i] = domain.Record(rec)
	}
	return domain.NewItem(key, out), nil
}
