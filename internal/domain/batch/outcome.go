package batch

import "github.com/kailas-cloud/fanout/internal/domain"

// Status is the outcome kind of a single key lookup.
type Status string

// Outcome status values.
const (
	StatusOK        Status = "ok"
	StatusError     Status = "error"
	StatusCancelled Status = "cancelled"
)

// Outcome is the result of looking up one key in a batch.
type Outcome struct {
	key    string
	status Status
	item   domain.Item
	err    error
}

// NewSuccess creates a successful outcome.
func NewSuccess(key string, item domain.Item) Outcome {
	return Outcome{key: key, status: StatusOK, item: item}
}

// NewFailure creates a failed outcome.
func NewFailure(key string, err error) Outcome {
	return Outcome{key: key, status: StatusError, err: err}
}

// NewCancelled creates an outcome for a key that was not attempted or was aborted.
func NewCancelled(key string, err error) Outcome {
	return Outcome{key: key, status: StatusCancelled, err: err}
}

// Key returns the looked-up key.
func (o Outcome) Key() string { return o.key }

// Status returns the outcome kind.
func (o Outcome) Status() Status { return o.status }

// Item returns the fetched item. Zero unless Status is StatusOK.
func (o Outcome) Item() domain.Item { return o.item }

// Err returns the failure or cancellation cause, if any.
func (o Outcome) Err() error { return o.err }

// OK reports whether the lookup succeeded.
func (o Outcome) OK() bool { return o.status == StatusOK }
