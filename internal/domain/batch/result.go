package batch

// Result holds one outcome per input key, in input order.
type Result struct {
	outcomes []Outcome
}

// NewResult wraps outcomes already placed in input order.
func NewResult(outcomes []Outcome) Result {
	return Result{outcomes: outcomes}
}

// Len returns the number of outcomes.
func (r Result) Len() int { return len(r.outcomes) }

// At returns the outcome for the i-th input key.
func (r Result) At(i int) Outcome { return r.outcomes[i] }

// Outcomes returns a copy of all outcomes.
func (r Result) Outcomes() []Outcome {
	out := make([]Outcome, len(r.outcomes))
	copy(out, r.outcomes)
	return out
}

// Succeeded returns the number of successful lookups.
func (r Result) Succeeded() int { return r.count(StatusOK) }

// Failed returns the number of failed lookups.
func (r Result) Failed() int { return r.count(StatusError) }

// Cancelled returns the number of lookups that never completed due to cancellation.
func (r Result) Cancelled() int { return r.count(StatusCancelled) }

// FailedKeys returns the keys whose lookup failed, in input order.
func (r Result) FailedKeys() []string { return r.keys(StatusError) }

// RetryableKeys returns failed and cancelled keys, in input order.
func (r Result) RetryableKeys() []string { return r.keys(StatusError, StatusCancelled) }

func (r Result) count(s Status) int {
	n := 0
	for _, o := range r.outcomes {
		if o.status == s {
			n++
		}
	}
	return n
}

func (r Result) keys(statuses ...Status) []string {
	var keys []string
	for _, o := range r.outcomes {
		for _, s := range statuses {
			if o.status == s {
				keys = append(keys, o.key)
				break
			}
		}
	}
	return keys
}
