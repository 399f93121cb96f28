package batch

import (
	"github.com/kailas-cloud/fanout/internal/domain"
	dombatch "github.com/kailas-cloud/fanout/internal/domain/batch"
)

// Executor runs one point query per key. Shared read-only across all tasks of a run.
type Executor = domain.Executor

// Observer receives per-run outcome accounting. Nil disables it.
type Observer interface {
	ObserveBatch(result dombatch.Result)
}
