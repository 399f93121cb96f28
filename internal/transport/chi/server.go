package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/fanout/internal/domain"
	dombatch "github.com/kailas-cloud/fanout/internal/domain/batch"
	logpkg "github.com/kailas-cloud/fanout/internal/logger"
	healthuc "github.com/kailas-cloud/fanout/internal/usecase/health"
)

// maxTimeoutMs is the largest timeout_ms that fits in a time.Duration.
const maxTimeoutMs = math.MaxInt64 / int64(time.Millisecond)

// BatchGetter runs a batch lookup.
type BatchGetter interface {
	Get(ctx context.Context, keys []string, concurrency int) (dombatch.Result, error)
}

// HealthReporter reports component health.
type HealthReporter interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the batch lookup API.
type Server struct {
	batch         BatchGetter
	health        HealthReporter
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(batch BatchGetter, health HealthReporter, logger *zap.Logger) *Server {
	s := &Server{
		batch:  batch,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		configErrorHandler,
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, ErrorCodeStoreUnavailable),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Post("/v1/batch-get", s.BatchGet)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// BatchGet handles POST /v1/batch-get.
func (s *Server) BatchGet(w http.ResponseWriter, r *http.Request) {
	var params BatchGetParams
	query := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "max_concurrency", query, &params.MaxConcurrency); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid format for parameter max_concurrency")
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "timeout_ms", query, &params.TimeoutMs); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid format for parameter timeout_ms")
		return
	}

	var req BatchGetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Keys == nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "keys is required")
		return
	}

	ctx := logpkg.With(r.Context(), zap.Int("batch_size", len(*req.Keys)))
	if params.TimeoutMs != nil {
		if *params.TimeoutMs <= 0 {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "timeout_ms must be positive")
			return
		}
		if int64(*params.TimeoutMs) > maxTimeoutMs {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
				fmt.Sprintf("timeout_ms must not exceed %d", maxTimeoutMs))
			return
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(*params.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	concurrency := 0
	if params.MaxConcurrency != nil {
		concurrency = *params.MaxConcurrency
		if concurrency == 0 {
			// Explicit zero is a caller error, unlike an absent parameter.
			s.handleDomainError(w, domain.NewConcurrencyError(0))
			return
		}
	}

	result, err := s.batch.Get(ctx, *req.Keys, concurrency)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]BatchGetItem, result.Len())
	for i := range items {
		items[i] = batchItemFromOutcome(result.At(i))
	}

	writeJSON(w, http.StatusOK, BatchGetResponse{
		Items:     items,
		Succeeded: result.Succeeded(),
		Failed:    result.Failed(),
		Cancelled: result.Cancelled(),
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidConcurrency,
		domain.ErrNoExecutor,
		domain.ErrExecutorPanic,
		domain.ErrItemNotFound,
		domain.ErrInvalidKey,
		domain.ErrBatchTooLarge,
		domain.ErrThrottled,
		domain.ErrStoreUnavailable,
		context.Canceled,
		context.DeadlineExceeded,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// configErrorHandler handles *domain.ConfigError with the offending field and value.
func configErrorHandler(w http.ResponseWriter, err error, msg string) bool {
	var ce *domain.ConfigError
	if !errors.As(err, &ce) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"code":    ErrorCodeInvalidConcurrency,
		"message": msg,
		"field":   ce.Field,
		"value":   fmt.Sprint(ce.Value),
	})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

func batchItemFromOutcome(o dombatch.Outcome) BatchGetItem {
	item := BatchGetItem{
		Key:    o.Key(),
		Status: string(o.Status()),
	}
	if o.OK() {
		records := o.Item().Records()
		item.Records = make([]map[string]any, len(records))
		for i, rec := range records {
			item.Records[i] = rec
		}
		return item
	}
	if o.Err() != nil {
		item.Error = &ErrorResponse{
			Code:    outcomeErrorCode(o),
			Message: safeDomainMessage(o.Err()),
		}
	}
	return item
}

func outcomeErrorCode(o dombatch.Outcome) ErrorCode {
	if o.Status() == dombatch.StatusCancelled {
		return ErrorCodeCancelled
	}
	err := o.Err()
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		return ErrorCodeItemNotFound
	case errors.Is(err, domain.ErrInvalidKey):
		return ErrorCodeInvalidKey
	case errors.Is(err, domain.ErrBatchTooLarge):
		return ErrorCodeBatchTooLarge
	case errors.Is(err, domain.ErrThrottled):
		return ErrorCodeThrottled
	case errors.Is(err, domain.ErrStoreUnavailable):
		return ErrorCodeStoreUnavailable
	case errors.Is(err, domain.ErrExecutorPanic):
		return ErrorCodeExecutorPanic
	default:
		return ErrorCodeInternalError
	}
}
