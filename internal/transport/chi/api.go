package chi

// ErrorCode is the machine-readable error code in API responses.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest         ErrorCode = "bad_request"
	ErrorCodeUnauthorized       ErrorCode = "unauthorized"
	ErrorCodeValidationFailed   ErrorCode = "validation_failed"
	ErrorCodeInvalidConcurrency ErrorCode = "invalid_concurrency"
	ErrorCodeInvalidKey         ErrorCode = "invalid_key"
	ErrorCodeItemNotFound       ErrorCode = "item_not_found"
	ErrorCodeBatchTooLarge      ErrorCode = "batch_too_large"
	ErrorCodeThrottled          ErrorCode = "throttled"
	ErrorCodeStoreUnavailable   ErrorCode = "store_unavailable"
	ErrorCodeExecutorPanic      ErrorCode = "executor_panic"
	ErrorCodeCancelled          ErrorCode = "cancelled"
	ErrorCodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response and of failed batch items.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// BatchGetRequest is the body of POST /v1/batch-get.
type BatchGetRequest struct {
	Keys *[]string `json:"keys"`
}

// BatchGetParams are the query parameters of POST /v1/batch-get.
type BatchGetParams struct {
	// MaxConcurrency bounds in-flight lookups. Zero or absent means the server default.
	MaxConcurrency *int `json:"max_concurrency,omitempty"`
	// TimeoutMs cancels lookups not admitted before the deadline.
	TimeoutMs *int `json:"timeout_ms,omitempty"`
}

// BatchGetItem is the outcome for one requested key.
type BatchGetItem struct {
	Key     string           `json:"key"`
	Status  string           `json:"status"`
	Records []map[string]any `json:"records,omitempty"`
	Error   *ErrorResponse   `json:"error,omitempty"`
}

// BatchGetResponse lists outcomes in request order.
type BatchGetResponse struct {
	Items     []BatchGetItem `json:"items"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Cancelled int            `json:"cancelled"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
