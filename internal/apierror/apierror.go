// Package apierror provides the error envelope for HTTP responses.
// All errors returned to clients go through this package so that internal
// details (SQL, driver messages, stack traces) never reach the response body.
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Error string `json:"error"`
}

func New(msg string) *APIError {
	return &APIError{Error: msg}
}

// Messages returned verbatim to clients.
const (
	MsgInternal           = "Internal server error"
	MsgQueryFailed        = "Failed to query DVF data"
	MsgRateLimited        = "Too many requests, retry shortly"
	MsgServiceUnavailable = "Store unavailable"
)
