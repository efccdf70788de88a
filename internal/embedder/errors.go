package embedder

import "fmt"

// RateLimitError reports an HTTP 429 or an explicit rate-limit rejection.
// The pipeline retries these with exponential backoff and does not count
// them as content-level failures.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	return "rate limited: " + e.Message
}

// TransportError wraps a connection-level failure (DNS, dial, timeout).
// Retried with backoff up to the budget, then abandoned.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "request failed: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError reports a permanent remote failure: a non-retryable status, a
// malformed response body, or an explicit error payload in a 200 response.
// Status is 0 when the failure was not tied to an HTTP status.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return "api error: " + e.Body
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Body)
}
