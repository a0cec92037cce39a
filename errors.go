package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Error type categories carried by ClientError.
const (
	ErrorTypeValidation = "Validation"
	ErrorTypeNetwork    = "Network"
	ErrorTypeAuth       = "Auth"
)

// ErrBaseURLRequired is returned when a client is constructed without a base URL.
var ErrBaseURLRequired = errors.New("httpclient: base URL is required")

// ClientError represents a failure produced by the client itself rather
// than by the remote service.
type ClientError struct {
	Type    string
	Message string
	Cause   error
	Method  string
	URL     string
}

// Error implements error interface.
func (e *ClientError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Method != "" && e.URL != "" {
		msg = fmt.Sprintf("%s (%s %s)", msg, e.Method, e.URL)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ClientError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error types for errors.Is.
func (e *ClientError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*ClientError); ok {
		return e.Type == targetErr.Type
	}
	return false
}

// StatusError is returned by the JSON helpers when the response status is
// not 2xx. The raw request methods never produce it; they hand back the
// response as-is and leave status interpretation to the caller.
type StatusError struct {
	StatusCode int
	Status     string
	Body       []byte
}

// Error implements error interface.
func (e *StatusError) Error() string {
	if len(e.Body) > 0 {
		return fmt.Sprintf("httpclient: request failed with status %s: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("httpclient: request failed with status %s", e.Status)
}

// IsRetryableStatus reports whether code is in the default retryable set.
func IsRetryableStatus(code int) bool {
	switch code {
	case http.StatusRequestEntityTooLarge,
		http.StatusTooManyRequests,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func newValidationError(message string) *ClientError {
	return &ClientError{Type: ErrorTypeValidation, Message: message}
}
