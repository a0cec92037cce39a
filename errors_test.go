package httpclient

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestClientErrorMessage(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name     string
		err      *ClientError
		expected string
	}{
		{
			name:     "type and message",
			err:      &ClientError{Type: ErrorTypeValidation, Message: "bad config"},
			expected: "Validation: bad config",
		},
		{
			name: "with method and URL",
			err: &ClientError{
				Type: ErrorTypeNetwork, Message: "request failed",
				Method: "GET", URL: "https://api.example.com/a",
			},
			expected: "Network: request failed (GET https://api.example.com/a)",
		},
		{
			name: "with cause",
			err: &ClientError{
				Type: ErrorTypeNetwork, Message: "request failed", Cause: cause,
			},
			expected: "Network: request failed: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestClientErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &ClientError{Type: ErrorTypeNetwork, Message: "request failed", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to reach the cause")
	}
}

func TestClientErrorIsMatchesType(t *testing.T) {
	err := &ClientError{Type: ErrorTypeAuth, Message: "bad credentials"}

	if !errors.Is(err, &ClientError{Type: ErrorTypeAuth}) {
		t.Error("Expected match on same type")
	}
	if errors.Is(err, &ClientError{Type: ErrorTypeNetwork}) {
		t.Error("Expected no match on different type")
	}
}

func TestClientErrorWrappedMatchesType(t *testing.T) {
	inner := &ClientError{Type: ErrorTypeValidation, Message: "bad value"}
	wrapped := fmt.Errorf("building client: %w", inner)

	if !errors.Is(wrapped, &ClientError{Type: ErrorTypeValidation}) {
		t.Error("Expected type match through wrapping")
	}
}

func TestStatusErrorMessage(t *testing.T) {
	err := &StatusError{StatusCode: 404, Status: "404 Not Found", Body: []byte(`{"error":"missing"}`)}
	if !strings.Contains(err.Error(), "404 Not Found") || !strings.Contains(err.Error(), "missing") {
		t.Errorf("Unexpected message: %q", err.Error())
	}

	empty := &StatusError{StatusCode: 503, Status: "503 Service Unavailable"}
	if got := empty.Error(); got != "httpclient: request failed with status 503 Service Unavailable" {
		t.Errorf("Unexpected message: %q", got)
	}
}

func TestIsRetryableStatus(t *testing.T) {
	for _, code := range []int{413, 429, 503, 504} {
		if !IsRetryableStatus(code) {
			t.Errorf("Expected %d retryable", code)
		}
	}
	for _, code := range []int{200, 400, 404, 500, 502} {
		if IsRetryableStatus(code) {
			t.Errorf("Expected %d not retryable", code)
		}
	}
}
