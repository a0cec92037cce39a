package httpclient

import (
	"net/http"

	"github.com/google/uuid"
)

// Middleware represents a middleware function wrapping request execution.
type Middleware func(req *http.Request, next RoundTripper) (*http.Response, error)

// RoundTripper represents the HTTP transport interface seen by middleware.
type RoundTripper interface {
	RoundTrip(*http.Request) (*http.Response, error)
}

// RoundTripperFunc is a helper type for middleware
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// HeaderRequestID is the standard header name for request tracing.
const HeaderRequestID = "X-Request-ID"

// chainMiddleware wraps base so middleware run in registration order (the
// last middleware added is closest to the transport).
func chainMiddleware(base RoundTripper, middleware []Middleware) RoundTripper {
	current := base
	for i := len(middleware) - 1; i >= 0; i-- {
		mw := middleware[i]
		next := current
		current = RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			return mw(r, next)
		})
	}
	return current
}

// RequestIDMiddleware sets an X-Request-ID header on outgoing requests that
// do not already carry one.
func RequestIDMiddleware() Middleware {
	return func(req *http.Request, next RoundTripper) (*http.Response, error) {
		if req.Header.Get(HeaderRequestID) == "" {
			req.Header.Set(HeaderRequestID, uuid.NewString())
		}
		return next.RoundTrip(req)
	}
}
