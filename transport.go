package httpclient

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	internalbackoff "github.com/keboola/go-http-client/internal/backoff"
)

// DefaultRetryableMethods are the methods retried unless overridden.
var DefaultRetryableMethods = []string{
	http.MethodHead,
	http.MethodGet,
	http.MethodPut,
	http.MethodDelete,
	http.MethodOptions,
	http.MethodTrace,
}

// DefaultRetryableStatusCodes are the status codes retried unless overridden.
var DefaultRetryableStatusCodes = []int{
	http.StatusRequestEntityTooLarge,
	http.StatusTooManyRequests,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
}

const (
	// DefaultMaxAttempts bounds total sends for one logical request.
	DefaultMaxAttempts = 10
	// DefaultMaxBackoffWait caps a single computed wait.
	DefaultMaxBackoffWait = 60 * time.Second
	// DefaultBackoffFactor is the base of the exponential backoff.
	DefaultBackoffFactor = 100 * time.Millisecond
	// DefaultJitterRatio is the relative magnitude of backoff jitter.
	DefaultJitterRatio = 0.1
)

// drainLimit bounds how much of a discarded body is read before closing so
// the underlying connection can be reused.
const drainLimit = 4 << 10

// RetryTransport is an http.RoundTripper decorator that retries requests
// whose responses signal a transient failure. Retry eligibility is keyed off
// the request method and response status code; waits between attempts honor
// the Retry-After header when present and fall back to exponential backoff
// with jitter. It substitutes transparently wherever a transport is expected
// and is safe for concurrent use: policy configuration is read-only and all
// attempt state is per request.
//
// Errors raised by the inner transport (connection refused, DNS failure,
// context cancellation) propagate immediately and are never retried.
type RetryTransport struct {
	inner                http.RoundTripper
	maxAttempts          int
	maxBackoffWait       time.Duration
	backoffFactor        time.Duration
	jitterRatio          float64
	respectRetryAfter    bool
	retryableMethods     map[string]struct{}
	retryableStatusCodes map[int]struct{}
	metrics              *MetricsCollector
	logger               Logger

	// injectable for deterministic tests
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// RetryOption configures a RetryTransport.
type RetryOption func(*RetryTransport)

// WithMaxAttempts bounds total sends (1 initial + up to n−1 retries).
func WithMaxAttempts(n int) RetryOption {
	return func(t *RetryTransport) {
		t.maxAttempts = n
	}
}

// WithMaxBackoffWait caps a single computed backoff wait.
func WithMaxBackoffWait(d time.Duration) RetryOption {
	return func(t *RetryTransport) {
		t.maxBackoffWait = d
	}
}

// WithBackoffFactor sets the base of the exponential backoff.
func WithBackoffFactor(d time.Duration) RetryOption {
	return func(t *RetryTransport) {
		t.backoffFactor = d
	}
}

// WithJitterRatio sets the relative jitter magnitude. Values outside
// [0, 0.5] fail construction; they are never clamped silently.
func WithJitterRatio(f float64) RetryOption {
	return func(t *RetryTransport) {
		t.jitterRatio = f
	}
}

// WithRespectRetryAfter toggles honoring the server-supplied Retry-After
// header when computing waits.
func WithRespectRetryAfter(respect bool) RetryOption {
	return func(t *RetryTransport) {
		t.respectRetryAfter = respect
	}
}

// WithRetryableMethods replaces the retryable method set.
func WithRetryableMethods(methods ...string) RetryOption {
	return func(t *RetryTransport) {
		t.retryableMethods = make(map[string]struct{}, len(methods))
		for _, m := range methods {
			t.retryableMethods[strings.ToUpper(m)] = struct{}{}
		}
	}
}

// WithRetryableStatusCodes replaces the retryable status code set.
func WithRetryableStatusCodes(codes ...int) RetryOption {
	return func(t *RetryTransport) {
		t.retryableStatusCodes = make(map[int]struct{}, len(codes))
		for _, c := range codes {
			t.retryableStatusCodes[c] = struct{}{}
		}
	}
}

// WithRetryLogger sets a logger for retry scheduling events.
func WithRetryLogger(logger Logger) RetryOption {
	return func(t *RetryTransport) {
		t.logger = logger
	}
}

// WithRetryMetrics sets a metrics collector for retry events.
func WithRetryMetrics(metrics *MetricsCollector) RetryOption {
	return func(t *RetryTransport) {
		t.metrics = metrics
	}
}

// NewRetryTransport wraps inner with the bounded-retry policy. A nil inner
// transport falls back to http.DefaultTransport. Invalid configuration is a
// construction-time error; no request is ever sent through an invalid
// transport.
func NewRetryTransport(inner http.RoundTripper, options ...RetryOption) (*RetryTransport, error) {
	if inner == nil {
		inner = http.DefaultTransport
	}

	t := &RetryTransport{
		inner:             inner,
		maxAttempts:       DefaultMaxAttempts,
		maxBackoffWait:    DefaultMaxBackoffWait,
		backoffFactor:     DefaultBackoffFactor,
		jitterRatio:       DefaultJitterRatio,
		respectRetryAfter: true,
		sleep:             sleepContext,
		now:               time.Now,
	}

	for _, option := range options {
		option(t)
	}

	if t.retryableMethods == nil {
		WithRetryableMethods(DefaultRetryableMethods...)(t)
	}
	if t.retryableStatusCodes == nil {
		WithRetryableStatusCodes(DefaultRetryableStatusCodes...)(t)
	}

	if err := t.validate(); err != nil {
		return nil, err
	}

	return t, nil
}

func (t *RetryTransport) validate() error {
	var errs []string

	if t.maxAttempts < 1 {
		errs = append(errs, "maxAttempts must be at least 1")
	}
	if t.maxBackoffWait <= 0 {
		errs = append(errs, "maxBackoffWait must be positive")
	}
	if t.backoffFactor < 0 {
		errs = append(errs, "backoffFactor must be non-negative")
	}
	if t.jitterRatio < 0 || t.jitterRatio > 0.5 {
		errs = append(errs, "jitterRatio must be between 0 and 0.5, actual "+
			strconv.FormatFloat(t.jitterRatio, 'g', -1, 64))
	}

	if len(errs) > 0 {
		return newValidationError("invalid retry transport configuration: " + strings.Join(errs, "; "))
	}
	return nil
}

// RoundTrip implements http.RoundTripper. It returns the final response
// received, successful or not; interpreting non-2xx statuses is the
// caller's responsibility.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.inner.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if _, ok := t.retryableMethods[req.Method]; !ok {
		return resp, nil
	}

	endpoint := getEndpointFromRequest(req)
	remainingAttempts := t.maxAttempts - 1
	attemptsMade := 1

	for {
		if remainingAttempts < 1 {
			return resp, nil
		}
		if _, ok := t.retryableStatusCodes[resp.StatusCode]; !ok {
			return resp, nil
		}
		if ok, rewindErr := rewindBody(req); rewindErr != nil || !ok {
			// The body cannot be replayed, so the response stands.
			return resp, nil
		}

		wait := t.calculateSleep(attemptsMade, resp.Header)
		status := resp.StatusCode
		drainAndClose(resp)

		if t.logger != nil {
			t.logger.Debug("Scheduling retry",
				"method", req.Method, "endpoint", endpoint,
				"statusCode", status, "attempt", attemptsMade, "wait", wait)
		}
		if t.metrics != nil {
			t.metrics.RecordRetry(req.Method, endpoint, attemptsMade)
			t.metrics.RecordRetryWait(req.Method, endpoint, wait)
		}

		if err := t.sleep(req.Context(), wait); err != nil {
			return nil, err
		}

		resp, err = t.inner.RoundTrip(req)
		if err != nil {
			return nil, err
		}

		attemptsMade++
		remainingAttempts--
	}
}

// calculateSleep computes the wait before the next send. A server-supplied
// Retry-After hint wins when enabled: integer values are used verbatim as
// seconds, timestamp values wait until the given instant (never negative,
// capped at the ceiling) and unparseable values fall through to computed
// backoff.
func (t *RetryTransport) calculateSleep(attemptsMade int, headers http.Header) time.Duration {
	if t.respectRetryAfter {
		if value := strings.TrimSpace(headers.Get("Retry-After")); value != "" {
			if seconds, err := strconv.Atoi(value); err == nil && seconds >= 0 {
				return time.Duration(seconds) * time.Second
			}
			if ts, ok := parseRetryAfterTime(value); ok {
				return internalbackoff.Cap(ts.Sub(t.now()), t.maxBackoffWait)
			}
		}
	}

	wait := internalbackoff.Exponential(t.backoffFactor, attemptsMade)
	wait = internalbackoff.Jitter(wait, t.jitterRatio)
	return internalbackoff.Cap(wait, t.maxBackoffWait)
}

// parseRetryAfterTime parses a Retry-After timestamp in HTTP-date or
// RFC 3339 format. Parse failures are reported, not raised; the caller
// degrades to computed backoff.
func parseRetryAfterTime(value string) (time.Time, bool) {
	if ts, err := http.ParseTime(value); err == nil {
		return ts, true
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, true
	}
	return time.Time{}, false
}

// rewindBody restores the request body for a resend. Bodyless requests are
// always replayable; bodied requests need GetBody.
func rewindBody(req *http.Request) (bool, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return true, nil
	}
	if req.GetBody == nil {
		return false, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return false, err
	}
	req.Body = body
	return true, nil
}

// drainAndClose releases a discarded response so its connection is not
// leaked before the next send.
func drainAndClose(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit))
	_ = resp.Body.Close()
}

// sleepContext waits for d or until ctx is cancelled, whichever comes
// first. Cancellation aborts the retry loop with ctx.Err().
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func getEndpointFromRequest(req *http.Request) string {
	if req.URL == nil {
		return "unknown"
	}

	host := req.URL.Host
	path := req.URL.Path

	var builder strings.Builder
	builder.WriteString(host)

	if path != "" && path != "/" {
		builder.WriteString(path)
	} else {
		builder.WriteByte('/')
	}

	return builder.String()
}
