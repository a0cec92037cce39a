package httpclient

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Option represents a client configuration option.
type Option func(*Client)

// WithDefaultHeaders sets headers sent with every request.
func WithDefaultHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for key, value := range headers {
			c.defaultHeaders[key] = value
		}
	}
}

// WithDefaultParams sets query parameters sent with every request.
func WithDefaultParams(params map[string]string) Option {
	return func(c *Client) {
		for key, value := range params {
			c.defaultParams[key] = value
		}
	}
}

// WithAuthHeader sets headers injected into every authenticated request,
// e.g. {"X-StorageApi-Token": token}. Skipped by WithIgnoreAuth.
func WithAuthHeader(header map[string]string) Option {
	return func(c *Client) {
		for key, value := range header {
			c.authHeader[key] = value
		}
	}
}

// WithAuthenticator sets the request authenticator.
func WithAuthenticator(auth Authenticator) Option {
	return func(c *Client) {
		c.auth = auth
	}
}

// WithBasicAuth authenticates every request with HTTP basic auth.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.auth = BasicAuth{Username: username, Password: password}
	}
}

// WithTimeout sets the overall per-attempt request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client. Its transport is wrapped by the
// retry transport.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTransport sets the inner transport wrapped by the retry transport.
func WithTransport(transport http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = transport
	}
}

// WithRetryOptions forwards options to the client's retry transport.
func WithRetryOptions(options ...RetryOption) Option {
	return func(c *Client) {
		c.retryOptions = append(c.retryOptions, options...)
	}
}

// WithRateLimit caps outgoing requests per second. Each request waits for
// the limiter before being sent; the wait is context-aware.
func WithRateLimit(requestsPerSecond float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
}

// WithRateLimiter sets a custom limiter, for sharing one across clients or
// allowing bursts.
func WithRateLimiter(limiter *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// WithLogger sets a structured logger for request and retry events.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics enables Prometheus metrics on the default registerer.
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector.
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithMiddleware adds middleware to the client. Middleware run in
// registration order around the retrying HTTP client.
func WithMiddleware(middleware ...Middleware) Option {
	return func(c *Client) {
		c.middleware = append(c.middleware, middleware...)
	}
}

// WithRequestID adds middleware stamping X-Request-ID onto every request.
func WithRequestID() Option {
	return func(c *Client) {
		c.middleware = append(c.middleware, RequestIDMiddleware())
	}
}
