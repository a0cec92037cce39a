package httpclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Client is a base for building REST API clients. It joins endpoint paths
// onto a base URL, merges default headers and parameters into every request,
// injects authentication and sends through a RetryTransport. It is safe for
// concurrent use.
type Client struct {
	baseURL        *url.URL
	httpClient     *http.Client
	transport      http.RoundTripper
	retryOptions   []RetryOption
	defaultHeaders map[string]string
	defaultParams  map[string]string
	auth           Authenticator
	middleware     []Middleware
	limiter        *rate.Limiter
	logger         Logger
	metrics        *MetricsCollector
	timeout        time.Duration

	mu         sync.RWMutex
	authHeader map[string]string
}

// New constructs a Client for the given base URL using the provided
// functional options. A trailing slash is ensured so relative endpoint
// paths join below the base path. Invalid configuration, including an
// invalid retry policy, fails construction.
func New(baseURL string, options ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, ErrBaseURLRequired
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, &ClientError{Type: ErrorTypeValidation, Message: "invalid base URL", Cause: err}
	}

	c := &Client{
		baseURL:        parsed,
		defaultHeaders: map[string]string{},
		defaultParams:  map[string]string{},
		authHeader:     map[string]string{},
		timeout:        30 * time.Second,
	}

	for _, option := range options {
		option(c)
	}

	// Observability defaults for the transport; explicit retry options win.
	var retryOptions []RetryOption
	if c.logger != nil {
		retryOptions = append(retryOptions, WithRetryLogger(c.logger))
	}
	if c.metrics != nil {
		retryOptions = append(retryOptions, WithRetryMetrics(c.metrics))
	}
	retryOptions = append(retryOptions, c.retryOptions...)

	inner := c.transport
	if inner == nil && c.httpClient != nil {
		inner = c.httpClient.Transport
	}

	retryTransport, err := NewRetryTransport(inner, retryOptions...)
	if err != nil {
		return nil, err
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	c.httpClient.Timeout = c.timeout
	c.httpClient.Transport = retryTransport

	return c, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// UpdateAuthHeader updates the default auth header with new values. With
// overwrite the new header replaces the current one entirely.
func (c *Client) UpdateAuthHeader(updated map[string]string, overwrite bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if overwrite {
		c.authHeader = make(map[string]string, len(updated))
	}
	for key, value := range updated {
		c.authHeader[key] = value
	}
}

// Do sends a request with the given method to the endpoint path resolved
// against the base URL and returns the final response, whether successful or
// not. Non-2xx statuses are not errors here; use the JSON helpers for
// status checking.
func (c *Client) Do(ctx context.Context, method, endpointPath string, options ...RequestOption) (*http.Response, error) {
	spec := newRequestSpec()
	for _, option := range options {
		option(spec)
	}

	req, err := c.buildRequest(ctx, method, endpointPath, spec)
	if err != nil {
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	endpoint := getEndpointFromRequest(req)
	start := time.Now()

	if c.logger != nil {
		c.logger.Debug("Starting request", "method", req.Method, "url", req.URL.String(), "endpoint", endpoint)
	}
	c.metrics.RecordRequestStart(req.Method, endpoint)

	resp, err := c.send(req)

	c.metrics.RecordRequestEnd(req.Method, endpoint)
	duration := time.Since(start)
	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	c.metrics.RecordRequest(req.Method, endpoint, statusCode, duration)

	if err != nil {
		c.metrics.RecordError(ErrorTypeNetwork, req.Method, endpoint)
		if c.logger != nil {
			c.logger.Error("Request failed", "method", req.Method, "url", req.URL.String(), "error", err.Error())
		}
		return nil, &ClientError{
			Type:    ErrorTypeNetwork,
			Message: "request failed",
			Cause:   err,
			Method:  req.Method,
			URL:     req.URL.String(),
		}
	}

	if c.logger != nil {
		c.logger.Debug("Request finished", "method", req.Method, "endpoint", endpoint, "statusCode", statusCode, "duration", duration)
	}

	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, endpointPath string, options ...RequestOption) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, endpointPath, options...)
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, endpointPath string, options ...RequestOption) (*http.Response, error) {
	return c.Do(ctx, http.MethodPost, endpointPath, options...)
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, endpointPath string, options ...RequestOption) (*http.Response, error) {
	return c.Do(ctx, http.MethodPut, endpointPath, options...)
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, endpointPath string, options ...RequestOption) (*http.Response, error) {
	return c.Do(ctx, http.MethodPatch, endpointPath, options...)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, endpointPath string, options ...RequestOption) (*http.Response, error) {
	return c.Do(ctx, http.MethodDelete, endpointPath, options...)
}

// GetJSON performs a GET request and decodes the response body into out.
func (c *Client) GetJSON(ctx context.Context, endpointPath string, out interface{}, options ...RequestOption) error {
	return c.DoJSON(ctx, http.MethodGet, endpointPath, out, options...)
}

// PostJSON performs a POST request and decodes the response body into out.
func (c *Client) PostJSON(ctx context.Context, endpointPath string, out interface{}, options ...RequestOption) error {
	return c.DoJSON(ctx, http.MethodPost, endpointPath, out, options...)
}

// PutJSON performs a PUT request and decodes the response body into out.
func (c *Client) PutJSON(ctx context.Context, endpointPath string, out interface{}, options ...RequestOption) error {
	return c.DoJSON(ctx, http.MethodPut, endpointPath, out, options...)
}

// PatchJSON performs a PATCH request and decodes the response body into out.
func (c *Client) PatchJSON(ctx context.Context, endpointPath string, out interface{}, options ...RequestOption) error {
	return c.DoJSON(ctx, http.MethodPatch, endpointPath, out, options...)
}

// DeleteJSON performs a DELETE request and decodes the response body into out.
func (c *Client) DeleteJSON(ctx context.Context, endpointPath string, out interface{}, options ...RequestOption) error {
	return c.DoJSON(ctx, http.MethodDelete, endpointPath, out, options...)
}

// DoJSON sends a request, fails with *StatusError on non-2xx responses and
// otherwise decodes the body into out. A nil out discards the body.
func (c *Client) DoJSON(ctx context.Context, method, endpointPath string, out interface{}, options ...RequestOption) error {
	resp, err := c.Do(ctx, method, endpointPath, options...)
	if err != nil {
		return err
	}
	return decodeJSON(resp, out)
}

// Job describes one request in a ProcessMultiple batch.
type Job struct {
	Method  string
	Path    string
	Options []RequestOption
}

// ProcessMultiple runs the jobs concurrently, one goroutine per logical
// request, each retrying independently. Responses are returned in job
// order; the first error cancels the remaining jobs.
func (c *Client) ProcessMultiple(ctx context.Context, jobs []Job) ([]*http.Response, error) {
	g, ctx := errgroup.WithContext(ctx)
	responses := make([]*http.Response, len(jobs))

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			resp, err := c.Do(ctx, job.Method, job.Path, job.Options...)
			if err != nil {
				return err
			}
			responses[i] = resp
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return responses, nil
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	if len(c.middleware) == 0 {
		return c.httpClient.Do(req)
	}
	return chainMiddleware(RoundTripperFunc(c.httpClient.Do), c.middleware).RoundTrip(req)
}

func (c *Client) buildRequest(ctx context.Context, method, endpointPath string, spec *requestSpec) (*http.Request, error) {
	target, err := c.buildURL(endpointPath, spec)
	if err != nil {
		return nil, err
	}

	body, contentType, err := spec.bodyReader()
	if err != nil {
		return nil, &ClientError{Type: ErrorTypeValidation, Message: "invalid request body", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, &ClientError{Type: ErrorTypeValidation, Message: "invalid request", Cause: err}
	}

	for key, value := range c.defaultHeaders {
		req.Header.Set(key, value)
	}
	if !spec.ignoreAuth {
		c.mu.RLock()
		for key, value := range c.authHeader {
			req.Header.Set(key, value)
		}
		c.mu.RUnlock()
	}
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}
	for key, value := range spec.headers {
		req.Header.Set(key, value)
	}
	for _, cookie := range spec.cookies {
		req.AddCookie(cookie)
	}

	if !spec.ignoreAuth && c.auth != nil {
		if err := c.auth.Authenticate(req); err != nil {
			return nil, &ClientError{Type: ErrorTypeAuth, Message: "authentication failed", Cause: err}
		}
	}

	return req, nil
}

// buildURL resolves the endpoint path against the base URL, or uses it
// verbatim for absolute requests, and merges default and per-request query
// parameters (per-request values win).
func (c *Client) buildURL(endpointPath string, spec *requestSpec) (string, error) {
	path := strings.TrimSpace(endpointPath)

	var target *url.URL
	switch {
	case spec.absoluteURL:
		parsed, err := url.Parse(path)
		if err != nil {
			return "", &ClientError{Type: ErrorTypeValidation, Message: "invalid absolute URL", Cause: err}
		}
		target = parsed
	case path == "":
		clone := *c.baseURL
		target = &clone
	default:
		ref, err := url.Parse(path)
		if err != nil {
			return "", &ClientError{Type: ErrorTypeValidation, Message: "invalid endpoint path", Cause: err}
		}
		target = c.baseURL.ResolveReference(ref)
	}

	query := target.Query()
	for key, value := range c.defaultParams {
		query.Set(key, value)
	}
	for key, value := range spec.params {
		query.Set(key, value)
	}
	target.RawQuery = query.Encode()

	return target.String(), nil
}
