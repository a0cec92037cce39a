// Package httpclient provides a base for building REST API clients around
// a retrying HTTP transport:
//
//   - RetryTransport: an http.RoundTripper decorator with bounded retry,
//     Retry-After aware waits and exponential backoff + jitter
//   - Client: base URL joining, default header/param merging, auth
//     injection, JSON helpers and concurrent batch execution
//   - Rate limiting (token bucket), middleware chain, Prometheus metrics
//     and structured logging via a pluggable Logger
//
// Design goals:
//   - Small surface area – functional options configure everything
//   - The transport substitutes transparently wherever an
//     http.RoundTripper is expected
//   - Safe concurrent use of a single *Client instance; backoff waits
//     suspend only the calling goroutine and honor context cancellation
//
// Typical usage:
//
//	client, err := httpclient.New("https://connection.keboola.com/v2/storage/",
//	    httpclient.WithAuthHeader(map[string]string{"X-StorageApi-Token": token}),
//	    httpclient.WithDefaultHeaders(map[string]string{"Content-Type": "application/json"}),
//	    httpclient.WithRetryOptions(httpclient.WithMaxAttempts(5)),
//	)
//	if err != nil {
//	    // handle err
//	}
//	var files []File
//	err = client.GetJSON(ctx, "files", &files, httpclient.WithParams(map[string]string{"showExpired": "true"}))
//
// The transport never turns non-2xx statuses into errors; the raw methods
// return the last response received and leave interpretation to the caller,
// while the JSON helpers convert failures into *StatusError.
package httpclient
