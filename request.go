package httpclient

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

// requestSpec collects per-request settings before the request is built.
type requestSpec struct {
	params      map[string]string
	headers     map[string]string
	cookies     []*http.Cookie
	body        io.Reader
	contentType string
	jsonBody    interface{}
	hasJSONBody bool
	absoluteURL bool
	ignoreAuth  bool
}

// RequestOption configures a single request.
type RequestOption func(*requestSpec)

func newRequestSpec() *requestSpec {
	return &requestSpec{
		params:  map[string]string{},
		headers: map[string]string{},
	}
}

// WithParams adds query string parameters, overriding default parameters of
// the same name.
func WithParams(params map[string]string) RequestOption {
	return func(s *requestSpec) {
		for key, value := range params {
			s.params[key] = value
		}
	}
}

// WithHeaders adds headers, overriding default and auth headers of the same
// name.
func WithHeaders(headers map[string]string) RequestOption {
	return func(s *requestSpec) {
		for key, value := range headers {
			s.headers[key] = value
		}
	}
}

// WithCookies attaches cookies to the request.
func WithCookies(cookies ...*http.Cookie) RequestOption {
	return func(s *requestSpec) {
		s.cookies = append(s.cookies, cookies...)
	}
}

// WithBody attaches a raw body with the given content type.
func WithBody(contentType string, body io.Reader) RequestOption {
	return func(s *requestSpec) {
		s.body = body
		s.contentType = contentType
	}
}

// WithJSONBody marshals v as the request body with a JSON content type.
func WithJSONBody(v interface{}) RequestOption {
	return func(s *requestSpec) {
		s.jsonBody = v
		s.hasJSONBody = true
	}
}

// WithAbsoluteURL treats the endpoint path as a complete URL, overriding the
// client's base URL for this request.
func WithAbsoluteURL() RequestOption {
	return func(s *requestSpec) {
		s.absoluteURL = true
	}
}

// WithIgnoreAuth skips auth header and authenticator injection for this
// request.
func WithIgnoreAuth() RequestOption {
	return func(s *requestSpec) {
		s.ignoreAuth = true
	}
}

func (s *requestSpec) bodyReader() (io.Reader, string, error) {
	if s.hasJSONBody {
		encoded, err := json.Marshal(s.jsonBody)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(encoded), "application/json", nil
	}
	return s.body, s.contentType, nil
}

// decodeJSON closes the response body, converts non-2xx statuses into a
// *StatusError and decodes successful bodies into out.
func decodeJSON(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, drainLimit))
		return &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       bytes.TrimSpace(body),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit))
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
