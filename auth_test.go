package httpclient

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"testing"
)

func newAuthRequest(t *testing.T) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "https://api.example.com/", nil)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	return req
}

func TestBasicAuthHeader(t *testing.T) {
	req := newAuthRequest(t)
	auth := BasicAuth{Username: "user", Password: "pass"}
	if err := auth.Authenticate(req); err != nil {
		t.Fatalf(errFmtUnexpectedError, err)
	}

	// base64("user:pass")
	expected := "Basic dXNlcjpwYXNz"
	if got := req.Header.Get("Authorization"); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestBearerTokenHeader(t *testing.T) {
	req := newAuthRequest(t)
	auth := BearerToken{Token: "my-token"}
	if err := auth.Authenticate(req); err != nil {
		t.Fatalf(errFmtUnexpectedError, err)
	}

	if got := req.Header.Get("Authorization"); got != "Bearer my-token" {
		t.Errorf("Expected bearer header, got %q", got)
	}
}

func TestHeaderAuth(t *testing.T) {
	req := newAuthRequest(t)
	auth := HeaderAuth{"X-StorageApi-Token": "tk", "X-Kbc-Project": "123"}
	if err := auth.Authenticate(req); err != nil {
		t.Fatalf(errFmtUnexpectedError, err)
	}

	if got := req.Header.Get("X-StorageApi-Token"); got != "tk" {
		t.Errorf("Expected token header, got %q", got)
	}
	if got := req.Header.Get("X-Kbc-Project"); got != "123" {
		t.Errorf("Expected project header, got %q", got)
	}
}

func TestSupportedAuthMethods(t *testing.T) {
	expected := []string{"basic", "bearer"}
	if got := SupportedAuthMethods(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestBuildAuthenticator(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		parameters map[string]string
		expected   Authenticator
	}{
		{
			name:       "basic with secret prefix",
			method:     "basic",
			parameters: map[string]string{"username": "user", "secret__password": "pass"},
			expected:   BasicAuth{Username: "user", Password: "pass"},
		},
		{
			name:       "basic with hash shorthand",
			method:     "basic",
			parameters: map[string]string{"username": "user", "#password": "pass"},
			expected:   BasicAuth{Username: "user", Password: "pass"},
		},
		{
			name:       "bearer with hash shorthand",
			method:     "bearer",
			parameters: map[string]string{"#token": "tkn"},
			expected:   BearerToken{Token: "tkn"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth, err := BuildAuthenticator(tt.method, tt.parameters)
			if err != nil {
				t.Fatalf(errFmtUnexpectedError, err)
			}
			if !reflect.DeepEqual(auth, tt.expected) {
				t.Errorf("Expected %+v, got %+v", tt.expected, auth)
			}
		})
	}
}

func TestBuildAuthenticatorUnknownMethod(t *testing.T) {
	_, err := BuildAuthenticator("oauth", nil)
	if err == nil {
		t.Fatal("Expected error for unknown method")
	}

	var clientErr *ClientError
	if !errors.As(err, &clientErr) || clientErr.Type != ErrorTypeAuth {
		t.Fatalf("Expected auth ClientError, got %v", err)
	}
	if !strings.Contains(err.Error(), "is not a supported auth method") {
		t.Errorf("Unexpected message: %q", err.Error())
	}
}

func TestBuildAuthenticatorMissingParameters(t *testing.T) {
	_, err := BuildAuthenticator("basic", map[string]string{"username": "user"})
	if err == nil {
		t.Fatal("Expected error for missing parameters")
	}

	var clientErr *ClientError
	if !errors.As(err, &clientErr) || clientErr.Type != ErrorTypeAuth {
		t.Fatalf("Expected auth ClientError, got %v", err)
	}
	if !strings.Contains(err.Error(), "missing") || !strings.Contains(err.Error(), "#password") {
		t.Errorf("Expected missing #password reported, got %q", err.Error())
	}
}
