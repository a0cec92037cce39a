package httpclient

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Authenticator modifies an outgoing request to carry credentials. It is
// applied after default headers so credentials always win.
type Authenticator interface {
	Authenticate(req *http.Request) error
}

// BasicAuth authenticates with HTTP basic auth.
type BasicAuth struct {
	Username string
	Password string
}

// Authenticate sets the Authorization header.
func (a BasicAuth) Authenticate(req *http.Request) error {
	credentials := fmt.Sprintf("%s:%s", a.Username, a.Password)
	encoded := base64.StdEncoding.EncodeToString([]byte(credentials))
	req.Header.Set("Authorization", "Basic "+encoded)
	return nil
}

// BearerToken authenticates with a bearer token.
type BearerToken struct {
	Token string
}

// Authenticate sets the Authorization header.
func (a BearerToken) Authenticate(req *http.Request) error {
	req.Header.Set("Authorization", "Bearer "+a.Token)
	return nil
}

// HeaderAuth authenticates with a static set of headers, for services using
// custom token headers.
type HeaderAuth map[string]string

// Authenticate sets every configured header.
func (a HeaderAuth) Authenticate(req *http.Request) error {
	for key, value := range a {
		req.Header.Set(key, value)
	}
	return nil
}

// secretPrefix marks builder parameters holding credentials. The shorthand
// "#name" form is normalized to "secret__name" before lookup.
const secretPrefix = "secret__"

type authFactory struct {
	required []string
	build    func(params map[string]string) Authenticator
}

var authMethods = map[string]authFactory{
	"basic": {
		required: []string{"username", secretPrefix + "password"},
		build: func(params map[string]string) Authenticator {
			return BasicAuth{Username: params["username"], Password: params[secretPrefix+"password"]}
		},
	},
	"bearer": {
		required: []string{secretPrefix + "token"},
		build: func(params map[string]string) Authenticator {
			return BearerToken{Token: params[secretPrefix+"token"]}
		},
	},
}

// SupportedAuthMethods lists the method names accepted by BuildAuthenticator.
func SupportedAuthMethods() []string {
	names := make([]string, 0, len(authMethods))
	for name := range authMethods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildAuthenticator constructs an authenticator by method name from named
// parameters. Parameter names prefixed "#" are treated as secrets and
// converted to the "secret__" form. Unknown methods and missing parameters
// are validation errors.
func BuildAuthenticator(method string, parameters map[string]string) (Authenticator, error) {
	factory, ok := authMethods[method]
	if !ok {
		return nil, &ClientError{
			Type: ErrorTypeAuth,
			Message: fmt.Sprintf("%s is not a supported auth method, supported values are: %v",
				method, SupportedAuthMethods()),
		}
	}

	normalized := make(map[string]string, len(parameters))
	for name, value := range parameters {
		normalized[strings.Replace(name, "#", secretPrefix, 1)] = value
	}

	var missing []string
	for _, name := range factory.required {
		if _, ok := normalized[name]; !ok {
			missing = append(missing, strings.Replace(name, secretPrefix, "#", 1))
		}
	}
	if len(missing) > 0 {
		return nil, &ClientError{
			Type:    ErrorTypeAuth,
			Message: fmt.Sprintf("some arguments of method %s are missing: %v", method, missing),
		}
	}

	return factory.build(normalized), nil
}
