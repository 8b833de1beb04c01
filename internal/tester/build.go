// Package tester builds and runs the live test requests declared by each
// method form of the documentation page and renders their results.
package tester

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/artpar/doctester/internal/dom"
	"github.com/artpar/doctester/internal/placeholder"
	httpclient "github.com/artpar/doctester/internal/protocol/http"
)

// ErrMissingURL is returned when a method has no target URL input.
var ErrMissingURL = errors.New("test url not found")

// BodyField names the form input whose value is sent as the raw payload.
const BodyField = "body"

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded; charset=UTF-8"
)

// FormID returns the id of the input form for a handler method.
func FormID(handler, method string) string { return handler + method + "_form" }

// URLID returns the id of the target URL input for a handler method.
func URLID(handler, method string) string { return handler + method + "_url" }

// ResponseID returns the id of the response panel for a handler method.
func ResponseID(handler, method string) string { return handler + method + "_response_div" }

// ControlID returns the id of the dismiss control of a response panel.
func ControlID(handler, method string) string { return handler + method + "_X" }

// Form is the part of the page a request is built from.
type Form interface {
	FormFields(formID string) []dom.Field
	Value(id string) string
}

// Build composes the test request for handler and method. A field named
// "body" makes its value the raw JSON payload and no other field is sent;
// otherwise every field is URL-encoded. Template values are resolved first.
// Relative URLs are resolved against base when it is non-nil.
func Build(form Form, resolver *placeholder.Resolver, base *url.URL, handler, method string) (*httpclient.Request, error) {
	fields := form.FormFields(FormID(handler, method))
	if resolver != nil {
		resolved := make([]dom.Field, len(fields))
		for i, f := range fields {
			v, err := resolver.Value(f.Name, f.Value)
			if err != nil {
				return nil, err
			}
			resolved[i] = dom.Field{Name: f.Name, Value: v}
		}
		fields = resolved
	}

	target := strings.TrimSpace(form.Value(URLID(handler, method)))
	if target == "" {
		return nil, fmt.Errorf("%s%s: %w", handler, method, ErrMissingURL)
	}
	endpoint, err := resolveURL(base, target)
	if err != nil {
		return nil, fmt.Errorf("%s%s: invalid test url %q: %w", handler, method, target, err)
	}

	var (
		payload  string
		bodyMode bool
	)
	for _, f := range fields {
		if f.Name == BodyField {
			payload = f.Value
			bodyMode = true
		}
	}
	if !bodyMode {
		payload = dom.Serialize(fields)
	}

	verb := strings.ToUpper(method)
	req := httpclient.NewRequest(verb, endpoint)
	if bodyMode {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	if payload == "" {
		return req, nil
	}

	if !allowsBody(verb) {
		req.URL = appendQuery(endpoint, payload)
		return req, nil
	}
	if !bodyMode {
		req.Header.Set("Content-Type", contentTypeForm)
	}
	req.Body = []byte(payload)
	return req, nil
}

// allowsBody reports whether data travels in the request body rather than
// the query string.
func allowsBody(method string) bool {
	return method != http.MethodGet && method != http.MethodHead
}

func appendQuery(endpoint, query string) string {
	if strings.Contains(endpoint, "?") {
		return endpoint + "&" + query
	}
	return endpoint + "?" + query
}

func resolveURL(base *url.URL, target string) (string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", err
	}
	if base == nil || u.IsAbs() {
		return u.String(), nil
	}
	return base.ResolveReference(u).String(), nil
}
