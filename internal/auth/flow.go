package auth

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/artpar/doctester/internal/dom"
	"github.com/artpar/doctester/internal/placeholder"
	httpclient "github.com/artpar/doctester/internal/protocol/http"
)

const contentTypeForm = "application/x-www-form-urlencoded; charset=UTF-8"

// Credentials are externally supplied test user credentials.
type Credentials struct {
	Username string
	Password string
}

// Complete reports whether both fields are set.
func (c Credentials) Complete() bool {
	return c.Username != "" && c.Password != ""
}

// Params returns the credentials as request parameters.
func (c Credentials) Params() map[string]string {
	return map[string]string{
		"username": c.Username,
		"password": c.Password,
	}
}

// Sender issues HTTP calls.
type Sender interface {
	Send(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error)
}

// Flow logs in through the page's auth test.
type Flow struct {
	page        Links
	sender      Sender
	resolver    *placeholder.Resolver
	base        *url.URL
	credentials Credentials
	logger      zerolog.Logger
}

// Option configures the Flow.
type Option func(*Flow)

// WithCredentials sets test credentials that replace the declared params
// when complete.
func WithCredentials(c Credentials) Option {
	return func(f *Flow) {
		f.credentials = c
	}
}

// WithResolver sets the placeholder resolver applied to params.
func WithResolver(resolver *placeholder.Resolver) Option {
	return func(f *Flow) {
		f.resolver = resolver
	}
}

// WithBaseURL sets the URL the descriptor path is resolved against.
func WithBaseURL(base *url.URL) Option {
	return func(f *Flow) {
		f.base = base
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(f *Flow) {
		f.logger = logger
	}
}

// NewFlow creates a login flow over page.
func NewFlow(page Links, sender Sender, opts ...Option) *Flow {
	f := &Flow{
		page:     page,
		sender:   sender,
		resolver: placeholder.NewResolver(nil),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Descriptor returns the login call to issue: the page's auth test, with
// its params replaced outright by complete credentials.
func (f *Flow) Descriptor() (*Descriptor, error) {
	d, err := FindAuthTest(f.page, f.logger)
	if err != nil {
		return nil, err
	}
	if f.credentials.Complete() {
		d.Params = f.credentials.Params()
	}
	return d, nil
}

// Request builds the login request from the descriptor.
func (f *Flow) Request() (*httpclient.Request, error) {
	d, err := f.Descriptor()
	if err != nil {
		return nil, err
	}
	params, err := f.resolver.Resolve(d.Params)
	if err != nil {
		return nil, err
	}

	endpoint, err := url.Parse(d.Path)
	if err != nil {
		return nil, &DescriptorError{Err: err}
	}
	if f.base != nil {
		endpoint = f.base.ResolveReference(endpoint)
	}

	method := strings.ToUpper(d.Method)
	req := httpclient.NewRequest(method, endpoint.String())
	payload := dom.SerializeMap(params)
	if payload == "" {
		return req, nil
	}
	if method == http.MethodGet || method == http.MethodHead {
		if endpoint.RawQuery != "" {
			endpoint.RawQuery += "&" + payload
		} else {
			endpoint.RawQuery = payload
		}
		req.URL = endpoint.String()
		return req, nil
	}
	req.Header.Set("Content-Type", contentTypeForm)
	req.Body = []byte(payload)
	return req, nil
}

// Login issues the login call and runs onComplete once it settles, whether
// it succeeded or not. A nil onComplete is allowed. Errors locating or
// preparing the call are returned before anything is sent, and onComplete
// is not run for them.
func (f *Flow) Login(ctx context.Context, onComplete func()) error {
	if onComplete == nil {
		onComplete = func() {}
	}

	req, err := f.Request()
	if err != nil {
		f.logger.Error().Err(err).Msg("preparing login")
		return err
	}

	resp, err := f.sender.Send(ctx, req)
	onComplete()
	if err != nil {
		f.logger.Warn().Err(err).Str("url", req.URL).Msg("login request failed")
		return err
	}
	f.logger.Info().Str("method", req.Method).Str("url", req.URL).Int("status", resp.StatusCode).Msg("login completed")
	return nil
}

// LoginAsync runs Login in the background; the channel receives its error
// and is closed.
func (f *Flow) LoginAsync(ctx context.Context) <-chan error {
	ch := make(chan error, 1)
	go func() {
		defer close(ch)
		ch <- f.Login(ctx, nil)
	}()
	return ch
}
