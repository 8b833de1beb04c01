package tester

import (
	"context"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/artpar/doctester/internal/dom"
	"github.com/artpar/doctester/internal/placeholder"
	httpclient "github.com/artpar/doctester/internal/protocol/http"
)

// Sender issues HTTP calls.
type Sender interface {
	Send(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error)
}

// Page is the document a Runner reads forms from and renders results into.
type Page interface {
	Form
	Show(id string) bool
	Toggle(id string) bool
	SetContent(id string, c dom.Content) bool
	Bind(id string, fn func())
}

// Result is the completion of one test run. Transport failures are carried
// in Err with an empty body; HTTP error statuses are ordinary results.
type Result struct {
	Handler     string
	Method      string
	Request     *httpclient.Request
	Issued      bool
	StatusCode  int
	Status      string
	ContentType string
	Body        string
	Elapsed     time.Duration
	Err         error
}

// Display returns the body as it is shown in the response panel.
func (r Result) Display() string {
	return DisplayBody(r.ContentType, r.Body)
}

// Runner executes method tests against the documented API.
type Runner struct {
	page     Page
	sender   Sender
	resolver *placeholder.Resolver
	base     *url.URL
	logger   zerolog.Logger
}

// Option configures the Runner.
type Option func(*Runner)

// WithResolver sets the placeholder resolver applied to form values.
func WithResolver(resolver *placeholder.Resolver) Option {
	return func(r *Runner) {
		r.resolver = resolver
	}
}

// WithBaseURL sets the URL relative test URLs are resolved against.
func WithBaseURL(base *url.URL) Option {
	return func(r *Runner) {
		r.base = base
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a runner over page sending through sender.
func NewRunner(page Page, sender Sender, opts ...Option) *Runner {
	r := &Runner{
		page:     page,
		sender:   sender,
		resolver: placeholder.NewResolver(nil),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run builds and issues the test for handler and method and waits for it
// to settle. A Result is always returned; build failures set Err with
// Issued false.
func (r *Runner) Run(ctx context.Context, handler, method string) Result {
	res := Result{Handler: handler, Method: method}

	req, err := Build(r.page, r.resolver, r.base, handler, method)
	if err != nil {
		r.logger.Error().Err(err).Str("handler", handler).Str("method", method).Msg("building test request")
		res.Err = err
		return res
	}
	res.Request = req
	res.Issued = true

	start := time.Now()
	resp, err := r.sender.Send(ctx, req)
	if err != nil {
		res.Elapsed = time.Since(start)
		res.Err = err
		r.logger.Warn().Err(err).Str("method", req.Method).Str("url", req.URL).Msg("test request failed")
		return res
	}

	res.StatusCode = resp.StatusCode
	res.Status = resp.Status
	res.ContentType = resp.ContentType()
	res.Body = string(resp.Body)
	res.Elapsed = resp.Elapsed
	r.logger.Info().
		Str("method", req.Method).
		Str("url", req.URL).
		Int("status", resp.StatusCode).
		Dur("elapsed", resp.Elapsed).
		Msg("test request completed")
	return res
}

// RunAsync starts Run in the background. The channel receives exactly one
// Result and is then closed. Concurrent runs for the same method are not
// coordinated; whichever renders last wins.
func (r *Runner) RunAsync(ctx context.Context, handler, method string) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		ch <- r.Run(ctx, handler, method)
	}()
	return ch
}

// Render shows res in the method's response panel.
func (r *Runner) Render(res Result) {
	Render(r.page, res)
}
