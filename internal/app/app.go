// Package app wires configuration, the HTTP session and a loaded
// documentation page into the components the CLI and TUI drive.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/artpar/doctester/internal/auth"
	"github.com/artpar/doctester/internal/bootstrap"
	"github.com/artpar/doctester/internal/config"
	"github.com/artpar/doctester/internal/cookies"
	"github.com/artpar/doctester/internal/cookies/sqlite"
	"github.com/artpar/doctester/internal/nav"
	"github.com/artpar/doctester/internal/page"
	"github.com/artpar/doctester/internal/placeholder"
	httpclient "github.com/artpar/doctester/internal/protocol/http"
	"github.com/artpar/doctester/internal/tester"
)

// App is the application container. It owns the cookie jar and HTTP client
// shared by every page opened through it.
type App struct {
	config    *config.Config
	logger    zerolog.Logger
	transport http.RoundTripper
	jar       *cookies.PersistentJar
	client    *httpclient.Client
	resolver  *placeholder.Resolver
	closers   []io.Closer
}

// Option configures the App.
type Option func(*App)

// WithLogger sets the logger handed to every component.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithTransport replaces the HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(a *App) {
		a.transport = rt
	}
}

// WithCloser registers a resource released by Close, such as a log file.
func WithCloser(c io.Closer) Option {
	return func(a *App) {
		a.closers = append(a.closers, c)
	}
}

// New builds an App from cfg. A nil cfg uses the defaults.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a := &App{
		config: cfg,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}

	scripts, err := placeholder.ScriptRegistry(cfg.Placeholders, a.logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("placeholders: %w", err)
	}
	a.resolver = placeholder.NewResolver(nil)
	for name, gen := range scripts {
		a.resolver.Register(name, gen)
	}

	store, err := sqlite.Open(cfg.CookieDB)
	if err != nil {
		a.Close()
		return nil, err
	}
	jar, err := cookies.NewPersistentJar(ctx, store, cookies.WithLogger(a.logger))
	if err != nil {
		store.Close()
		a.Close()
		return nil, fmt.Errorf("load cookies: %w", err)
	}
	a.jar = jar
	a.closers = append(a.closers, jar)

	clientOpts := []httpclient.Option{
		httpclient.WithTimeout(cfg.Timeout),
		httpclient.WithCookieJar(jar),
	}
	if !cfg.FollowRedirects {
		clientOpts = append(clientOpts, httpclient.WithNoRedirects())
	}
	if a.transport != nil {
		clientOpts = append(clientOpts, httpclient.WithTransport(a.transport))
	}
	a.client = httpclient.NewClient(clientOpts...)

	return a, nil
}

// Config returns the configuration.
func (a *App) Config() *config.Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() zerolog.Logger { return a.logger }

// Client returns the shared HTTP client.
func (a *App) Client() *httpclient.Client { return a.client }

// Jar returns the shared cookie jar.
func (a *App) Jar() *cookies.PersistentJar { return a.jar }

// Resolver returns the placeholder resolver.
func (a *App) Resolver() *placeholder.Resolver { return a.resolver }

// Close releases the cookie store and any registered resources.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Session is one loaded documentation page and the components bound to it.
type Session struct {
	Page      *page.Page
	Navigator *nav.Navigator
	Runner    *tester.Runner
	Login     *auth.Flow
	Probe     *auth.Probe
	// Restored reports whether the page fragment restored a view on load.
	Restored bool
}

// Open fetches the documentation page at rawURL and restores the view named
// by its fragment, or by fragment when non-empty.
func (a *App) Open(ctx context.Context, rawURL, fragment string) (*Session, error) {
	p, err := page.Fetch(ctx, a.client.HTTPClient(), rawURL)
	if err != nil {
		return nil, err
	}
	if fragment != "" {
		p.Location.SetHash(fragment)
	}
	return a.Attach(p), nil
}

// Attach binds the components to an already loaded page and runs the
// page-ready restoration.
func (a *App) Attach(p *page.Page) *Session {
	s := &Session{
		Page:      p,
		Navigator: nav.New(p.Doc, p.Location, nav.WithLogger(a.logger)),
		Runner: tester.NewRunner(p.Doc, a.client,
			tester.WithResolver(a.resolver),
			tester.WithBaseURL(p.URL),
			tester.WithLogger(a.logger),
		),
		Login: auth.NewFlow(p.Doc, a.client,
			auth.WithCredentials(auth.Credentials{
				Username: a.config.TestUser.Username,
				Password: a.config.TestUser.Password,
			}),
			auth.WithResolver(a.resolver),
			auth.WithBaseURL(p.URL),
			auth.WithLogger(a.logger),
		),
		Probe: auth.NewProbe(a.jar, p.URL),
	}
	s.Restored = bootstrap.Run(s.Navigator, p.Location)
	a.logger.Debug().
		Str("url", p.URL.String()).
		Str("fragment", p.Location.Hash()).
		Bool("restored", s.Restored).
		Msg("page opened")
	return s
}
