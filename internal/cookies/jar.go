// Package cookies provides the cookie jar shared by page fetches, test
// requests and the login flow, backed by a persistent Store.
package cookies

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/publicsuffix"
)

// PersistentJar implements http.CookieJar over an in-memory cookiejar,
// writing every change through to a Store.
type PersistentJar struct {
	mu     sync.RWMutex
	jar    *cookiejar.Jar
	store  Store
	logger zerolog.Logger
	now    func() time.Time
}

// JarOption configures a PersistentJar.
type JarOption func(*PersistentJar)

// WithLogger sets the logger used to report store failures.
func WithLogger(logger zerolog.Logger) JarOption {
	return func(j *PersistentJar) {
		j.logger = logger
	}
}

// NewPersistentJar creates a jar and loads the unexpired cookies held by store.
func NewPersistentJar(ctx context.Context, store Store, opts ...JarOption) (*PersistentJar, error) {
	j := &PersistentJar{
		store:  store,
		logger: zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	if err := j.reload(ctx); err != nil {
		return nil, err
	}
	return j, nil
}

func newMemoryJar() (*cookiejar.Jar, error) {
	return cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
}

func (j *PersistentJar) reload(ctx context.Context) error {
	jar, err := newMemoryJar()
	if err != nil {
		return err
	}
	stored, err := j.store.List(ctx, "")
	if err != nil {
		return err
	}
	for _, c := range stored {
		jar.SetCookies(c.URL(), []*http.Cookie{c.HTTPCookie()})
	}
	j.jar = jar
	j.logger.Debug().Int("count", len(stored)).Msg("cookies restored")
	return nil
}

// SetCookies implements http.CookieJar.
func (j *PersistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.jar.SetCookies(u, cookies)

	ctx := context.Background()
	now := j.now()
	for _, hc := range cookies {
		c := FromHTTPCookie(u, hc, now)
		var err error
		if c.Expired(now) {
			err = j.store.Delete(ctx, c.Domain, c.Path, c.Name)
		} else {
			err = j.store.Put(ctx, c)
		}
		if err != nil {
			j.logger.Warn().Err(err).Str("cookie", c.Name).Str("domain", c.Domain).Msg("persist cookie")
		}
	}
}

// Cookies implements http.CookieJar.
func (j *PersistentJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.jar.Cookies(u)
}

// List returns the persisted cookies for domain, or all when domain is empty.
func (j *PersistentJar) List(ctx context.Context, domain string) ([]*Cookie, error) {
	return j.store.List(ctx, domain)
}

// Clear forgets every cookie.
func (j *PersistentJar) Clear(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.store.Clear(ctx); err != nil {
		return err
	}
	jar, err := newMemoryJar()
	if err != nil {
		return err
	}
	j.jar = jar
	return nil
}

// Close closes the underlying store.
func (j *PersistentJar) Close() error {
	return j.store.Close()
}
