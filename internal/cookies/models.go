package cookies

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Cookie is a persisted cookie. HostOnly cookies were set without a Domain
// attribute and only match the exact host they came from.
type Cookie struct {
	ID        string
	Domain    string
	Path      string
	Name      string
	Value     string
	Secure    bool
	HTTPOnly  bool
	HostOnly  bool
	Expires   time.Time
	UpdatedAt time.Time
}

// Expired reports whether the cookie has expired at now. Session cookies
// never expire.
func (c *Cookie) Expired(now time.Time) bool {
	return !c.Expires.IsZero() && !now.Before(c.Expires)
}

// URL returns the URL the cookie was originally set for.
func (c *Cookie) URL() *url.URL {
	scheme := "http"
	if c.Secure {
		scheme = "https"
	}
	return &url.URL{Scheme: scheme, Host: c.Domain, Path: c.Path}
}

// HTTPCookie converts the stored cookie back into a Set-Cookie value.
func (c *Cookie) HTTPCookie() *http.Cookie {
	hc := &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Secure:   c.Secure,
		HttpOnly: c.HTTPOnly,
		Expires:  c.Expires,
	}
	if !c.HostOnly {
		hc.Domain = c.Domain
	}
	return hc
}

// FromHTTPCookie captures a cookie received from u.
func FromHTTPCookie(u *url.URL, hc *http.Cookie, now time.Time) *Cookie {
	c := &Cookie{
		Domain:    strings.TrimPrefix(hc.Domain, "."),
		Path:      hc.Path,
		Name:      hc.Name,
		Value:     hc.Value,
		Secure:    hc.Secure,
		HTTPOnly:  hc.HttpOnly,
		Expires:   hc.Expires,
		UpdatedAt: now,
	}
	if c.Domain == "" {
		c.Domain = u.Hostname()
		c.HostOnly = true
	}
	if c.Path == "" {
		c.Path = "/"
	}
	switch {
	case hc.MaxAge > 0:
		c.Expires = now.Add(time.Duration(hc.MaxAge) * time.Second)
	case hc.MaxAge < 0:
		c.Expires = time.Unix(0, 0)
	}
	return c
}
