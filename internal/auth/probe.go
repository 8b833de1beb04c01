package auth

import (
	"net/http"
	"net/url"
	"strings"
)

// SessionMarker is the cookie text that signals an active session.
const SessionMarker = "sessionid="

// HasSession reports whether a cookie string contains the session marker.
func HasSession(cookies string) bool {
	return strings.Contains(cookies, SessionMarker)
}

// Probe answers whether the jar holds a session for the page.
type Probe struct {
	jar  http.CookieJar
	page *url.URL
}

// NewProbe creates a probe for cookies the jar would send to page.
func NewProbe(jar http.CookieJar, page *url.URL) *Probe {
	return &Probe{jar: jar, page: page}
}

// CookieString renders the cookies visible to the page as "a=1; b=2".
func (p *Probe) CookieString() string {
	if p.jar == nil || p.page == nil {
		return ""
	}
	cookies := p.jar.Cookies(p.page)
	parts := make([]string, 0, len(cookies))
	for _, c := range cookies {
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}

// IsLoggedIn reports whether a session cookie is present.
func (p *Probe) IsLoggedIn() bool {
	return HasSession(p.CookieString())
}
