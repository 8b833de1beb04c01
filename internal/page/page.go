// Package page loads a documentation page and describes its handlers.
package page

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/carlmjohnson/requests"

	"github.com/artpar/doctester/internal/dom"
	"github.com/artpar/doctester/internal/nav"
	"github.com/artpar/doctester/internal/tester"
)

// UserAgent identifies page fetches.
const UserAgent = "doctester"

// Page is a loaded documentation page.
type Page struct {
	// URL is the page address without its fragment.
	URL      *url.URL
	Doc      *dom.Document
	Location *nav.Location
}

// Method is one documented method panel.
type Method struct {
	PanelID string
	Handler string
	Method  string
	URL     string
}

// Group is a handler and its method panels in document order.
type Group struct {
	Key     string
	Methods []Method
}

// Fetch downloads and parses the page at raw using client, which should carry
// the session cookie jar. The fragment of raw seeds the page Location.
func Fetch(ctx context.Context, client *http.Client, raw string) (*Page, error) {
	u, err := parseURL(raw)
	if err != nil {
		return nil, err
	}

	var doc *dom.Document
	err = requests.URL(withoutFragment(u).String()).
		Client(client).
		UserAgent(UserAgent).
		Accept("text/html").
		CheckStatus(http.StatusOK).
		Handle(func(res *http.Response) error {
			var perr error
			doc, perr = dom.Parse(res.Body)
			return perr
		}).
		Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch page %s: %w", withoutFragment(u), err)
	}

	return &Page{
		URL:      withoutFragment(u),
		Doc:      doc,
		Location: nav.NewLocation(u.Fragment),
	}, nil
}

// Load parses a page read from r as if it had been served from raw.
func Load(r io.Reader, raw string) (*Page, error) {
	u, err := parseURL(raw)
	if err != nil {
		return nil, err
	}
	doc, err := dom.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return &Page{
		URL:      withoutFragment(u),
		Doc:      doc,
		Location: nav.NewLocation(u.Fragment),
	}, nil
}

func parseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("page url %q must be absolute", raw)
	}
	return u, nil
}

func withoutFragment(u *url.URL) *url.URL {
	c := *u
	c.Fragment = ""
	c.RawFragment = ""
	return &c
}

// Groups lists every method group of the page in document order.
func (p *Page) Groups() []Group {
	var groups []Group
	for _, el := range p.Doc.Elements() {
		id := el.ID()
		if !strings.HasSuffix(id, nav.GroupSuffix) || el.HasClass(nav.PanelClass) {
			continue
		}
		key := strings.TrimSuffix(id, nav.GroupSuffix)
		if key == "" {
			continue
		}
		groups = append(groups, Group{Key: key, Methods: p.Methods(key)})
	}
	return groups
}

// Methods lists the method panels of the group handlerKey.
func (p *Page) Methods(handlerKey string) []Method {
	prefix := nav.GroupID(handlerKey) + "_"
	var methods []Method
	for _, el := range p.Doc.ByClass(nav.PanelClass) {
		rest, ok := strings.CutPrefix(el.ID(), prefix)
		if !ok || rest == "" {
			continue
		}
		verb := strings.ToUpper(rest)
		methods = append(methods, Method{
			PanelID: el.ID(),
			Handler: handlerKey,
			Method:  verb,
			URL:     p.Doc.Value(tester.URLID(handlerKey, verb)),
		})
	}
	return methods
}

// MethodByPanel returns the method shown by panelID.
func (p *Page) MethodByPanel(panelID string) (Method, bool) {
	for _, g := range p.Groups() {
		for _, m := range g.Methods {
			if m.PanelID == panelID {
				return m, true
			}
		}
	}
	return Method{}, false
}
