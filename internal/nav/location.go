package nav

import (
	"net/url"
	"strings"
	"sync"
)

// Location holds the page URL fragment used for shareable links.
type Location struct {
	mu   sync.RWMutex
	hash string
}

// NewLocation creates a location with an initial fragment; a leading '#' is dropped.
func NewLocation(hash string) *Location {
	return &Location{hash: strings.TrimPrefix(hash, "#")}
}

// LocationFromURL takes the fragment of raw.
func LocationFromURL(raw string) (*Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return NewLocation(u.Fragment), nil
}

// Hash returns the fragment without '#'.
func (l *Location) Hash() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.hash
}

// SetHash replaces the fragment.
func (l *Location) SetHash(hash string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hash = strings.TrimPrefix(hash, "#")
}

// String renders the fragment with its '#', or "" when empty.
func (l *Location) String() string {
	h := l.Hash()
	if h == "" {
		return ""
	}
	return "#" + h
}
