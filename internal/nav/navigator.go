// Package nav implements the single-expanded group, single-visible panel
// navigation model of the documentation page.
package nav

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/artpar/doctester/internal/dom"
)

const (
	// PanelClass marks method detail panels.
	PanelClass = "handlerdiv"
	// GroupSuffix is appended to a handler key to address its method group.
	GroupSuffix = "_methods"
	// SlideDuration is the group expand/collapse animation length.
	SlideDuration = 100 * time.Millisecond
)

// GroupID returns the container id of the method group for handlerKey.
func GroupID(handlerKey string) string {
	return handlerKey + GroupSuffix
}

// Page is the part of the document the navigator drives.
type Page interface {
	ByClass(class string) []*dom.Element
	ByID(id string) *dom.Element
	Show(id string) bool
	Hide(id string) bool
	SlideDown(id string, d time.Duration) bool
	SlideUp(id string, d time.Duration) bool
}

// Navigator owns the navigation state. At most one group is expanded and at
// most one panel is visible.
type Navigator struct {
	mu       sync.Mutex
	page     Page
	location *Location
	logger   zerolog.Logger
	expanded string
	visible  string
}

// Option configures the Navigator.
type Option func(*Navigator)

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(n *Navigator) {
		n.logger = logger
	}
}

// New creates a navigator over page that mirrors the expanded group into location.
func New(page Page, location *Location, opts ...Option) *Navigator {
	if location == nil {
		location = NewLocation("")
	}
	n := &Navigator{
		page:     page,
		location: location,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Expanded returns the handler key of the expanded group, or "".
func (n *Navigator) Expanded() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.expanded
}

// Visible returns the id of the visible panel, or "".
func (n *Navigator) Visible() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.visible
}

// Location returns the fragment the navigator writes to.
func (n *Navigator) Location() *Location {
	return n.location
}

// ExpandGroup collapses the current group, expands handlerKey's group,
// shows its first panel and records handlerKey in the fragment. Expanding
// the already expanded group does nothing.
func (n *Navigator) ExpandGroup(handlerKey string) {
	handlerKey = strings.TrimPrefix(handlerKey, "#")

	n.mu.Lock()
	defer n.mu.Unlock()

	if handlerKey == n.expanded {
		return
	}
	if n.expanded != "" {
		n.page.SlideUp(GroupID(n.expanded), SlideDuration)
		n.expanded = ""
	}
	n.page.SlideDown(GroupID(handlerKey), SlideDuration)
	n.expanded = handlerKey

	if first := n.firstPanel(handlerKey); first != "" {
		n.showPanel(first)
	}
	n.location.SetHash(handlerKey)

	n.logger.Debug().Str("group", handlerKey).Str("panel", n.visible).Msg("group expanded")
}

// ShowPanel hides the visible panel and shows panelID.
func (n *Navigator) ShowPanel(panelID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.showPanel(strings.TrimPrefix(panelID, "#"))
	n.logger.Debug().Str("panel", n.visible).Msg("panel shown")
}

func (n *Navigator) showPanel(panelID string) {
	if n.visible != "" {
		n.page.Hide(n.visible)
		n.visible = ""
	}
	n.page.Show(panelID)
	n.visible = panelID
}

// firstPanel returns the first panel in document order whose id starts with prefix.
func (n *Navigator) firstPanel(prefix string) string {
	for _, el := range n.page.ByClass(PanelClass) {
		if strings.HasPrefix(el.ID(), prefix) {
			return el.ID()
		}
	}
	return ""
}

// Panels returns the panel ids of handlerKey's group in document order.
func (n *Navigator) Panels(handlerKey string) []string {
	var ids []string
	for _, el := range n.page.ByClass(PanelClass) {
		if strings.HasPrefix(el.ID(), handlerKey) {
			ids = append(ids, el.ID())
		}
	}
	return ids
}

// Restore rebuilds the navigation state from a fragment of the form
// "<handlerKey>" or "<handlerKey>_<panel>". The group named by the first
// token is expanded. When a second token is present and the whole fragment
// names a panel, that panel is shown; otherwise the first panel whose id
// starts with the group token is shown.
func (n *Navigator) Restore(hash string) {
	hash = strings.TrimPrefix(hash, "#")
	if hash == "" {
		return
	}
	group, panelToken, hasPanel := strings.Cut(hash, "_")

	n.ExpandGroup(group)

	if hasPanel && panelToken != "" && n.isPanel(hash) {
		n.ShowPanel(hash)
		return
	}
	if first := n.firstPanel(group); first != "" {
		n.ShowPanel(first)
	}
}

func (n *Navigator) isPanel(id string) bool {
	el := n.page.ByID(id)
	return el != nil && el.HasClass(PanelClass)
}
