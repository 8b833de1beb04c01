// Package components implements the panes of the documentation browser.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/artpar/doctester/internal/page"
	"github.com/artpar/doctester/internal/tui"
)

// NavState reports the navigation state the tree mirrors.
type NavState interface {
	Expanded() string
	Visible() string
}

// ExpandGroupMsg asks for a group to be expanded.
type ExpandGroupMsg struct {
	Key string
}

// ShowPanelMsg asks for a method panel to be shown.
type ShowPanelMsg struct {
	PanelID string
}

var treeKeys = struct {
	Up, Down, Select key.Binding
}{
	Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
	Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
	Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
}

type treeRow struct {
	group  string
	method *page.Method
}

// GroupTree lists the page's handler groups. Only the expanded group shows
// its methods.
type GroupTree struct {
	groups  []page.Group
	state   NavState
	styles  tui.Styles
	cursor  int
	focused bool
	width   int
	height  int
}

// NewGroupTree creates a tree over groups reflecting state.
func NewGroupTree(groups []page.Group, state NavState) *GroupTree {
	return &GroupTree{
		groups: groups,
		state:  state,
		styles: tui.DefaultStyles(),
	}
}

func (t *GroupTree) rows() []treeRow {
	expanded := t.state.Expanded()
	var rows []treeRow
	for _, g := range t.groups {
		rows = append(rows, treeRow{group: g.Key})
		if g.Key != expanded {
			continue
		}
		for i := range g.Methods {
			rows = append(rows, treeRow{group: g.Key, method: &g.Methods[i]})
		}
	}
	return rows
}

// Cursor returns the selected row index.
func (t *GroupTree) Cursor() int { return t.cursor }

// Sync moves the cursor onto the visible panel, or the expanded group.
func (t *GroupTree) Sync() {
	visible, expanded := t.state.Visible(), t.state.Expanded()
	for i, r := range t.rows() {
		if r.method != nil && r.method.PanelID == visible {
			t.cursor = i
			return
		}
	}
	for i, r := range t.rows() {
		if r.method == nil && r.group == expanded {
			t.cursor = i
			return
		}
	}
}

// Init implements tui.Component.
func (t *GroupTree) Init() tea.Cmd { return nil }

// Update implements tui.Component.
func (t *GroupTree) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !t.focused {
		return t, nil
	}
	rows := t.rows()
	switch {
	case key.Matches(keyMsg, treeKeys.Up):
		if t.cursor > 0 {
			t.cursor--
		}
	case key.Matches(keyMsg, treeKeys.Down):
		if t.cursor < len(rows)-1 {
			t.cursor++
		}
	case key.Matches(keyMsg, treeKeys.Select):
		if t.cursor >= len(rows) {
			return t, nil
		}
		row := rows[t.cursor]
		if row.method != nil {
			id := row.method.PanelID
			return t, func() tea.Msg { return ShowPanelMsg{PanelID: id} }
		}
		group := row.group
		return t, func() tea.Msg { return ExpandGroupMsg{Key: group} }
	}
	return t, nil
}

// View implements tui.Component.
func (t *GroupTree) View() string {
	inner := max(t.width-4, 0)
	var b strings.Builder
	b.WriteString(tui.RenderTitle("Handlers", inner, t.focused))
	b.WriteString("\n")

	expanded, visible := t.state.Expanded(), t.state.Visible()
	if len(t.groups) == 0 {
		b.WriteString(t.styles.Muted.Render("no handlers on this page"))
	}
	for i, r := range t.rows() {
		var line string
		switch {
		case r.method == nil && r.group == expanded:
			line = "▾ " + r.group
		case r.method == nil:
			line = "▸ " + r.group
		default:
			marker := "  "
			if r.method.PanelID == visible {
				marker = "● "
			}
			line = fmt.Sprintf("  %s%-6s %s", marker, r.method.Method, r.method.URL)
		}
		line = tui.Truncate(line, inner)
		if i == t.cursor && t.focused {
			line = t.styles.Selected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return tui.RenderBorder(strings.TrimRight(b.String(), "\n"), t.width, t.height, t.focused)
}

// Focused implements tui.Component.
func (t *GroupTree) Focused() bool { return t.focused }

// Focus implements tui.Component.
func (t *GroupTree) Focus() { t.focused = true }

// Blur implements tui.Component.
func (t *GroupTree) Blur() { t.focused = false }

// SetSize implements tui.Component.
func (t *GroupTree) SetSize(width, height int) {
	t.width = width
	t.height = height
}
