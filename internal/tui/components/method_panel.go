package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/artpar/doctester/internal/dom"
	"github.com/artpar/doctester/internal/page"
	"github.com/artpar/doctester/internal/tester"
	"github.com/artpar/doctester/internal/tui"
)

var panelKeys = struct {
	Up, Down, PageUp, PageDown key.Binding
}{
	Up:       key.NewBinding(key.WithKeys("k", "up")),
	Down:     key.NewBinding(key.WithKeys("j", "down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "b")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", "f", " ")),
}

// MethodPanel shows the visible method panel: its form fields, target URL
// and, when shown, its response panel.
type MethodPanel struct {
	doc      *dom.Document
	method   page.Method
	selected bool
	running  bool
	viewport viewport.Model
	styles   tui.Styles
	focused  bool
	width    int
	height   int
}

// NewMethodPanel creates an empty panel over doc.
func NewMethodPanel(doc *dom.Document) *MethodPanel {
	return &MethodPanel{
		doc:      doc,
		viewport: viewport.New(0, 0),
		styles:   tui.DefaultStyles(),
	}
}

// SetMethod selects the method to display.
func (p *MethodPanel) SetMethod(m page.Method) {
	p.method = m
	p.selected = true
	p.viewport.GotoTop()
	p.Refresh()
}

// Clear deselects the method.
func (p *MethodPanel) Clear() {
	p.method = page.Method{}
	p.selected = false
	p.Refresh()
}

// Method returns the displayed method.
func (p *MethodPanel) Method() (page.Method, bool) {
	return p.method, p.selected
}

// SetRunning marks a test as in flight.
func (p *MethodPanel) SetRunning(running bool) {
	p.running = running
	p.Refresh()
}

// ResponseBody returns the body shown in the response panel, or "" when the
// panel is hidden.
func (p *MethodPanel) ResponseBody() string {
	if !p.selected {
		return ""
	}
	id := tester.ResponseID(p.method.Handler, p.method.Method)
	if !p.doc.Visible(id) {
		return ""
	}
	c, ok := p.doc.Content(id)
	if !ok {
		return ""
	}
	return c.Body
}

// Refresh re-renders the panel from the document.
func (p *MethodPanel) Refresh() {
	p.viewport.SetContent(p.render())
}

func (p *MethodPanel) render() string {
	if !p.selected {
		return p.styles.Muted.Render("Select a method to see its test form.")
	}
	h, m := p.method.Handler, p.method.Method

	var b strings.Builder
	b.WriteString(p.styles.Title.Render(fmt.Sprintf("%s %s", m, p.method.URL)))
	b.WriteString("\n\n")

	fields := p.doc.FormFields(tester.FormID(h, m))
	b.WriteString(p.styles.Key.Render("Parameters"))
	b.WriteString("\n")
	if len(fields) == 0 {
		b.WriteString(p.styles.Muted.Render("  (none)"))
		b.WriteString("\n")
	}
	for _, f := range fields {
		fmt.Fprintf(&b, "  %s = %s\n", f.Name, f.Value)
	}
	b.WriteString("\n")

	if p.running {
		b.WriteString(p.styles.Muted.Render("Running test..."))
		b.WriteString("\n")
	}

	id := tester.ResponseID(h, m)
	if c, ok := p.doc.Content(id); ok && p.doc.Visible(id) {
		b.WriteString(p.styles.Key.Render("[" + c.ControlLabel + "]"))
		b.WriteString("  ")
		b.WriteString(p.styles.Title.Render(c.Title))
		b.WriteString(" ")
		b.WriteString(p.styles.Muted.Render(string(DetectBodyFormat(c.Body))))
		b.WriteString("\n")
		b.WriteString(c.Body)
		b.WriteString("\n")
	}
	return b.String()
}

// Init implements tui.Component.
func (p *MethodPanel) Init() tea.Cmd { return nil }

// Update implements tui.Component.
func (p *MethodPanel) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !p.focused {
		return p, nil
	}
	switch {
	case key.Matches(keyMsg, panelKeys.Up):
		p.viewport.LineUp(1)
	case key.Matches(keyMsg, panelKeys.Down):
		p.viewport.LineDown(1)
	case key.Matches(keyMsg, panelKeys.PageUp):
		p.viewport.ViewUp()
	case key.Matches(keyMsg, panelKeys.PageDown):
		p.viewport.ViewDown()
	}
	return p, nil
}

// View implements tui.Component.
func (p *MethodPanel) View() string {
	title := "Method"
	if p.selected {
		title = p.method.PanelID
	}
	inner := max(p.width-4, 0)
	content := tui.RenderTitle(title, inner, p.focused) + "\n" + p.viewport.View()
	return tui.RenderBorder(content, p.width, p.height, p.focused)
}

// Focused implements tui.Component.
func (p *MethodPanel) Focused() bool { return p.focused }

// Focus implements tui.Component.
func (p *MethodPanel) Focus() { p.focused = true }

// Blur implements tui.Component.
func (p *MethodPanel) Blur() { p.focused = false }

// SetSize implements tui.Component.
func (p *MethodPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.viewport.Width = max(width-4, 0)
	p.viewport.Height = max(height-3, 0)
	p.Refresh()
}
